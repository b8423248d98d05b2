// internal/app/app.go
package app

import (
	"fmt"

	"github.com/Corphon/HookForge/internal/config"
	"github.com/Corphon/HookForge/internal/di"
	"github.com/Corphon/HookForge/internal/models"
	"github.com/Corphon/HookForge/internal/services"
	"github.com/Corphon/HookForge/internal/storage"
	"github.com/Corphon/HookForge/internal/utils"
	"github.com/Corphon/HookForge/internal/wizard"

	// generator providers register themselves with the llm registry
	_ "github.com/Corphon/HookForge/internal/llm/providers/anthropic"
	_ "github.com/Corphon/HookForge/internal/llm/providers/google"
)

// Services holds everything InitServicesWith built
type Services struct {
	Config      *config.AppConfig
	Metrics     *utils.AppMetrics
	Files       *storage.FileStorage
	Preferences *storage.PreferenceStore
	Store       *wizard.Store
	LLM         *services.LLMService
	Wizard      *services.WizardService
	Export      *services.ExportService
}

// Close releases timers and background goroutines.
func (s *Services) Close() {
	if s.Store != nil {
		s.Store.Close()
	}
	if s.Files != nil {
		s.Files.Close()
	}
}

// InitServicesWith builds the services in dependency order and registers them in container.
func InitServicesWith(container *di.Container, cfg *config.AppConfig) (*Services, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is not loaded")
	}
	logger := utils.GetLogger()
	if cfg.DebugMode {
		logger.SetLogLevel(utils.DEBUG)
	}

	svc := &Services{
		Config:  cfg,
		Metrics: utils.NewAppMetrics(),
	}

	files, err := storage.NewFileStorage(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("init file storage: %w", err)
	}
	svc.Files = files
	svc.Preferences = storage.NewPreferenceStore(files)

	svc.Store = wizard.NewStore(svc.Preferences,
		wizard.WithNotificationTTL(cfg.NotificationTTL),
		wizard.WithPreferredTheme(models.Theme(cfg.PreferredTheme)),
		wizard.WithLogger(logger),
	)
	svc.Store.Dispatch(wizard.RestoreFromStorage{})

	llmService, err := services.NewLLMServiceFromConfig(cfg)
	if err != nil {
		logger.Warn("Falling back to standby LLM service", map[string]interface{}{"error": err})
		llmService = services.NewEmptyLLMService()
	}
	llmService.SetMetrics(svc.Metrics)
	svc.LLM = llmService

	if ready, state := llmService.GetProviderStatus(); !ready {
		logger.Warn("Generator is not ready", map[string]interface{}{
			"provider": llmService.GetProviderName(),
			"state":    state,
		})
	}

	svc.Wizard = services.NewWizardService(svc.Store, llmService,
		services.WithMetrics(svc.Metrics),
		services.WithMaxUploadBytes(cfg.MaxUploadBytes),
	)
	svc.Export = services.NewExportService(files)

	container.Register(di.ServiceConfig, cfg)
	container.Register(di.ServiceMetrics, svc.Metrics)
	container.Register(di.ServiceFileStorage, files)
	container.Register(di.ServicePreferences, svc.Preferences)
	container.Register(di.ServiceStore, svc.Store)
	container.Register(di.ServiceLLM, llmService)
	container.Register(di.ServiceWizard, svc.Wizard)
	container.Register(di.ServiceExport, svc.Export)

	logger.Info("Services initialized", map[string]interface{}{
		"services": container.GetNames(),
		"provider": llmService.GetProviderName(),
		"data_dir": cfg.DataDir,
	})
	return svc, nil
}
