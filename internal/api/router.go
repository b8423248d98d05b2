// internal/api/router.go
package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Corphon/HookForge/internal/config"
	"github.com/Corphon/HookForge/internal/di"
	"github.com/Corphon/HookForge/internal/services"
	"github.com/Corphon/HookForge/internal/utils"
)

// Dependencies are the services the router serves
type Dependencies struct {
	Wizard             *services.WizardService
	Export             *services.ExportService
	LLM                *services.LLMService
	Metrics            *utils.AppMetrics
	Logger             *utils.Logger
	MaxUploadBytes     int64
	RateLimitPerMinute int
	DebugMode          bool
}

// SetupRouter builds the router from the services registered in the global container.
func SetupRouter() (*gin.Engine, *Handler, error) {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		return nil, nil, fmt.Errorf("configuration is not loaded")
	}

	container := di.GetContainer()

	wizardService, err := di.Resolve[*services.WizardService](container, di.ServiceWizard)
	if err != nil {
		return nil, nil, err
	}
	exportService, err := di.Resolve[*services.ExportService](container, di.ServiceExport)
	if err != nil {
		return nil, nil, err
	}
	llmService, err := di.Resolve[*services.LLMService](container, di.ServiceLLM)
	if err != nil {
		return nil, nil, err
	}
	metrics, err := di.Resolve[*utils.AppMetrics](container, di.ServiceMetrics)
	if err != nil {
		return nil, nil, err
	}

	r, handler := NewRouter(Dependencies{
		Wizard:             wizardService,
		Export:             exportService,
		LLM:                llmService,
		Metrics:            metrics,
		Logger:             utils.GetLogger(),
		MaxUploadBytes:     cfg.MaxUploadBytes,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		DebugMode:          cfg.DebugMode,
	})
	return r, handler, nil
}

// NewRouter wires the handlers and middleware. Call Handler.Close when done.
func NewRouter(deps Dependencies) (*gin.Engine, *Handler) {
	if deps.Logger == nil {
		deps.Logger = utils.GetLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = utils.NewAppMetrics()
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = config.DefaultMaxUploadBytes
	}
	if !deps.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := &Handler{
		Wizard:         deps.Wizard,
		Export:         deps.Export,
		LLM:            deps.LLM,
		Metrics:        deps.Metrics,
		WS:             NewWebSocketManager(deps.Logger),
		Response:       NewResponseHelper(),
		MaxUploadBytes: deps.MaxUploadBytes,
		limiter:        NewRateLimiter(),
		logger:         deps.Logger,
	}
	handler.unsubscribe = deps.Wizard.Store().Subscribe(handler.WS.OnStateChange)

	r := gin.New()
	r.MaxMultipartMemory = deps.MaxUploadBytes
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(MetricsMiddleware(deps.Metrics))
	r.Use(corsMiddleware())

	generationLimit := handler.limiter.Middleware(deps.RateLimitPerMinute, time.Minute)

	r.GET("/health", handler.Health)
	r.GET("/ws/notifications", handler.NotificationsWebSocket)

	api := r.Group("/api")
	{
		api.GET("/session", handler.GetSession)
		api.POST("/session/restore", handler.RestoreSession)

		api.GET("/stages", handler.GetStages)
		api.POST("/stages/:stage", handler.NavigateStage)

		angles := api.Group("/angles")
		{
			angles.GET("/catalog", handler.GetAngleCatalog)
			angles.POST("/analyze", generationLimit, handler.AnalyzeBook)
			angles.PUT("", handler.SaveAngles)
			angles.DELETE("", handler.ClearAngles)
		}

		formats := api.Group("/formats")
		{
			formats.GET("", handler.GetFormats)
			formats.PUT("/selection", handler.SetFormatSelection)
			formats.POST("/:id/toggle", handler.ToggleFormat)
			formats.POST("/toggle-all", handler.ToggleAllFormats)
			formats.POST("/confirm", handler.ConfirmFormats)
		}

		hooks := api.Group("/hooks")
		{
			hooks.POST("/generate", generationLimit, handler.GenerateHooks)
			hooks.GET("", handler.GetHooks)
			hooks.GET("/export", handler.ExportHooks)
		}

		scripts := api.Group("/scripts")
		{
			scripts.POST("/generate", generationLimit, handler.GenerateScript)
			scripts.GET("/current", handler.GetCurrentScript)
			scripts.GET("/export", handler.ExportScript)
		}

		api.GET("/exports", handler.ListExports)

		api.GET("/notifications", handler.GetNotifications)
		api.DELETE("/notifications/:id", handler.DismissNotification)
		api.PUT("/theme", handler.SetTheme)

		llmGroup := api.Group("/llm")
		{
			llmGroup.GET("/status", handler.GetLLMStatus)
			llmGroup.PUT("/provider", handler.UpdateLLMProvider)
		}

		api.GET("/metrics", handler.GetMetrics)
		api.GET("/ws/status", handler.GetWebSocketStatus)
	}

	return r, handler
}
