// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Corphon/HookForge/internal/api"
	"github.com/Corphon/HookForge/internal/app"
	"github.com/Corphon/HookForge/internal/config"
	"github.com/Corphon/HookForge/internal/di"
	"github.com/Corphon/HookForge/internal/utils"
)

func main() {
	// 1. environment configuration
	baseConfig, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// 2. directories
	if err := createDirectories(baseConfig); err != nil {
		log.Fatalf("failed to create directories: %v", err)
	}

	// 3. logging
	if err := utils.InitLogger(filepath.Join(baseConfig.LogDir, "hookforge.log")); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	logger := utils.GetLogger()
	defer logger.Sync()

	logger.Info("Starting HookForge server", map[string]interface{}{"port": baseConfig.Port})

	// 4. persisted configuration
	if err := config.InitConfig(baseConfig.DataDir); err != nil {
		logger.Fatal("Failed to initialize configuration", map[string]interface{}{"error": err})
	}

	// 5. services, in dependency order
	container := di.GetContainer()
	svc, err := app.InitServicesWith(container, config.GetCurrentConfig())
	if err != nil {
		logger.Fatal("Failed to initialize services", map[string]interface{}{"error": err})
	}
	defer svc.Close()

	if err := performHealthCheck(container); err != nil {
		logger.Warn("Service health check failed", map[string]interface{}{"error": err})
	}

	// 6. routes
	router, handler, err := api.SetupRouter()
	if err != nil {
		logger.Fatal("Failed to set up router", map[string]interface{}{"error": err})
	}
	defer handler.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Metrics.StartMetricsCollection(ctx, time.Minute)

	logger.Info("Server listening", map[string]interface{}{
		"address": fmt.Sprintf("http://localhost:%s", baseConfig.Port),
	})

	// 7. serve until interrupted
	setupGracefulShutdown(router, baseConfig.Port, logger)
}

// performHealthCheck verifies the services the router depends on are registered.
func performHealthCheck(container *di.Container) error {
	critical := []string{di.ServiceConfig, di.ServiceLLM, di.ServiceWizard, di.ServiceExport}

	for _, name := range critical {
		if !container.Has(name) {
			return fmt.Errorf("critical service not registered: %s", name)
		}
	}
	return nil
}

func setupGracefulShutdown(router *gin.Engine, port string, logger *utils.Logger) {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", map[string]interface{}{"error": err})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server", nil)

	// generation requests may take a while to drain
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", map[string]interface{}{"error": err})
		return
	}

	logger.Info("Server stopped", nil)
}

// createDirectories creates the data, export and log directories.
func createDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.DataDir,
		filepath.Join(cfg.DataDir, "exports"),
		cfg.LogDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
