package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tubegrab/config"
	"tubegrab/internal/handler"
	"tubegrab/internal/service"
	"tubegrab/internal/storage"
	"tubegrab/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting tubegrab server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	storageManager := storage.NewManager(&cfg.Storage)
	if err := storageManager.Start(); err != nil {
		logger.Logger.Fatal("Failed to start storage cleanup", zap.Error(err))
	}
	defer storageManager.Stop()

	videoService := service.NewVideoService(time.Duration(cfg.Mock.InfoLatencyMs) * time.Millisecond)
	downloadService := service.NewDownloadService(
		storageManager,
		time.Duration(cfg.Mock.DownloadLatencyMs)*time.Millisecond,
		service.LogNotifier{},
	)

	quotaService, err := service.NewQuotaService(&cfg.Quota)
	if err != nil {
		logger.Logger.Fatal("Failed to start quota service", zap.Error(err))
	}
	defer quotaService.Stop()

	rateLimitService := service.NewRateLimitService(&cfg.RateLimit)
	defer rateLimitService.Stop()

	gin.SetMode(gin.ReleaseMode)

	frontendPath := "./frontend"
	if _, err := os.Stat("../frontend"); err == nil {
		frontendPath = "../frontend"
	}

	router := handler.NewRouter(cfg, handler.Services{
		Video:     videoService,
		Download:  downloadService,
		Quota:     quotaService,
		RateLimit: rateLimitService,
	}, frontendPath)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.Timeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.Timeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Logger.Info("Server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server stopped")
}
