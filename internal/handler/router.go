package handler

import (
	"os"
	"path/filepath"

	"tubegrab/internal/model"
	"tubegrab/internal/service"
	"tubegrab/pkg/logger"
	"tubegrab/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles what the router needs
type Services struct {
	Video     *service.VideoService
	Download  *service.DownloadService
	Quota     *service.QuotaService
	RateLimit *service.RateLimitService
}

// NewRouter builds the gin engine with middleware and API routes. The
// static front end is served only when frontendDir exists.
func NewRouter(cfg *model.Config, svc Services, frontendDir string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestID(), logger.GinLogger())

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimitMiddleware(svc.RateLimit))
		logger.LogInfo("Rate limiting enabled", zap.Int("requests_per_minute", cfg.RateLimit.RequestsPerMinute))
	}
	if cfg.Quota.Enabled {
		router.Use(middleware.QuotaCheckMiddleware(svc.Quota))
		logger.LogInfo("Download quota enabled", zap.Int("daily_downloads", cfg.Quota.DailyDownloads))
	}

	if frontendDir != "" {
		if st, err := os.Stat(frontendDir); err == nil && st.IsDir() {
			router.Static("/static", filepath.Join(frontendDir, "static"))
			router.StaticFile("/", filepath.Join(frontendDir, "index.html"))
			logger.LogInfo("Serving front end", zap.String("dir", frontendDir))
		}
	}

	videoHandler := NewVideoHandler(svc.Video, cfg)
	downloadHandler := NewDownloadHandler(svc.Download, cfg, svc.Quota)

	api := router.Group("/api")
	{
		api.GET("/validate", videoHandler.ValidateURL)
		api.GET("/video/info", videoHandler.GetVideoInfo)

		api.POST("/download", downloadHandler.StartDownload)
		api.GET("/download/:id", downloadHandler.GetFile)

		api.GET("/health", videoHandler.HealthCheck)
	}

	return router
}
