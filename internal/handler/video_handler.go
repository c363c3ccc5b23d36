package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"tubegrab/internal/model"
	"tubegrab/internal/service"
	"tubegrab/pkg/logger"
	"tubegrab/pkg/validator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VideoHandler handles video-related requests
type VideoHandler struct {
	videoService *service.VideoService
	cfg          *model.Config
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(vs *service.VideoService, cfg *model.Config) *VideoHandler {
	return &VideoHandler{
		videoService: vs,
		cfg:          cfg,
	}
}

// ValidateURL handles GET /api/validate
func (h *VideoHandler) ValidateURL(c *gin.Context) {
	videoURL := c.Query("url")

	resp := model.ValidateResponse{Valid: validator.IsPlausibleURL(videoURL)}
	if resp.Valid {
		id, _ := validator.ExtractIdentifier(videoURL)
		resp.VideoID = string(id)
	}
	c.JSON(http.StatusOK, resp)
}

// GetVideoInfo handles GET /api/video/info
func (h *VideoHandler) GetVideoInfo(c *gin.Context) {
	videoURL := c.Query("url")

	if videoURL == "" {
		logger.LogWarn("Empty URL provided")
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "invalid_url",
			Message: "Please enter a YouTube URL",
			Code:    http.StatusBadRequest,
		})
		return
	}

	ctx, cancel := requestContext(c, h.cfg)
	defer cancel()

	info, err := h.videoService.FetchMetadata(ctx, videoURL)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, info)
	case errors.Is(err, service.ErrInvalidURL), errors.Is(err, service.ErrIDExtraction):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "invalid_url",
			Message: "Invalid YouTube URL",
			Code:    http.StatusBadRequest,
		})
	case isCancelled(err):
		logger.LogWarn("Video info request cancelled", zap.String("url", videoURL), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Error:   "request_cancelled",
			Message: "Request was cancelled before it completed",
			Code:    http.StatusServiceUnavailable,
		})
	default:
		logger.LogError("Failed to get video info", err, zap.String("url", videoURL))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "fetch_failed",
			Message: "Failed to fetch video information",
			Code:    http.StatusInternalServerError,
		})
	}
}

// HealthCheck handles GET /api/health
func (h *VideoHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "tubegrab",
	})
}

// requestContext bounds a handler's work by the configured request timeout
func requestContext(c *gin.Context, cfg *model.Config) (context.Context, context.CancelFunc) {
	if cfg.Security.RequestTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), time.Duration(cfg.Security.RequestTimeout)*time.Second)
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
