package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"tubegrab/internal/model"
	"tubegrab/internal/service"
	"tubegrab/pkg/logger"
	"tubegrab/pkg/validator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DownloadHandler handles download-related requests
type DownloadHandler struct {
	downloadService *service.DownloadService
	quotaService    *service.QuotaService
	cfg             *model.Config
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(ds *service.DownloadService, cfg *model.Config, qs *service.QuotaService) *DownloadHandler {
	return &DownloadHandler{
		downloadService: ds,
		quotaService:    qs,
		cfg:             cfg,
	}
}

// StartDownload handles POST /api/download
func (h *DownloadHandler) StartDownload(c *gin.Context) {
	var req model.DownloadRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.LogWarn("Invalid download request", zap.Error(err))
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if !validator.ValidateFormatID(req.FormatID) {
		logger.LogWarn("Invalid format ID", zap.String("format_id", req.FormatID))
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "invalid_format",
			Message: "Invalid format ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	clientIP := c.ClientIP()
	allowed, remaining := h.quotaService.Reserve(clientIP)
	if !allowed {
		c.JSON(http.StatusTooManyRequests, model.ErrorResponse{
			Error:   "quota_exhausted",
			Message: "Daily download quota exhausted. Please try again after quota reset.",
			Code:    http.StatusTooManyRequests,
		})
		return
	}

	ctx, cancel := requestContext(c, h.cfg)
	defer cancel()

	notices := &service.NoticeRecorder{}
	file, err := h.downloadService.InitiateDownload(service.WithNotifier(ctx, notices), model.VideoIdentifier(req.VideoID), req.FormatID)
	if err != nil {
		h.quotaService.Release(clientIP)
		status, code := downloadErrorStatus(err)
		c.JSON(status, model.ErrorResponse{
			Error:   code,
			Message: err.Error(),
			Code:    status,
			Notices: notices.Notices(),
		})
		return
	}

	if remaining >= 0 {
		c.Header("X-Quota-Remaining", strconv.Itoa(remaining))
	}
	c.JSON(http.StatusOK, model.DownloadResponse{
		ID:           file.ID,
		Filename:     file.Filename,
		DownloadLink: fmt.Sprintf("/api/download/%s", file.ID),
		ExpiresAt:    file.ExpiresAt.Unix(),
		Notices:      notices.Notices(),
	})
}

func downloadErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidIdentifier):
		return http.StatusBadRequest, "invalid_video_id"
	case errors.Is(err, service.ErrFormatNotFound):
		return http.StatusNotFound, "format_not_found"
	case isCancelled(err):
		return http.StatusServiceUnavailable, "request_cancelled"
	default:
		logger.LogError("Download failed", err)
		return http.StatusInternalServerError, "download_failed"
	}
}

// GetFile handles GET /api/download/:id
func (h *DownloadHandler) GetFile(c *gin.Context) {
	fileID := c.Param("id")

	file, err := h.downloadService.GetDownloadFile(fileID)
	if err != nil {
		logger.LogWarn("File not found", zap.String("file_id", fileID))
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Error:   "not_found",
			Message: "File not found or has expired",
			Code:    http.StatusNotFound,
		})
		return
	}

	if _, err := os.Stat(file.FilePath); err != nil {
		logger.LogWarn("File does not exist", zap.String("path", file.FilePath))
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Error:   "not_found",
			Message: "File no longer available",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.Header("Content-Disposition", buildContentDispositionHeader(file.Filename))
	c.Header("Content-Type", "video/mp4")
	c.File(file.FilePath)

	logger.LogInfo("File downloaded by user",
		zap.String("file_id", fileID),
		zap.String("filename", file.Filename))
}

// buildContentDispositionHeader quotes plain ASCII names and falls back to
// RFC 5987 encoding otherwise
func buildContentDispositionHeader(filename string) string {
	needsEncoding := strings.ContainsAny(filename, " \t\n\r\"\\;,")
	for _, r := range filename {
		if r > 127 {
			needsEncoding = true
			break
		}
	}

	if !needsEncoding {
		return fmt.Sprintf(`attachment; filename="%s"`, filename)
	}
	return fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename))
}
