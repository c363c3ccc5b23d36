package service

import (
	"context"
	"fmt"
	"time"

	"tubegrab/internal/model"
	"tubegrab/pkg/logger"
	"tubegrab/pkg/validator"

	"go.uber.org/zap"
)

// Synthetic metadata. None of it comes from the real video.
const (
	mockTitle    = "Sample YouTube Video Title - High Quality Content"
	mockDuration = "10:30"
	mockAuthor   = "Content Creator"
)

// VideoService serves mocked video metadata
type VideoService struct {
	latency time.Duration
}

// NewVideoService creates a video service that waits latency before answering
func NewVideoService(latency time.Duration) *VideoService {
	return &VideoService{latency: latency}
}

// FetchMetadata validates urlText and returns mocked metadata for the video
// it names. Validation failures return before any waiting.
func (s *VideoService) FetchMetadata(ctx context.Context, urlText string) (*model.VideoMetadata, error) {
	if !validator.IsPlausibleURL(urlText) {
		logger.LogWarn("Rejected video URL", zap.String("url", urlText))
		return nil, ErrInvalidURL
	}

	videoID, ok := validator.ExtractIdentifier(urlText)
	if !ok {
		logger.LogWarn("No video ID in plausible URL", zap.String("url", urlText))
		return nil, ErrIDExtraction
	}

	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, fmt.Errorf("fetch metadata for %s: %w", videoID, err)
	}

	formats := Formats()
	info := &model.VideoMetadata{
		ID:             videoID,
		Title:          mockTitle,
		Thumbnail:      ThumbnailURL(videoID),
		Duration:       mockDuration,
		Author:         mockAuthor,
		Formats:        formats,
		HighestQuality: HighestQuality(formats),
	}

	logger.LogInfo("Video info retrieved",
		zap.String("video_id", string(videoID)),
		zap.Int("formats", len(info.Formats)))
	return info, nil
}

// ThumbnailURL derives the thumbnail locator for a video. It is never fetched.
func ThumbnailURL(id model.VideoIdentifier) string {
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/maxresdefault.jpg", id)
}

// simulateLatency blocks for d or until ctx is done
func simulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
