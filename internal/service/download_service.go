package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tubegrab/internal/model"
	"tubegrab/pkg/logger"
	"tubegrab/pkg/validator"

	"go.uber.org/zap"
)

// placeholderPayload is written in place of real video bytes
var placeholderPayload = []byte("Dummy video content")

// FileStore keeps generated files until they expire
type FileStore interface {
	Store(file *model.DownloadedFile, payload []byte) error
	GetFile(id string) *model.DownloadedFile
	GetFileTTL() int
}

// DownloadService simulates downloads by writing placeholder files
type DownloadService struct {
	store    FileStore
	latency  time.Duration
	notifier Notifier
}

// NewDownloadService creates a new download service. A nil notifier
// defaults to LogNotifier.
func NewDownloadService(store FileStore, latency time.Duration, notifier Notifier) *DownloadService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &DownloadService{
		store:    store,
		latency:  latency,
		notifier: notifier,
	}
}

// InitiateDownload produces the placeholder file for videoID in formatID.
// Every failure is also announced through the notifiers; an unknown
// format produces no file and returns ErrFormatNotFound.
func (s *DownloadService) InitiateDownload(ctx context.Context, videoID model.VideoIdentifier, formatID string) (*model.DownloadedFile, error) {
	s.notify(ctx, model.NoticeInfo, fmt.Sprintf("Starting download for format: %s", formatID))

	if !validator.IsValidIdentifier(string(videoID)) {
		s.notify(ctx, model.NoticeError, "Invalid video ID")
		return nil, ErrInvalidIdentifier
	}

	format, ok := FindFormat(formatID)
	if !ok {
		logger.LogWarn("Unknown format requested",
			zap.String("video_id", string(videoID)),
			zap.String("format_id", formatID))
		s.notify(ctx, model.NoticeError, "Format not found")
		return nil, fmt.Errorf("%w: %q", ErrFormatNotFound, formatID)
	}

	if err := simulateLatency(ctx, s.latency); err != nil {
		s.notify(ctx, model.NoticeError, "Download cancelled")
		return nil, fmt.Errorf("download %s: %w", videoID, err)
	}

	file := &model.DownloadedFile{
		VideoID:  videoID,
		FormatID: format.FormatID,
		Quality:  format.Quality,
		Filename: DownloadFilename(videoID, format.Quality),
	}
	if err := s.store.Store(file, placeholderPayload); err != nil {
		logger.LogError("Failed to store placeholder file", err, zap.String("video_id", string(videoID)))
		s.notify(ctx, model.NoticeError, "Download failed")
		return nil, fmt.Errorf("download %s: %w", videoID, err)
	}

	s.notify(ctx, model.NoticeSuccess, "Download started! Check your downloads folder.")
	return file, nil
}

// GetDownloadFile retrieves a generated file for serving
func (s *DownloadService) GetDownloadFile(fileID string) (*model.DownloadedFile, error) {
	file := s.store.GetFile(fileID)
	if file == nil {
		return nil, errors.New("file not found")
	}
	return file, nil
}

// FileTTL is how long generated files stay available
func (s *DownloadService) FileTTL() time.Duration {
	return time.Duration(s.store.GetFileTTL()) * time.Second
}

// DownloadFilename names the placeholder file for a video and quality label
func DownloadFilename(videoID model.VideoIdentifier, quality string) string {
	return validator.SanitizeFilename(fmt.Sprintf("youtube-video-%s-%s.mp4", videoID, quality))
}

func (s *DownloadService) notify(ctx context.Context, level model.NoticeLevel, msg string) {
	n := model.Notice{Level: level, Message: msg}
	s.notifier.Notify(n)
	if extra := notifierFrom(ctx); extra != nil {
		extra.Notify(n)
	}
}
