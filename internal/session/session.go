// Package session drives one user's lookup-then-download flow and turns
// every failure into a notice instead of an error.
package session

import (
	"context"
	"strings"
	"sync"

	"tubegrab/internal/model"
	"tubegrab/internal/service"
	"tubegrab/pkg/logger"
	"tubegrab/pkg/validator"

	"go.uber.org/zap"
)

// MetadataFetcher looks up video metadata for a URL
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, urlText string) (*model.VideoMetadata, error)
}

// Downloader produces the file for a video in a given format
type Downloader interface {
	InitiateDownload(ctx context.Context, videoID model.VideoIdentifier, formatID string) (*model.DownloadedFile, error)
}

// Session holds the state of a single lookup flow. Resubmitting restarts
// it; there is no terminal state.
type Session struct {
	fetcher    MetadataFetcher
	downloader Downloader
	notifier   service.Notifier

	mu       sync.Mutex
	state    model.RequestState
	metadata *model.VideoMetadata
	seq      uint64
}

// New creates a session in the initial state
func New(fetcher MetadataFetcher, downloader Downloader, notifier service.Notifier) *Session {
	if notifier == nil {
		notifier = service.LogNotifier{}
	}
	return &Session{
		fetcher:    fetcher,
		downloader: downloader,
		notifier:   notifier,
		state:      model.StateInitial,
	}
}

// Submit looks up urlText. Blank or implausible input is rejected before
// loading starts and leaves the state untouched. Only the blank check
// ignores surrounding whitespace; validation sees urlText as given. When
// submissions overlap the latest one wins.
func (s *Session) Submit(ctx context.Context, urlText string) {
	if strings.TrimSpace(urlText) == "" {
		s.notify(model.NoticeError, "Please enter a YouTube URL")
		return
	}
	if !validator.IsPlausibleURL(urlText) {
		s.notify(model.NoticeError, "Invalid YouTube URL")
		return
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state = model.StateLoading
	s.metadata = nil
	s.mu.Unlock()

	info, err := s.fetcher.FetchMetadata(ctx, urlText)

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.state = model.StateError
		s.mu.Unlock()

		logger.LogWarn("Lookup failed", zap.String("url", urlText), zap.Error(err))
		s.notify(model.NoticeError, "Failed to fetch video information")
		return
	}
	s.state = model.StateSuccess
	s.metadata = info
	s.mu.Unlock()
}

// Download requests formatID for the current video. It is a no-op without
// loaded metadata and never changes the state; failures are reported
// through the notifier by the downloader.
func (s *Session) Download(ctx context.Context, formatID string) *model.DownloadedFile {
	s.mu.Lock()
	info := s.metadata
	s.mu.Unlock()
	if info == nil {
		return nil
	}

	file, err := s.downloader.InitiateDownload(service.WithNotifier(ctx, s.notifier), info.ID, formatID)
	if err != nil {
		logger.LogWarn("Download failed",
			zap.String("video_id", string(info.ID)),
			zap.String("format_id", formatID),
			zap.Error(err))
		return nil
	}
	return file
}

// State returns the current request state
func (s *Session) State() model.RequestState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Metadata returns the metadata of the last successful lookup, or nil
func (s *Session) Metadata() *model.VideoMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metadata
}

func (s *Session) notify(level model.NoticeLevel, msg string) {
	s.notifier.Notify(model.Notice{Level: level, Message: msg})
}
