package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tubegrab/internal/model"
	"tubegrab/pkg/logger"

	"github.com/jaevor/go-nanoid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const fileIDLength = 21

var generateID func() string

func init() {
	var err error
	generateID, err = nanoid.Standard(fileIDLength)
	if err != nil {
		panic(err)
	}
}

// Manager writes placeholder files and removes them once they expire
type Manager struct {
	cfg       *model.StorageConfig
	files     map[string]*model.DownloadedFile
	mu        sync.RWMutex
	scheduler *cron.Cron
	now       func() time.Time
}

// NewManager creates a new storage manager
func NewManager(cfg *model.StorageConfig) *Manager {
	return &Manager{
		cfg:   cfg,
		files: make(map[string]*model.DownloadedFile),
		now:   time.Now,
	}
}

// Start schedules the cleanup job
func (m *Manager) Start() error {
	if m.cfg.CleanupInterval <= 0 {
		logger.LogWarn("Storage cleanup disabled", zap.Int("cleanup_interval_seconds", m.cfg.CleanupInterval))
		return nil
	}

	m.scheduler = cron.New()
	schedule := fmt.Sprintf("@every %ds", m.cfg.CleanupInterval)
	if _, err := m.scheduler.AddFunc(schedule, m.cleanupExpiredFiles); err != nil {
		return fmt.Errorf("schedule storage cleanup: %w", err)
	}
	m.scheduler.Start()

	logger.LogInfo("Storage cleanup scheduled",
		zap.String("schedule", schedule),
		zap.Int("file_ttl_seconds", m.cfg.FileTTLSeconds))
	return nil
}

// Stop stops the cleanup job and waits for a running pass to finish
func (m *Manager) Stop() {
	if m.scheduler == nil {
		return
	}
	<-m.scheduler.Stop().Done()
	logger.LogInfo("Storage cleanup stopped")
}

// Store writes payload to disk under a fresh ID and starts tracking it.
// ID, FilePath, Size and the timestamps of file are filled in.
func (m *Manager) Store(file *model.DownloadedFile, payload []byte) error {
	if !m.ValidateFileSize(int64(len(payload))) {
		return fmt.Errorf("file size %d exceeds limit of %d bytes", len(payload), m.cfg.MaxFileSizeBytes)
	}

	id := generateID()
	dir := filepath.Join(m.cfg.DownloadDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create file directory: %w", err)
	}

	path := filepath.Join(dir, file.Filename)
	if err := os.WriteFile(path, payload, 0644); err != nil {
		os.RemoveAll(dir)
		return fmt.Errorf("write file: %w", err)
	}

	now := m.now()
	file.ID = id
	file.FilePath = path
	file.Size = int64(len(payload))
	file.CreatedAt = now
	file.ExpiresAt = now.Add(time.Duration(m.cfg.FileTTLSeconds) * time.Second)

	m.mu.Lock()
	m.files[id] = file
	m.mu.Unlock()

	logger.LogInfo("File saved",
		zap.String("id", id),
		zap.String("filename", file.Filename),
		zap.Int64("size", file.Size))
	return nil
}

// GetFile returns a tracked, unexpired file or nil
func (m *Manager) GetFile(id string) *model.DownloadedFile {
	m.mu.RLock()
	defer m.mu.RUnlock()

	file := m.files[id]
	if file == nil || m.now().After(file.ExpiresAt) {
		return nil
	}
	return file
}

func (m *Manager) cleanupExpiredFiles() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	deletedCount := 0
	errorCount := 0

	for id, file := range m.files {
		if !now.After(file.ExpiresAt) {
			continue
		}
		if err := os.RemoveAll(filepath.Dir(file.FilePath)); err != nil {
			logger.LogError("Failed to remove file", err,
				zap.String("id", id),
				zap.String("path", file.FilePath))
			errorCount++
		} else {
			deletedCount++
		}
		// Untrack regardless so a broken file does not linger forever
		delete(m.files, id)
	}

	if deletedCount > 0 || errorCount > 0 {
		logger.LogInfo("Storage cleanup completed",
			zap.Int("deleted_count", deletedCount),
			zap.Int("error_count", errorCount),
			zap.Int("remaining_tracked_files", len(m.files)))
	}
}

// ValidateFileSize checks if file size is within limits
func (m *Manager) ValidateFileSize(sizeBytes int64) bool {
	return m.cfg.MaxFileSizeBytes <= 0 || sizeBytes <= m.cfg.MaxFileSizeBytes
}

// GetFileTTL returns the file time to live in seconds
func (m *Manager) GetFileTTL() int {
	return m.cfg.FileTTLSeconds
}

// GetTrackedFilesCount returns the number of files currently being tracked
func (m *Manager) GetTrackedFilesCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

// ManualCleanup runs a cleanup pass immediately
func (m *Manager) ManualCleanup() {
	m.cleanupExpiredFiles()
}
