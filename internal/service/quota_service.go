package service

import (
	"fmt"
	"sync"
	"time"

	"tubegrab/internal/model"
	"tubegrab/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// QuotaInfo reports an IP's daily download allowance
type QuotaInfo struct {
	Enabled   bool      `json:"enabled"`
	Used      int       `json:"used"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetTime time.Time `json:"reset_time,omitempty"`
}

type quotaEntry struct {
	used      int
	resetTime time.Time
}

// QuotaService counts downloads per IP per day
type QuotaService struct {
	cfg       *model.QuotaConfig
	quotas    map[string]*quotaEntry
	mu        sync.Mutex
	scheduler *cron.Cron
	now       func() time.Time
}

// NewQuotaService creates a new quota service. When enabled, all entries
// are cleared daily at the configured reset time.
func NewQuotaService(cfg *model.QuotaConfig) (*QuotaService, error) {
	qs := &QuotaService{
		cfg:    cfg,
		quotas: make(map[string]*quotaEntry),
		now:    time.Now,
	}

	if cfg.Enabled {
		qs.scheduler = cron.New()
		schedule := fmt.Sprintf("%d %d * * *", cfg.ResetMinute, cfg.ResetHour)
		if _, err := qs.scheduler.AddFunc(schedule, qs.resetAll); err != nil {
			return nil, fmt.Errorf("schedule quota reset: %w", err)
		}
		qs.scheduler.Start()
	}

	return qs, nil
}

// CheckQuota reports whether ip may start another download and how many
// remain in the current day
func (qs *QuotaService) CheckQuota(ip string) (bool, int) {
	if !qs.cfg.Enabled {
		return true, -1
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	entry := qs.entryLocked(ip)
	remaining := qs.cfg.DailyDownloads - entry.used
	if remaining <= 0 {
		logger.LogWarn("Quota exhausted", zap.String("ip", ip), zap.Int("limit", qs.cfg.DailyDownloads))
		return false, 0
	}
	return true, remaining
}

// Reserve atomically checks the quota for ip and, if any remains, consumes
// one download. It returns the downloads left after the reservation.
// Callers must Release the reservation when the download fails.
func (qs *QuotaService) Reserve(ip string) (bool, int) {
	if !qs.cfg.Enabled {
		return true, -1
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	entry := qs.entryLocked(ip)
	if entry.used >= qs.cfg.DailyDownloads {
		logger.LogWarn("Quota exhausted", zap.String("ip", ip), zap.Int("limit", qs.cfg.DailyDownloads))
		return false, 0
	}
	entry.used++
	logger.LogDebug("Quota usage updated",
		zap.String("ip", ip),
		zap.Int("used", entry.used),
		zap.Int("limit", qs.cfg.DailyDownloads))
	return true, qs.cfg.DailyDownloads - entry.used
}

// Release returns a download reserved by Reserve
func (qs *QuotaService) Release(ip string) {
	if !qs.cfg.Enabled {
		return
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	// A reset since the reservation already gave the download back
	if entry := qs.entryLocked(ip); entry.used > 0 {
		entry.used--
	}
}

// GetQuotaInfo returns current quota info for ip
func (qs *QuotaService) GetQuotaInfo(ip string) QuotaInfo {
	if !qs.cfg.Enabled {
		return QuotaInfo{Enabled: false}
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	entry := qs.entryLocked(ip)
	remaining := qs.cfg.DailyDownloads - entry.used
	if remaining < 0 {
		remaining = 0
	}
	return QuotaInfo{
		Enabled:   true,
		Used:      entry.used,
		Limit:     qs.cfg.DailyDownloads,
		Remaining: remaining,
		ResetTime: entry.resetTime,
	}
}

// entryLocked returns the entry for ip, creating or lazily resetting it
func (qs *QuotaService) entryLocked(ip string) *quotaEntry {
	now := qs.now()
	entry, exists := qs.quotas[ip]
	if !exists {
		entry = &quotaEntry{resetTime: qs.nextResetTime(now)}
		qs.quotas[ip] = entry
		return entry
	}
	if !now.Before(entry.resetTime) {
		entry.used = 0
		entry.resetTime = qs.nextResetTime(now)
	}
	return entry
}

// nextResetTime returns the first reset instant strictly after now
func (qs *QuotaService) nextResetTime(now time.Time) time.Time {
	reset := time.Date(now.Year(), now.Month(), now.Day(), qs.cfg.ResetHour, qs.cfg.ResetMinute, 0, 0, now.Location())
	if !reset.After(now) {
		reset = reset.AddDate(0, 0, 1)
	}
	return reset
}

func (qs *QuotaService) resetAll() {
	qs.mu.Lock()
	count := len(qs.quotas)
	qs.quotas = make(map[string]*quotaEntry)
	qs.mu.Unlock()

	logger.LogInfo("Quota reset completed", zap.Int("entries_reset", count))
}

// Stop stops the quota service
func (qs *QuotaService) Stop() {
	if qs.scheduler != nil {
		<-qs.scheduler.Stop().Done()
		logger.LogInfo("Quota service stopped")
	}
}
