package service

import (
	"sync"
	"time"

	"tubegrab/internal/model"
	"tubegrab/pkg/logger"

	"go.uber.org/zap"
)

// RateLimitEntry tracks request rate for an IP
type RateLimitEntry struct {
	Requests int
	ResetAt  time.Time
	Blocked  bool
}

// RateLimitService applies a fixed one-minute window per IP
type RateLimitService struct {
	cfg      *model.RateLimitConfig
	limits   map[string]*RateLimitEntry
	mu       sync.Mutex
	quit     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(cfg *model.RateLimitConfig) *RateLimitService {
	rls := &RateLimitService{
		cfg:    cfg,
		limits: make(map[string]*RateLimitEntry),
		quit:   make(chan struct{}),
		now:    time.Now,
	}

	if cfg.Enabled && cfg.CleanupInterval > 0 {
		go rls.cleanupRoutine()
	}

	return rls
}

// Allow records a request from ip and reports whether it may proceed.
// Once an IP exceeds RequestsPerMinute plus BurstSize it stays blocked
// until its window resets.
func (rls *RateLimitService) Allow(ip string) bool {
	if !rls.cfg.Enabled {
		return true
	}

	rls.mu.Lock()
	defer rls.mu.Unlock()

	now := rls.now()
	entry, exists := rls.limits[ip]
	if !exists || now.After(entry.ResetAt) {
		rls.limits[ip] = &RateLimitEntry{Requests: 1, ResetAt: now.Add(time.Minute)}
		return true
	}

	if entry.Blocked {
		return false
	}

	entry.Requests++
	if entry.Requests > rls.cfg.RequestsPerMinute+rls.cfg.BurstSize {
		entry.Blocked = true
		logger.LogWarn("Rate limit exceeded, blocking IP",
			zap.String("ip", ip),
			zap.Int("requests", entry.Requests),
			zap.Int("limit", rls.cfg.RequestsPerMinute))
		return false
	}
	return true
}

// GetRemaining returns remaining requests for IP in current window, or -1
// when rate limiting is off
func (rls *RateLimitService) GetRemaining(ip string) int {
	if !rls.cfg.Enabled {
		return -1
	}

	rls.mu.Lock()
	defer rls.mu.Unlock()

	entry, exists := rls.limits[ip]
	if !exists || rls.now().After(entry.ResetAt) {
		return rls.cfg.RequestsPerMinute
	}

	remaining := rls.cfg.RequestsPerMinute - entry.Requests
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (rls *RateLimitService) cleanupRoutine() {
	ticker := time.NewTicker(time.Duration(rls.cfg.CleanupInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-rls.quit:
			logger.LogInfo("Rate limit service stopped")
			return
		case <-ticker.C:
			rls.cleanup()
		}
	}
}

// cleanup drops entries whose window ended over two hours ago
func (rls *RateLimitService) cleanup() {
	rls.mu.Lock()
	defer rls.mu.Unlock()

	now := rls.now()
	removed := 0
	for ip, entry := range rls.limits {
		if now.Sub(entry.ResetAt) > 2*time.Hour {
			delete(rls.limits, ip)
			removed++
		}
	}

	if removed > 0 {
		logger.LogDebug("Rate limit entries cleaned up",
			zap.Int("removed", removed),
			zap.Int("remaining", len(rls.limits)))
	}
}

// Reset clears the window for a specific IP
func (rls *RateLimitService) Reset(ip string) {
	rls.mu.Lock()
	defer rls.mu.Unlock()
	delete(rls.limits, ip)
}

// Stop stops the rate limit service
func (rls *RateLimitService) Stop() {
	rls.stopOnce.Do(func() { close(rls.quit) })
}
