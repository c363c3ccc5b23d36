package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubegrab/internal/model"
)

func TestRateLimitAllow(t *testing.T) {
	rls := NewRateLimitService(&model.RateLimitConfig{Enabled: true, RequestsPerMinute: 2, BurstSize: 1})
	defer rls.Stop()

	now := time.Now()
	rls.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, rls.Allow("1.2.3.4"), "request %d", i+1)
	}
	assert.False(t, rls.Allow("1.2.3.4"))
	assert.False(t, rls.Allow("1.2.3.4"), "stays blocked within window")
	assert.Equal(t, 0, rls.GetRemaining("1.2.3.4"))
	assert.True(t, rls.Allow("5.6.7.8"), "other IPs unaffected")

	now = now.Add(61 * time.Second)
	assert.True(t, rls.Allow("1.2.3.4"), "window reset unblocks")
	assert.Equal(t, 1, rls.GetRemaining("1.2.3.4"))
}

func TestRateLimitDisabled(t *testing.T) {
	rls := NewRateLimitService(&model.RateLimitConfig{Enabled: false, RequestsPerMinute: 1})
	defer rls.Stop()

	for i := 0; i < 5; i++ {
		assert.True(t, rls.Allow("1.2.3.4"))
	}
	assert.Equal(t, -1, rls.GetRemaining("1.2.3.4"))
}

func TestRateLimitCleanupAndReset(t *testing.T) {
	rls := NewRateLimitService(&model.RateLimitConfig{Enabled: true, RequestsPerMinute: 1})
	defer rls.Stop()

	now := time.Now()
	rls.now = func() time.Time { return now }
	rls.Allow("a")
	rls.Allow("b")

	rls.Reset("a")
	now = now.Add(3 * time.Hour)
	rls.cleanup()

	rls.mu.Lock()
	assert.Empty(t, rls.limits)
	rls.mu.Unlock()
}

func TestQuota(t *testing.T) {
	qs, err := NewQuotaService(&model.QuotaConfig{Enabled: true, DailyDownloads: 2, ResetHour: 0})
	require.NoError(t, err)
	defer qs.Stop()

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local)
	qs.now = func() time.Time { return now }

	ok, remaining := qs.CheckQuota("ip")
	assert.True(t, ok)
	assert.Equal(t, 2, remaining)

	ok, remaining = qs.Reserve("ip")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
	ok, remaining = qs.Reserve("ip")
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)

	ok, _ = qs.Reserve("ip")
	assert.False(t, ok)
	ok, remaining = qs.CheckQuota("ip")
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)

	info := qs.GetQuotaInfo("ip")
	assert.Equal(t, 2, info.Used)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.Local), info.ResetTime)

	now = now.Add(13 * time.Hour)
	ok, remaining = qs.CheckQuota("ip")
	assert.True(t, ok, "quota resets after reset time")
	assert.Equal(t, 2, remaining)

	qs.Reserve("ip")
	qs.resetAll()
	assert.Equal(t, 0, qs.GetQuotaInfo("ip").Used)
}

func TestQuotaRelease(t *testing.T) {
	qs, err := NewQuotaService(&model.QuotaConfig{Enabled: true, DailyDownloads: 1})
	require.NoError(t, err)
	defer qs.Stop()

	ok, _ := qs.Reserve("ip")
	require.True(t, ok)
	qs.Release("ip")
	assert.Equal(t, 0, qs.GetQuotaInfo("ip").Used)

	qs.Release("ip")
	assert.Equal(t, 0, qs.GetQuotaInfo("ip").Used, "never goes negative")

	ok, _ = qs.Reserve("ip")
	assert.True(t, ok)
}

func TestQuotaReserveConcurrent(t *testing.T) {
	qs, err := NewQuotaService(&model.QuotaConfig{Enabled: true, DailyDownloads: 3})
	require.NoError(t, err)
	defer qs.Stop()

	var wg sync.WaitGroup
	var granted atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := qs.Reserve("ip"); ok {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(3), granted.Load())
	assert.Equal(t, 3, qs.GetQuotaInfo("ip").Used)
}

func TestQuotaDisabled(t *testing.T) {
	qs, err := NewQuotaService(&model.QuotaConfig{Enabled: false, DailyDownloads: 0})
	require.NoError(t, err)
	defer qs.Stop()

	ok, _ := qs.CheckQuota("ip")
	assert.True(t, ok)
	ok, remaining := qs.Reserve("ip")
	assert.True(t, ok)
	assert.Equal(t, -1, remaining)
	qs.Release("ip")
	assert.False(t, qs.GetQuotaInfo("ip").Enabled)
}
