package service

import (
	"context"
	"sync"

	"tubegrab/internal/model"
	"tubegrab/pkg/logger"

	"go.uber.org/zap"
)

// Notifier delivers user-facing notices
type Notifier interface {
	Notify(n model.Notice)
}

// LogNotifier writes notices to the application log
type LogNotifier struct{}

// Notify implements Notifier
func (LogNotifier) Notify(n model.Notice) {
	fields := []zap.Field{zap.String("level", string(n.Level)), zap.String("notice", n.Message)}
	if n.Level == model.NoticeError {
		logger.LogWarn("User notice", fields...)
		return
	}
	logger.LogInfo("User notice", fields...)
}

// NoticeRecorder collects notices in order
type NoticeRecorder struct {
	mu      sync.Mutex
	notices []model.Notice
}

// Notify implements Notifier
func (r *NoticeRecorder) Notify(n model.Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

// Notices returns a copy of the collected notices
func (r *NoticeRecorder) Notices() []model.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// MultiNotifier fans a notice out to every member
type MultiNotifier []Notifier

// Notify implements Notifier
func (m MultiNotifier) Notify(n model.Notice) {
	for _, target := range m {
		if target != nil {
			target.Notify(n)
		}
	}
}

type notifierKey struct{}

// WithNotifier attaches a per-call notifier that receives notices in
// addition to the service's own notifier
func WithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, notifierKey{}, n)
}

func notifierFrom(ctx context.Context) Notifier {
	n, _ := ctx.Value(notifierKey{}).(Notifier)
	return n
}
