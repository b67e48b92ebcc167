package middleware

import (
	"context"
	"sync"

	"github.com/fitpass-app/fitpass/internal/infrastructure/ratelimit"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

type logEntry struct {
	level  string
	msg    string
	fields []any
}

func (e logEntry) field(key string) any {
	for i := 0; i+1 < len(e.fields); i += 2 {
		if e.fields[i] == key {
			return e.fields[i+1]
		}
	}
	return nil
}

type recordingLogger struct {
	mu      *sync.Mutex
	entries *[]logEntry
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (l *recordingLogger) record(level, msg string, fields []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (l *recordingLogger) all() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), *l.entries...)
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *recordingLogger) Debugw(msg string, kv ...any)  { l.record("debug", msg, kv) }
func (l *recordingLogger) Infow(msg string, kv ...any)   { l.record("info", msg, kv) }
func (l *recordingLogger) Warnw(msg string, kv ...any)   { l.record("warn", msg, kv) }
func (l *recordingLogger) Errorw(msg string, kv ...any)  { l.record("error", msg, kv) }
func (l *recordingLogger) With(...any) logger.Interface  { return l }
func (l *recordingLogger) Named(string) logger.Interface { return l }

type mockLimiter struct {
	AllowFunc func(ctx context.Context, key string, config ratelimit.RateLimitConfig) (bool, error)
}

func (m *mockLimiter) Allow(ctx context.Context, key string, config ratelimit.RateLimitConfig) (bool, error) {
	return m.AllowFunc(ctx, key, config)
}

func (m *mockLimiter) Reset(context.Context, string) error { return nil }
