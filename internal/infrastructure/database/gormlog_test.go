package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

type captured struct {
	level string
	msg   string
}

type captureLogger struct {
	logger.Interface
	entries *[]captured
}

func newCaptureLogger() captureLogger {
	return captureLogger{Interface: logger.NewNopLogger(), entries: new([]captured)}
}

func (c captureLogger) Debugw(msg string, _ ...any) { *c.entries = append(*c.entries, captured{"debug", msg}) }
func (c captureLogger) Warnw(msg string, _ ...any)  { *c.entries = append(*c.entries, captured{"warn", msg}) }
func (c captureLogger) Errorw(msg string, _ ...any) { *c.entries = append(*c.entries, captured{"error", msg}) }

func TestQueryLogger_Trace(t *testing.T) {
	stmt := func() (string, int64) { return "SELECT 1", 1 }
	ctx := context.Background()

	tests := []struct {
		name  string
		level gormlogger.LogLevel
		begin time.Time
		err   error
		want  []captured
	}{
		{"fast query at warn is quiet", gormlogger.Warn, time.Now(), nil, nil},
		{"failed query", gormlogger.Warn, time.Now(), errors.New("syntax"), []captured{{"error", "query failed"}}},
		{"record not found is not an error", gormlogger.Warn, time.Now(), gorm.ErrRecordNotFound, nil},
		{"slow query", gormlogger.Warn, time.Now().Add(-time.Second), nil, []captured{{"warn", "slow query"}}},
		{"info logs every query", gormlogger.Info, time.Now(), nil, []captured{{"debug", "query"}}},
		{"silent", gormlogger.Silent, time.Now(), errors.New("syntax"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := newCaptureLogger()
			ql := newQueryLogger(log, 200*time.Millisecond).LogMode(tt.level)
			ql.Trace(ctx, tt.begin, stmt, tt.err)
			assert.Equal(t, tt.want, *log.entries)
		})
	}
}
