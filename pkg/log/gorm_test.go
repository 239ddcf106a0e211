package log

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	old := zap.L()
	zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(func() { zap.ReplaceGlobals(old) })

	return logs
}

func statement() (string, int64) {
	return "SELECT 1", 1
}

func TestGormLoggerQuietByDefault(t *testing.T) {
	logs := observe(t)

	l := NewGormLogger(false)
	l.Trace(context.Background(), time.Now(), statement, nil)
	l.Info(context.Background(), "hello %s", "world")

	require.Equal(t, 0, logs.Len())

	l.Trace(context.Background(), time.Now(), statement, errors.New("disk I/O error"))
	require.Equal(t, 1, logs.FilterMessage("query failed").Len())
}

func TestGormLoggerQueries(t *testing.T) {
	logs := observe(t)

	l := NewGormLogger(true)
	l.Trace(context.Background(), time.Now(), statement, nil)
	l.Trace(context.Background(), time.Now(), statement, gorm.ErrRecordNotFound)

	entries := logs.FilterMessage("query").All()
	require.Len(t, entries, 2)
	require.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
}

func TestGormLoggerSlowQuery(t *testing.T) {
	logs := observe(t)

	l := NewGormLogger(false).LogMode(gormlogger.Warn)
	l.Trace(context.Background(), time.Now().Add(-time.Second), statement, nil)

	require.Equal(t, 1, logs.FilterMessage("slow query").Len())
}

func TestGormLoggerSilent(t *testing.T) {
	logs := observe(t)

	l := NewGormLogger(true).LogMode(gormlogger.Silent)
	l.Trace(context.Background(), time.Now(), statement, errors.New("boom"))
	l.Error(context.Background(), "boom")

	require.Equal(t, 0, logs.Len())
}
