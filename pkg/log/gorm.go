package log

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes gorm's query and driver logging through zap.
type GormLogger struct {
	Level         gormlogger.LogLevel
	SlowThreshold time.Duration
}

// NewGormLogger returns a gorm logger. When queries is false, only
// errors are written and individual statements are never traced.
func NewGormLogger(queries bool) *GormLogger {
	l := &GormLogger{
		Level:         gormlogger.Error,
		SlowThreshold: 200 * time.Millisecond,
	}
	if queries {
		l.Level = gormlogger.Info
	}
	return l
}

// LogMode implements gorm's logger.Interface.
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.Level = level
	return &cp
}

func (l *GormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.Level >= gormlogger.Info {
		Info(fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

func (l *GormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.Level >= gormlogger.Warn {
		Warn(fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

func (l *GormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.Level >= gormlogger.Error {
		Error(fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

// Trace logs a statement after it runs. Failed statements are logged at
// the Error level, slow ones at Warn, everything else only at Info.
func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.Level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.Level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		Error("query failed", "sql", sql, "rows", rows, "elapsed", elapsed, "error", err)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.Level >= gormlogger.Warn:
		sql, rows := fc()
		Warn("slow query", "sql", sql, "rows", rows, "elapsed", elapsed)
	case l.Level >= gormlogger.Info:
		sql, rows := fc()
		Debug("query", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
