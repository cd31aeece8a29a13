// Package gormlogger routes gorm log output through the global zerolog logger.
package gormlogger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowThreshold marks statements slower than this as slow.
const DefaultSlowThreshold = 200 * time.Millisecond

// Logger implements gorm's logger.Interface on top of zerolog.
type Logger struct {
	level         gormlogger.LogLevel
	sqlLevel      zerolog.Level
	slowThreshold time.Duration
}

// New returns a Logger writing SQL traces at sqlLevel. An empty or unknown
// sqlLevel silences statement tracing; warnings and errors are always logged.
func New(sqlLevel string) *Logger {
	l := &Logger{
		level:         gormlogger.Warn,
		sqlLevel:      zerolog.Disabled,
		slowThreshold: DefaultSlowThreshold,
	}

	if lvl, err := zerolog.ParseLevel(sqlLevel); err == nil && sqlLevel != "" {
		l.level = gormlogger.Info
		l.sqlLevel = lvl
	}

	return l
}

// LogMode implements logger.Interface.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level

	return &clone
}

// Info implements logger.Interface.
func (l *Logger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		from(ctx).Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Warn implements logger.Interface.
func (l *Logger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		from(ctx).Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Error implements logger.Interface.
func (l *Logger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		from(ctx).Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace implements logger.Interface. Record-not-found errors are not reported.
func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	var event *zerolog.Event

	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound) && l.level >= gormlogger.Error:
		event = from(ctx).Error().Err(err)
	case elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		event = from(ctx).Warn().Bool("slow", true)
	case l.level >= gormlogger.Info && l.sqlLevel != zerolog.Disabled:
		event = from(ctx).WithLevel(l.sqlLevel)
	default:
		return
	}

	sql, rows := fc()

	event.Str("component", "gorm").
		Str("sql", sql).
		Int64("rows", rows).
		Dur("elapsed", elapsed).
		Msg("sql")
}

// from returns the logger carried by ctx, or the global logger.
func from(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}

	return &log.Logger
}
