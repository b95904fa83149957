package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// QueryLogger adapts a zap logger to gorm's logging interface so SQL
// tracing lands in the same stream as the rest of the application.
type QueryLogger struct {
	zap         *zap.Logger
	level       gormlogger.LogLevel
	slowAfter   time.Duration
	logNotFound bool
}

// QueryLoggerOption adjusts a QueryLogger.
type QueryLoggerOption func(*QueryLogger)

// WithSlowQueryThreshold overrides the elapsed time after which a query
// is reported as slow.
func WithSlowQueryThreshold(d time.Duration) QueryLoggerOption {
	return func(l *QueryLogger) { l.slowAfter = d }
}

// WithNotFoundLogging reports gorm's record-not-found as a query error.
// Missing rows are an expected outcome for lookups, so the default
// stays quiet about them.
func WithNotFoundLogging(enabled bool) QueryLoggerOption {
	return func(l *QueryLogger) { l.logNotFound = enabled }
}

// NewQueryLogger builds a gorm logger on top of base. Queries slower
// than 200ms are flagged unless the threshold is overridden.
func NewQueryLogger(base *zap.Logger, level gormlogger.LogLevel, opts ...QueryLoggerOption) *QueryLogger {
	l := &QueryLogger{
		zap:       base.Named("gorm"),
		level:     level,
		slowAfter: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogMode returns a copy of the logger at the requested level.
func (l *QueryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *QueryLogger) Info(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.zap.Sugar().Infof(msg, args...)
	}
}

func (l *QueryLogger) Warn(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.zap.Sugar().Warnf(msg, args...)
	}
}

func (l *QueryLogger) Error(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.zap.Sugar().Errorf(msg, args...)
	}
}

// Trace reports each statement with its latency and row count, tagged
// with the request id when one is on the context.
func (l *QueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}

	switch {
	case err != nil && l.level >= gormlogger.Error:
		if !l.logNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		l.zap.Error("query failed", append(fields, zap.Error(err))...)

	case l.slowAfter > 0 && elapsed >= l.slowAfter && l.level >= gormlogger.Warn:
		l.zap.Warn("slow query", append(fields, zap.Duration("threshold", l.slowAfter))...)

	case l.level >= gormlogger.Info:
		l.zap.Debug("query", fields...)
	}
}

// GormLevel translates the application log level into gorm's tracing
// level. Unknown levels trace warnings and up.
func GormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

var _ gormlogger.Interface = (*QueryLogger)(nil)
