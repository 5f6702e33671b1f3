package utils

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormZapLogger routes GORM's log output through zap and filters out queries
// matching the ignored patterns. The expiry worker issues the same scan on
// every pass, which would otherwise dominate the SQL log.
type GormZapLogger struct {
	zl                   *zap.Logger
	level                logger.LogLevel
	slowThreshold        time.Duration
	ignoredQueryPatterns []string
}

// NewGormZapLogger creates a GORM logger writing to zl, skipping queries that
// contain any of the given patterns
func NewGormZapLogger(zl *zap.Logger, ignoredPatterns ...string) *GormZapLogger {
	return &GormZapLogger{
		zl:                   zl,
		level:                logger.Warn,
		slowThreshold:        200 * time.Millisecond,
		ignoredQueryPatterns: ignoredPatterns,
	}
}

// LogMode implements logger.Interface
func (l *GormZapLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info implements logger.Interface
func (l *GormZapLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		l.zl.Sugar().Infof(msg, args...)
	}
}

// Warn implements logger.Interface
func (l *GormZapLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		l.zl.Sugar().Warnf(msg, args...)
	}
}

// Error implements logger.Interface
func (l *GormZapLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		l.zl.Sugar().Errorf(msg, args...)
	}
}

// Trace implements logger.Interface
func (l *GormZapLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	sql, rows := fc()
	for _, pattern := range l.ignoredQueryPatterns {
		if strings.Contains(sql, pattern) {
			return
		}
	}

	elapsed := time.Since(begin)
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.zl.Error("query failed", append(fields, zap.Error(err))...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		l.zl.Warn("slow query", fields...)
	case l.level >= logger.Info:
		l.zl.Debug("query", fields...)
	}
}
