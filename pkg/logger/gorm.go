package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes gorm's SQL logging into a Logger so queries land in the same rotating file.
type GormLogger struct {
	target        *Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger adapts l (the global logger when nil) to gorm's logger.Interface.
// Record-not-found errors are not logged; they are normal lookups for a CRUD API.
func NewGormLogger(l *Logger, slowThreshold time.Duration) *GormLogger {
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}
	return &GormLogger{target: l, level: gormLevelFor(l), slowThreshold: slowThreshold}
}

func gormLevelFor(l *Logger) gormlogger.LogLevel {
	level := GetLevel()
	if l != nil {
		level = l.GetLevel()
	}
	switch {
	case level <= DEBUG:
		return gormlogger.Info
	case level <= WARN:
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Info {
		g.write(INFO, fmt.Sprintf("[gorm] "+msg, data...))
	}
}

func (g *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.write(WARN, fmt.Sprintf("[gorm] "+msg, data...))
	}
}

func (g *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Error {
		g.write(ERROR, fmt.Sprintf("[gorm] "+msg, data...))
	}
}

func (g *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && g.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		g.write(ERROR, fmt.Sprintf("[gorm] %v [%.3fms] [rows:%d] %s", err, ms(elapsed), rows, sql))
	case elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		sql, rows := fc()
		g.write(WARN, fmt.Sprintf("[gorm] slow query >= %v [%.3fms] [rows:%d] %s", g.slowThreshold, ms(elapsed), rows, sql))
	case g.level >= gormlogger.Info:
		sql, rows := fc()
		g.write(DEBUG, fmt.Sprintf("[gorm] [%.3fms] [rows:%d] %s", ms(elapsed), rows, sql))
	}
}

func (g *GormLogger) write(level LogLevel, msg string) {
	if g.target != nil {
		g.target.output(level, 3, msg)
		return
	}
	if instance != nil {
		instance.output(level, 3, msg)
	}
}

func ms(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}
