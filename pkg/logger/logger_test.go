package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"warning", WARN},
		{" error ", ERROR},
		{"FATAL", FATAL},
		{"verbose", INFO},
		{"", INFO},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.in))
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, WARN)

	l.Infof("hidden %d", 1)
	l.Warnf("shown %d", 2)
	l.Errorf("shown %d", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] ")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "[ERROR] ")
	assert.Contains(t, out, "logger_test.go")

	buf.Reset()
	l.SetLevel(DEBUG)
	l.Debugf("now visible")
	assert.Contains(t, buf.String(), "[DEBUG] now visible")
	assert.Equal(t, DEBUG, l.GetLevel())
}

func TestGormLoggerTrace(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, DEBUG)
	g := NewGormLogger(l, 50*time.Millisecond)
	sql := func() (string, int64) { return "SELECT 1", 1 }

	g.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	assert.NotContains(t, buf.String(), "[ERROR]")

	g.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	assert.Contains(t, buf.String(), "[ERROR]")
	assert.Contains(t, buf.String(), "boom")

	buf.Reset()
	g.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	assert.Contains(t, buf.String(), "slow query")

	buf.Reset()
	g.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	assert.Empty(t, buf.String())
}

func TestGormLoggerLevelFollowsLogger(t *testing.T) {
	var buf bytes.Buffer

	g := NewGormLogger(NewWithWriter(&buf, ERROR), 0)
	g.Warn(context.Background(), "ignored %s", "warn")
	assert.Empty(t, buf.String())

	g.Error(context.Background(), "failed %s", "query")
	assert.Contains(t, buf.String(), "[gorm] failed query")
}
