package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_Trace(t *testing.T) {
	sql := func() (string, int64) { return `SELECT * FROM "users"`, 1 }

	t.Run("ErrorIsLogged", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core))

		l.Trace(context.Background(), time.Now(), sql, errors.New("connection refused"))

		if logs.FilterMessage("SQL query failed").Len() != 1 {
			t.Errorf("Expected one failed query log entry, got %d", logs.Len())
		}
	})

	t.Run("RecordNotFoundIsIgnored", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core))

		l.Trace(context.Background(), time.Now(), sql, gormlogger.ErrRecordNotFound)

		if logs.Len() != 0 {
			t.Errorf("Expected no log entries, got %d", logs.Len())
		}
	})

	t.Run("SlowQueryIsWarned", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core)).LogMode(gormlogger.Warn)

		l.Trace(context.Background(), time.Now().Add(-2*time.Second), sql, nil)

		if logs.FilterMessage("Slow SQL query").Len() != 1 {
			t.Errorf("Expected one slow query log entry, got %d", logs.Len())
		}
	})

	t.Run("SilentLogsNothing", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core)).LogMode(gormlogger.Silent)

		l.Trace(context.Background(), time.Now(), sql, errors.New("boom"))

		if logs.Len() != 0 {
			t.Errorf("Expected no log entries, got %d", logs.Len())
		}
	})
}
