package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGorm(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), logs
}

func sqlFn(sql string) func() (string, int64) {
	return func() (string, int64) { return sql, 1 }
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("failed statement carries request id", func(t *testing.T) {
		gl, logs := newObservedGorm(gormlogger.Warn)
		ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-7")

		gl.Trace(ctx, time.Now(), sqlFn("UPDATE stock_counts SET status = 'approved'"), errors.New("deadlock"))

		entries := logs.FilterMessage("sql failed").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-7", fields["request_id"])
		assert.Equal(t, "update", fields["op"])
		assert.Equal(t, "deadlock", fields["error"])
	})

	t.Run("record not found is a miss, not an error", func(t *testing.T) {
		gl, logs := newObservedGorm(gormlogger.Warn)
		gl.Trace(context.Background(), time.Now(), sqlFn("SELECT * FROM products"), gormlogger.ErrRecordNotFound)
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("slow statement warns", func(t *testing.T) {
		gl, logs := newObservedGorm(gormlogger.Warn, WithSlowThreshold(time.Millisecond))
		gl.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn("SELECT 1"), nil)
		assert.Equal(t, 1, logs.FilterMessage("slow sql").FilterLevelExact(zapcore.WarnLevel).Len())
	})

	t.Run("zero threshold disables slow warnings", func(t *testing.T) {
		gl, logs := newObservedGorm(gormlogger.Warn, WithSlowThreshold(0))
		gl.Trace(context.Background(), time.Now().Add(-time.Hour), sqlFn("SELECT 1"), nil)
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("statements traced only at info", func(t *testing.T) {
		gl, logs := newObservedGorm(gormlogger.Warn)
		gl.Trace(context.Background(), time.Now(), sqlFn("SELECT 1"), nil)
		assert.Equal(t, 0, logs.Len())

		verbose := gl.LogMode(gormlogger.Info)
		verbose.Trace(context.Background(), time.Now(), sqlFn("SELECT 1"), nil)
		assert.Equal(t, 1, logs.FilterMessage("sql").FilterLevelExact(zapcore.DebugLevel).Len())
	})

	t.Run("silent", func(t *testing.T) {
		gl, logs := newObservedGorm(gormlogger.Silent)
		gl.Trace(context.Background(), time.Now(), sqlFn("SELECT"), errors.New("x"))
		assert.Equal(t, 0, logs.Len())
	})
}

func TestStatementVerb(t *testing.T) {
	assert.Equal(t, "insert", statementVerb("  INSERT INTO stock_entries"))
	assert.Equal(t, "select", statementVerb("SELECT"))
	assert.Equal(t, "", statementVerb(""))
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}
