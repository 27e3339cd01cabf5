package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func sqlFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, WithSlowThreshold(50*time.Millisecond))
	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-7")

	gl.Trace(ctx, time.Now(), sqlFn("SELECT 1", 1), nil)
	gl.Trace(ctx, time.Now().Add(-time.Second), sqlFn("SELECT pg_sleep(1)", 1), nil)
	gl.Trace(ctx, time.Now(), sqlFn("INSERT", 0), errors.New("unique violation"))
	gl.Trace(ctx, time.Now(), sqlFn("SELECT", 0), gormlogger.ErrRecordNotFound)

	all := logs.All()
	if assert.Len(t, all, 3) {
		assert.Equal(t, zapcore.DebugLevel, all[0].Level)
		assert.Equal(t, "req-7", all[0].ContextMap()["request_id"])
		assert.Equal(t, zapcore.WarnLevel, all[1].Level)
		assert.Equal(t, zapcore.ErrorLevel, all[2].Level)
	}
}

func TestGormLogger_WithoutSQL(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, WithSQL(false))

	gl.Trace(context.Background(), time.Now(), sqlFn("SELECT email FROM shoppers", 1), nil)

	_, ok := logs.All()[0].ContextMap()["sql"]
	assert.False(t, ok)
}

func TestGormLogger_TagsPrincipal(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info)
	ctx, _ := WithPrincipal(context.Background(), zap.NewNop(), "shopper", "a1b2c3d4e5f60718")

	gl.Trace(ctx, time.Now(), sqlFn("  UPDATE carts SET updated_at = NOW()", 1), nil)

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "update", fields["op"])
	assert.Equal(t, "shopper", fields["principal_kind"])
	assert.Equal(t, "a1b2c3d4e5f60718", fields["principal_id"])
}

func TestStatementKind(t *testing.T) {
	assert.Equal(t, "select", statementKind("SELECT * FROM items"))
	assert.Equal(t, "insert", statementKind("\n\tINSERT INTO orders"))
	assert.Equal(t, "unknown", statementKind("   "))
}

func TestGormLogger_Silent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn).LogMode(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), sqlFn("SELECT 1", 1), errors.New("x"))
	gl.Error(context.Background(), "x %d", 1)
	assert.Zero(t, logs.Len())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}
