package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, encoding := range []string{"json", "console"} {
		log, err := New("info", encoding)
		require.NoError(t, err)
		assert.NotNil(t, log)
	}

	_, err := New("loud", "json")
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := &Logger{zap.New(core)}
	scoped := base.ForTicker("AAPL")

	ctx := NewContext(context.Background(), scoped)
	base.InfoContext(ctx, "from context", DecimalField("close", decimal.RequireFromString("101.50")))
	base.InfoContext(context.Background(), "plain", ErrorField(errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "AAPL", entries[0].ContextMap()["ticker"])
	assert.Equal(t, "101.5", entries[0].ContextMap()["close"])
	_, hasTicker := entries[1].ContextMap()["ticker"]
	assert.False(t, hasTicker)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestDomainFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := &Logger{zap.New(core)}

	log.Info("run", DateField("start_date", time.Date(2024, 2, 5, 15, 30, 0, 0, time.UTC)), TickerField("msft"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-02-05", entries[0].ContextMap()["start_date"])
	assert.Equal(t, "msft", entries[0].ContextMap()["ticker"])
}
