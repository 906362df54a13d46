package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/gridstore/pkg/logger"
)

func TestObservedLogsRestoresLogger(t *testing.T) {
	prev := logger.Get()
	t.Run("observe", func(t *testing.T) {
		logs := ObservedLogs(t, zapcore.InfoLevel)
		logger.Debug("hidden")
		logger.Info("seen")
		assert.Equal(t, 1, logs.Len())
		assert.Equal(t, "seen", logs.All()[0].Message)
	})
	assert.Same(t, prev, logger.Get())
}

func TestTestContext(t *testing.T) {
	ctx := TestContext(t)
	_, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.NoError(t, ctx.Err())
}
