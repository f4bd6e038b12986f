package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerFromContext(t *testing.T) {
	assert.NotNil(t, loggerFromContext(context.Background()), "falls back to a no-op logger")

	obs, logs := observer.New(zapcore.DebugLevel)
	ctx := WithLogger(context.Background(), zap.New(obs))
	loggerFromContext(ctx).Debug("hello")
	assert.Equal(t, 1, logs.Len())
}

func TestRunFormulation_LogsAtDebug(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	ctx := WithLogger(context.Background(), zap.New(obs))

	_, err := GetFormulationResult(ctx, testConfig(), nil)
	assert.NoError(t, err)

	recorded := logs.FilterMessage("formulation recorded").All()
	if assert.Len(t, recorded, 1) {
		assert.Equal(t, "dairy", recorded[0].ContextMap()["profile"])
		assert.InDelta(t, 30.65, recorded[0].ContextMap()["total_cost"], 1e-9)
	}
	assert.NotZero(t, logs.FilterMessage("solver finished").Len())
}
