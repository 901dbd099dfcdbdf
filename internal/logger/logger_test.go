package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development", ""} {
		t.Run(env, func(t *testing.T) {
			log, err := New(env)

			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNew_ProductionSkipsDebug(t *testing.T) {
	log, err := New("production")
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zap.DebugLevel))
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
}

func TestComponent_NilLogger(t *testing.T) {
	log := Component(nil, "cart")

	assert.NotNil(t, log)
}
