package logx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskingCoreRedactsFieldsAndMessages(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(newMaskingCore(inner)).Sugar()

	log.Infow("unlocked snoPBrXtMeMyMHUVTgbuqAfg1SUTb",
		"seed", "snoPBrXtMeMyMHUVTgbuqAfg1SUTb",
		"address", "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh",
		"note", "key 1A2B3C4D5E6F70811A2B3C4D5E6F70811A2B3C4D5E6F70811A2B3C4D5E6F7081",
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "unlocked "+redacted, entry.Message)

	ctx := entry.ContextMap()
	assert.Equal(t, redacted, ctx["seed"])
	assert.Equal(t, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", ctx["address"])
	assert.Equal(t, "key "+redacted, ctx["note"])
}

func TestMaskingCoreWithKeepsRedacting(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(newMaskingCore(inner)).Sugar().With("passphrase", "hunter2")

	log.Infow("protect")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, redacted, logs.All()[0].ContextMap()["passphrase"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestSBeforeInitIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { S().Infow("before init") })
}
