package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitRejectsBadLevel(t *testing.T) {
	err := Init(Config{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestWithContextAddsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := Get()
	Set(zap.New(core))
	t.Cleanup(func() { Set(prev) })

	ctx := WithBlockID(WithFunction(context.Background(), "base64Decode"), 4)
	WithContext(ctx).Info("block done")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "base64Decode", fields["function"])
	assert.Equal(t, int64(4), fields["block_id"])
}

func TestGetDefaults(t *testing.T) {
	require.NoError(t, Init(DefaultConfig()))
	assert.NotNil(t, Get())
}
