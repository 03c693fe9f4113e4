package aiclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledClient(t *testing.T) {
	client := Disabled()

	_, err := client.Embed(context.Background(), "some text")
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = client.Complete(context.Background(), "some prompt")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), "acme", "key", Options{})
	assert.ErrorContains(t, err, "unknown AI provider")
}

func TestNewLimiterDefaults(t *testing.T) {
	l := newLimiter(0)
	require.NotNil(t, l)
	assert.InDelta(t, 10.0/60.0, float64(l.Limit()), 1e-9)

	l = newLimiter(60)
	assert.InDelta(t, 1.0, float64(l.Limit()), 1e-9)
	assert.Equal(t, 1, l.Burst())
}

func TestCallContextAppliesTimeout(t *testing.T) {
	ctx, cancel := callContext(context.Background(), time.Minute)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)

	ctx, cancel = callContext(context.Background(), 0)
	defer cancel()
	_, ok = ctx.Deadline()
	assert.True(t, ok)
}
