package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBus starts a miniredis instance and returns a connected Bus.
func setupBus(t *testing.T) (*Bus, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	b, err := NewBus(Options{URL: fmt.Sprintf("redis://%s", mr.Addr())})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = b.Close()
	})

	return b, mr
}

func TestNewBus(t *testing.T) {
	t.Run("successful connection", func(t *testing.T) {
		mr := miniredis.RunT(t)

		b, err := NewBus(Options{URL: fmt.Sprintf("redis://%s", mr.Addr())})
		require.NoError(t, err)
		require.NotNil(t, b)
		defer b.Close()
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := NewBus(Options{URL: "invalid://url"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse redis url")
	})

	t.Run("connection failure", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := NewBus(Options{
			URL:            fmt.Sprintf("redis://%s", addr),
			ConnectTimeout: 100 * time.Millisecond,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to redis")
	})
}

func TestBusSendRecv(t *testing.T) {
	b, _ := setupBus(t)
	ctx := context.Background()

	err := b.Send(ctx, "beta", map[string]any{"ping": true, "task": "review"})
	require.NoError(t, err)

	msg, ok, err := b.Recv(ctx, "beta")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, true, msg["ping"])
	assert.Equal(t, "review", msg["task"])

	// mailbox drained
	msg, ok, err = b.Recv(ctx, "beta")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, msg)
}

func TestBusPerRecipientOrder(t *testing.T) {
	b, _ := setupBus(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, b.Send(ctx, "alpha", map[string]any{"seq": i}))
	}

	for want := 0; want < 3; want++ {
		msg, ok, err := b.Recv(ctx, "alpha")
		require.NoError(t, err)
		require.True(t, ok)
		// JSON round trip turns numbers into float64
		assert.Equal(t, float64(want), msg["seq"])
	}
}

func TestBusRecipientIsolation(t *testing.T) {
	b, _ := setupBus(t)
	ctx := context.Background()

	require.NoError(t, b.Send(ctx, "alpha", map[string]any{"for": "alpha"}))

	_, ok, err := b.Recv(ctx, "beta")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = b.Recv(ctx, "alpha")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBusKeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)

	b, err := NewBus(Options{
		URL:       fmt.Sprintf("redis://%s", mr.Addr()),
		KeyPrefix: "custom",
	})
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Send(context.Background(), "alpha", map[string]any{"x": 1}))
	assert.True(t, mr.Exists("custom:alpha"))
}

func TestBusSharedBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", mr.Addr())

	sender, err := NewBus(Options{URL: url})
	require.NoError(t, err)
	defer sender.Close()

	receiver, err := NewBus(Options{URL: url})
	require.NoError(t, err)
	defer receiver.Close()

	ctx := context.Background()
	require.NoError(t, sender.Send(ctx, "beta", map[string]any{"ping": true}))

	msg, ok, err := receiver.Recv(ctx, "beta")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, true, msg["ping"])
}
