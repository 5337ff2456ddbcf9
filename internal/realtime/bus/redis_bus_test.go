package bus

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/realtime"
)

func TestRedisBusRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	b, err := NewRedisBus(logger.NewNop(), RedisConfig{Addr: mr.Addr(), Channel: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan realtime.Envelope, 1)
	require.NoError(t, b.StartForwarder(ctx, func(env realtime.Envelope) { got <- env }))

	userID := uuid.New()
	require.NoError(t, b.Publish(ctx, realtime.Envelope{
		UserID:  userID,
		Message: realtime.Message{Event: realtime.EventNotification, Data: map[string]any{"message": "hi"}},
	}))

	select {
	case env := <-got:
		assert.Equal(t, userID, env.UserID)
		assert.Equal(t, realtime.EventNotification, env.Message.Event)
		assert.Equal(t, "hi", env.Message.Data.(map[string]any)["message"])
	case <-time.After(2 * time.Second):
		t.Fatal("forwarder did not deliver")
	}
}

func TestRedisBusRequiresAddr(t *testing.T) {
	_, err := NewRedisBus(logger.NewNop(), RedisConfig{})
	assert.Error(t, err)
}
