package realtime

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
)

func TestPublishSubscribeRoundTrip(t *testing.T) {
	// Skip if no Redis connection
	if os.Getenv("REDIS_ADDR") == "" {
		t.Skip("Skipping test - no Redis connection configured")
	}

	rdb := redis.NewClient(&redis.Options{Addr: os.Getenv("REDIS_ADDR")})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub := NewHub(rdb, nil)
	events, stop, err := hub.Subscribe(ctx, 42)
	require.NoError(t, err)
	defer stop()

	sent := api.Notification{
		ID:          7,
		RecipientID: 42,
		ActorID:     9,
		Kind:        api.KindComment,
		TargetID:    3,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, hub.Publish(ctx, sent))

	select {
	case got := <-events:
		assert.Equal(t, sent.ID, got.ID)
		assert.Equal(t, sent.Kind, got.Kind)
		assert.Equal(t, sent.ActorID, got.ActorID)
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for notification event")
	}
}

func TestSubscribeIsScopedToRecipient(t *testing.T) {
	// Skip if no Redis connection
	if os.Getenv("REDIS_ADDR") == "" {
		t.Skip("Skipping test - no Redis connection configured")
	}

	rdb := redis.NewClient(&redis.Options{Addr: os.Getenv("REDIS_ADDR")})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub := NewHub(rdb, nil)
	events, stop, err := hub.Subscribe(ctx, 1)
	require.NoError(t, err)
	defer stop()

	require.NoError(t, hub.Publish(ctx, api.Notification{ID: 1, RecipientID: 2}))

	select {
	case got := <-events:
		t.Fatalf("received notification %d addressed to another recipient", got.ID)
	case <-time.After(500 * time.Millisecond):
		// Nothing delivered, as expected.
	}
}
