package session_test

import (
	"context"
	"testing"
	"time"

	"go-servicios-backend/internal/repository/session"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStorePendingSwitch(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore(time.Hour)

	pending, err := store.PendingSwitch(ctx, "sess-1")
	assert.NoError(t, err)
	assert.False(t, pending)

	assert.NoError(t, store.SetPendingSwitch(ctx, "sess-1"))

	pending, err = store.PendingSwitch(ctx, "sess-1")
	assert.NoError(t, err)
	assert.True(t, pending)

	// Markers are per session.
	pending, err = store.PendingSwitch(ctx, "sess-2")
	assert.NoError(t, err)
	assert.False(t, pending)

	assert.NoError(t, store.ClearPendingSwitch(ctx, "sess-1"))
	pending, _ = store.PendingSwitch(ctx, "sess-1")
	assert.False(t, pending)

	// Clearing an absent marker is not an error.
	assert.NoError(t, store.ClearPendingSwitch(ctx, "sess-1"))
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore(10 * time.Millisecond)

	assert.NoError(t, store.SetPendingSwitch(ctx, "sess-1"))
	assert.Eventually(t, func() bool {
		pending, _ := store.PendingSwitch(ctx, "sess-1")
		return !pending
	}, time.Second, 5*time.Millisecond)
}
