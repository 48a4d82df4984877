package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoltStore(t *testing.T, opts ...BoltOption) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "sessions.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreContract(t *testing.T) {
	runStoreContract(t, newTestBoltStore(t))
}

func TestBoltStoreExpiry(t *testing.T) {
	store := newTestBoltStore(t, WithBoltTTL(20*time.Millisecond))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewState("short-lived")))
	time.Sleep(40 * time.Millisecond)

	_, err := store.Load(ctx, "short-lived")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Touch(ctx, "short-lived"), ErrNotFound)
}

func TestBoltStoreSweep(t *testing.T) {
	store := newTestBoltStore(t, WithBoltTTL(20*time.Millisecond))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewState("a")))
	require.NoError(t, store.Save(ctx, NewState("b")))
	require.NoError(t, store.Save(ctx, NewState("c")))

	time.Sleep(40 * time.Millisecond)
	require.NoError(t, store.Save(ctx, NewState("fresh")))

	n, err := store.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = store.Load(ctx, "fresh")
	assert.NoError(t, err, "sweep must not collect live sessions")
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()

	store, err := NewBoltStore(path)
	require.NoError(t, err)

	st := NewState("durable")
	st.Seq = 9
	require.NoError(t, store.Save(ctx, st))
	require.NoError(t, store.Close())

	reopened, err := NewBoltStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, "durable")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), loaded.Seq)
}
