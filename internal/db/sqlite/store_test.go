package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/statpool/internal/stat"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "statpool.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	assert.ErrorContains(t, err, "storage path is required")
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "statpool.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "player", "health", stat.Snapshot{Min: 0, Max: 200, Value: 150}))
	require.NoError(t, store.Close())

	// migrations are already applied the second time
	store, err = Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	got, ok, err := store.Load(ctx, "player", "health")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stat.Snapshot{Min: 0, Max: 200, Value: 150}, got)
}

func TestStore_SaveLoad(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Load(ctx, "player", "mana")
	require.NoError(t, err)
	assert.False(t, ok)

	mana := stat.NewWithBounds(-10, 40, 40)
	require.NoError(t, store.Save(ctx, "player", "mana", mana.Snapshot()))

	mana.Decrease(25)
	require.NoError(t, store.Save(ctx, "player", "mana", mana.Snapshot()))

	got, ok, err := store.Load(ctx, "player", "mana")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stat.Snapshot{Min: -10, Max: 40, Value: 15}, got)
}

func TestStore_LoadOwner(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "player", "health", stat.Snapshot{Min: 0, Max: 100, Value: 40}))
	require.NoError(t, store.Save(ctx, "player", "mana", stat.Snapshot{Min: 0, Max: 50, Value: 0}))
	require.NoError(t, store.Save(ctx, "boss", "health", stat.Snapshot{Min: 0, Max: 9000, Value: 9000}))

	pools, err := store.LoadOwner(ctx, "player")
	require.NoError(t, err)
	assert.Equal(t, map[string]stat.Snapshot{
		"health": {Min: 0, Max: 100, Value: 40},
		"mana":   {Min: 0, Max: 50, Value: 0},
	}, pools)
}

func TestStore_Delete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "player", "stamina", stat.DefaultSnapshot()))
	require.NoError(t, store.Delete(ctx, "player", "stamina"))
	require.NoError(t, store.Delete(ctx, "player", "stamina"))

	_, ok, err := store.Load(ctx, "player", "stamina")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_RejectsBrokenInvariants(t *testing.T) {
	store := openTestStore(t)

	err := store.Save(context.Background(), "player", "health", stat.Snapshot{Min: 5, Max: 1, Value: 3})
	assert.ErrorContains(t, err, "saving pool player/health")
}
