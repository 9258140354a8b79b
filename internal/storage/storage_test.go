package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "authStore")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.Set(ctx, "authStore", `{"isLogin":true}`))
	require.NoError(t, store.Set(ctx, "itemStore", `{"items":[]}`))

	value, found, err := store.Get(ctx, "authStore")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `{"isLogin":true}`, value)

	require.NoError(t, store.Remove(ctx, "authStore", "itemStore", "outletStore"))

	_, found, err = store.Get(ctx, "authStore")
	require.NoError(t, err)
	require.False(t, found)
	_, found, err = store.Get(ctx, "itemStore")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.Remove(ctx, "authStore"))
	require.Error(t, store.Set(ctx, "  ", "x"))
}

func TestMemoryStoreBasicOperations(t *testing.T) {
	t.Parallel()

	exerciseStore(t, NewMemoryStore())
}

func TestFileStoreBasicOperations(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(filepath.Join(t.TempDir(), "state", "client-state.json"))
	require.NoError(t, err)
	exerciseStore(t, store)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "client-state.json")
	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(context.Background(), "c1:authStore", `{"isLogin":false}`))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := NewFileStore(path)
	require.NoError(t, err)
	value, found, err := second.Get(context.Background(), "c1:authStore")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `{"isLogin":false}`, value)
}

func TestFileStoreRejectsCorruptDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "client-state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path)
	require.Error(t, err)
}

func TestNamespacedStoreIsolatesClients(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	shared := NewMemoryStore()
	alice := Namespaced(shared, "alice")
	bob := Namespaced(shared, "bob")

	require.NoError(t, alice.Set(ctx, "authStore", "a"))
	require.NoError(t, bob.Set(ctx, "authStore", "b"))

	value, found, err := alice.Get(ctx, "authStore")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "a", value)

	require.NoError(t, bob.Remove(ctx, "authStore"))
	_, found, err = bob.Get(ctx, "authStore")
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = alice.Get(ctx, "authStore")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1, shared.Len())
}
