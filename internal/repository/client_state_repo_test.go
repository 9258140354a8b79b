//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"backoffice-gateway/internal/database"
)

func newRepo(t *testing.T) *ClientStateRepository {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, url, database.PoolOptions{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(ctx))

	return NewClientStateRepository(db.Pool)
}

func TestClientStateRepositoryRoundTrip(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	a := repo.ForNamespace(uuid.NewString())
	b := repo.ForNamespace(uuid.NewString())

	require.NoError(t, a.Set(ctx, "authStore", `{"isLogin":true}`))
	require.NoError(t, a.Set(ctx, "authStore", `{"isLogin":false}`))
	require.NoError(t, a.Set(ctx, "outletStore", `{}`))

	value, found, err := a.Get(ctx, "authStore")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `{"isLogin":false}`, value)

	_, found, err = b.Get(ctx, "authStore")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, a.Remove(ctx, "authStore", "outletStore", "schoolStore"))
	_, found, err = a.Get(ctx, "outletStore")
	require.NoError(t, err)
	require.False(t, found)
}

func TestClientStateRepositoryCleanStale(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	namespace := uuid.NewString()

	require.NoError(t, repo.Set(ctx, namespace, "authStore", "{}"))
	removed, err := repo.CleanStale(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.GreaterOrEqual(t, removed, int64(1))

	_, found, err := repo.Get(ctx, namespace, "authStore")
	require.NoError(t, err)
	require.False(t, found)
}
