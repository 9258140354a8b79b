package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"backoffice-gateway/internal/storage"
)

// ClientStateRepository stores client state rows keyed by (namespace, key).
type ClientStateRepository struct {
	pool *pgxpool.Pool
}

func NewClientStateRepository(pool *pgxpool.Pool) *ClientStateRepository {
	return &ClientStateRepository{pool: pool}
}

func (r *ClientStateRepository) Get(ctx context.Context, namespace string, key string) (string, bool, error) {
	var value string
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM client_state WHERE namespace = $1 AND key = $2`,
		namespace, key).Scan(&value)

	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get client state: %w", err)
	}
	return value, true, nil
}

func (r *ClientStateRepository) Set(ctx context.Context, namespace string, key string, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("storage key cannot be empty")
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO client_state (namespace, key, value, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		namespace, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set client state: %w", err)
	}
	return nil
}

func (r *ClientStateRepository) Remove(ctx context.Context, namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := r.pool.Exec(ctx,
		`DELETE FROM client_state WHERE namespace = $1 AND key = ANY($2)`,
		namespace, keys)
	if err != nil {
		return fmt.Errorf("remove client state: %w", err)
	}
	return nil
}

func (r *ClientStateRepository) CleanStale(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM client_state WHERE updated_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("clean stale client state: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ForNamespace adapts the repository to storage.Store for one client.
func (r *ClientStateRepository) ForNamespace(namespace string) storage.Store {
	return &namespaceStore{repo: r, namespace: namespace}
}

type namespaceStore struct {
	repo      *ClientStateRepository
	namespace string
}

func (s *namespaceStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.repo.Get(ctx, s.namespace, key)
}

func (s *namespaceStore) Set(ctx context.Context, key string, value string) error {
	return s.repo.Set(ctx, s.namespace, key, value)
}

func (s *namespaceStore) Remove(ctx context.Context, keys ...string) error {
	return s.repo.Remove(ctx, s.namespace, keys...)
}

// RunStaleCleanup deletes rows untouched for longer than retention, once per
// interval, until ctx is cancelled.
func RunStaleCleanup(ctx context.Context, repo *ClientStateRepository, interval time.Duration, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := repo.CleanStale(ctx, time.Now().Add(-retention))
			if err != nil {
				slog.Warn("stale client state cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("stale client state removed", "rows", removed)
			}
		}
	}
}
