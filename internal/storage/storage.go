// Package storage holds the per-client key-value state that browsers used to
// keep in local storage. Values are opaque strings; callers own their format.
package storage

import (
	"context"
	"fmt"
	"strings"
)

// Store is a string-keyed, string-valued store. Single-key reads and writes
// are atomic. Remove deletes every named key in one operation and treats
// missing keys as already removed.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, keys ...string) error
}

const namespaceSeparator = ":"

type namespacedStore struct {
	inner     Store
	namespace string
}

// Namespaced scopes inner so that every key is prefixed with namespace.
func Namespaced(inner Store, namespace string) Store {
	return &namespacedStore{inner: inner, namespace: strings.TrimSpace(namespace)}
}

func (s *namespacedStore) key(key string) string {
	return s.namespace + namespaceSeparator + key
}

func (s *namespacedStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.key(key))
}

func (s *namespacedStore) Set(ctx context.Context, key string, value string) error {
	return s.inner.Set(ctx, s.key(key), value)
}

func (s *namespacedStore) Remove(ctx context.Context, keys ...string) error {
	scoped := make([]string, 0, len(keys))
	for _, key := range keys {
		scoped = append(scoped, s.key(key))
	}
	return s.inner.Remove(ctx, scoped...)
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("storage key cannot be empty")
	}
	return nil
}
