package session

import (
	"errors"

	"backoffice-gateway/internal/event"
	"backoffice-gateway/internal/storage"
)

var (
	ErrNoSession        = errors.New("no stored session")
	ErrMalformedSession = errors.New("stored session is malformed")
)

// StoreFactory returns the storage scoped to one client namespace.
type StoreFactory func(namespace string) storage.Store

// Manager hands out a Service per client namespace over shared storage.
type Manager struct {
	storeFor StoreFactory
	bus      event.Bus
	observer LoadObserver
}

func NewManager(storeFor StoreFactory, bus event.Bus, observer LoadObserver) *Manager {
	return &Manager{storeFor: storeFor, bus: bus, observer: observer}
}

// NamespacedFactory scopes a shared store by key prefix.
func NamespacedFactory(shared storage.Store) StoreFactory {
	return func(namespace string) storage.Store {
		return storage.Namespaced(shared, namespace)
	}
}

func (m *Manager) For(namespace string) *Service {
	opts := []Option{WithNamespace(namespace)}
	if m.bus != nil {
		opts = append(opts, WithBus(m.bus))
	}
	if m.observer != nil {
		opts = append(opts, WithObserver(m.observer))
	}
	return NewService(m.storeFor(namespace), opts...)
}
