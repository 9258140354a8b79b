package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"backoffice-gateway/internal/event"
	"backoffice-gateway/internal/storage"
)

type LoadObserver interface {
	ObserveSessionLoad(status string)
}

// Service owns loading, saving and clearing the blob of one client namespace.
type Service struct {
	store     storage.Store
	namespace string
	bus       event.Bus
	observer  LoadObserver
}

type Option func(*Service)

func WithBus(bus event.Bus) Option {
	return func(s *Service) { s.bus = bus }
}

func WithObserver(observer LoadObserver) Option {
	return func(s *Service) { s.observer = observer }
}

func WithNamespace(namespace string) Option {
	return func(s *Service) { s.namespace = namespace }
}

func NewService(store storage.Store, opts ...Option) *Service {
	svc := &Service{store: store}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) Namespace() string {
	return s.namespace
}

// Load reads the blob once. Storage errors are logged and treated as absent.
func (s *Service) Load(ctx context.Context) Snapshot {
	raw, found, err := s.store.Get(ctx, BlobKey)
	if err != nil {
		slog.Warn("failed to read session blob; treating as logged out", "namespace", s.namespace, "error", err)
		raw, found = "", false
	}

	snap := Parse(raw, found)
	if s.observer != nil {
		s.observer.ObserveSessionLoad(string(snap.Status()))
	}
	return snap
}

func (s *Service) Save(ctx context.Context, blob Blob) error {
	if blob.Roles == nil {
		blob.Roles = []Role{}
	}
	if blob.Abilities == nil {
		blob.Abilities = []Rule{}
	}

	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encode session blob: %w", err)
	}

	if err := s.store.Set(ctx, BlobKey, string(data)); err != nil {
		return fmt.Errorf("save session blob: %w", err)
	}

	actorID := ""
	if blob.UserData != nil {
		actorID = blob.UserData.UserID
	}
	s.publish(event.TypeSessionSaved, actorID)
	return nil
}

// UpdateCredentials rewrites only the credentials of a stored blob, leaving
// every other field as stored.
func (s *Service) UpdateCredentials(ctx context.Context, credentials Credentials) error {
	raw, found, err := s.store.Get(ctx, BlobKey)
	if err != nil {
		return fmt.Errorf("read session blob: %w", err)
	}
	if !found {
		return ErrNoSession
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return ErrMalformedSession
	}

	encoded, err := json.Marshal(credentials)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	fields["credentials"] = encoded

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode session blob: %w", err)
	}
	if err := s.store.Set(ctx, BlobKey, string(data)); err != nil {
		return fmt.Errorf("save session blob: %w", err)
	}

	actorID, _ := Parse(string(data), true).CurrentUserID()
	s.publish(event.TypeSessionSaved, actorID)
	return nil
}

// Clear removes the blob and the sibling stores as one logout.
func (s *Service) Clear(ctx context.Context) error {
	actorID, _ := s.Load(ctx).CurrentUserID()

	if err := s.store.Remove(ctx, ClearedKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.publish(event.TypeSessionCleared, actorID)
	return nil
}

func (s *Service) IsLoggedIn(ctx context.Context) bool {
	return s.Load(ctx).IsLoggedIn()
}

func (s *Service) AccessToken(ctx context.Context) (string, bool) {
	return s.Load(ctx).AccessToken()
}

func (s *Service) RefreshToken(ctx context.Context) (string, bool) {
	return s.Load(ctx).RefreshToken()
}

func (s *Service) CurrentUserID(ctx context.Context) (string, bool) {
	return s.Load(ctx).CurrentUserID()
}

func (s *Service) CurrentUser(ctx context.Context) (UserProfile, bool) {
	return s.Load(ctx).CurrentUser()
}

func (s *Service) Roles(ctx context.Context) ([]Role, bool) {
	return s.Load(ctx).Roles()
}

func (s *Service) AbilityRules(ctx context.Context) []Rule {
	return s.Load(ctx).AbilityRules()
}

func (s *Service) publish(eventType event.Type, actorID string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.New(eventType, s.namespace, actorID, map[string]any{"namespace": s.namespace}))
}
