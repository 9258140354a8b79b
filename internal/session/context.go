package session

import "context"

type contextKey string

const (
	snapshotContextKey contextKey = "session_snapshot"
	serviceContextKey  contextKey = "session_service"
)

func WithSnapshot(ctx context.Context, snap Snapshot) context.Context {
	return context.WithValue(ctx, snapshotContextKey, snap)
}

// FromContext returns the snapshot injected for the current request. Without
// one, callers get an absent snapshot and ok=false.
func FromContext(ctx context.Context) (Snapshot, bool) {
	snap, ok := ctx.Value(snapshotContextKey).(Snapshot)
	if !ok {
		return Snapshot{status: StatusAbsent}, false
	}
	return snap, true
}

func WithService(ctx context.Context, svc *Service) context.Context {
	return context.WithValue(ctx, serviceContextKey, svc)
}

func ServiceFromContext(ctx context.Context) (*Service, bool) {
	svc, ok := ctx.Value(serviceContextKey).(*Service)
	return svc, ok && svc != nil
}
