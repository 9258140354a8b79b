package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeSessionSaved   Type = "session.saved"
	TypeSessionCleared Type = "session.cleared"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Namespace string `json:"-"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
	ActorID   string `json:"actor_id,omitempty"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}

func New(eventType Type, namespace string, actorID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Namespace: namespace,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		ActorID:   actorID,
	}
}
