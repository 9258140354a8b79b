package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBusDeliversToEverySubscriber(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	first, unsubFirst := bus.Subscribe()
	second, unsubSecond := bus.Subscribe()
	defer unsubFirst()
	defer unsubSecond()

	bus.Publish(New(TypeSessionCleared, "ns-1", "u1", nil))

	for _, ch := range []<-chan Event{first, second} {
		select {
		case got := <-ch:
			require.Equal(t, TypeSessionCleared, got.Type)
			require.Equal(t, "ns-1", got.Namespace)
			require.NotEmpty(t, got.ID)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()
	unsubscribe()
	unsubscribe()

	_, open := <-ch
	require.False(t, open)

	bus.Publish(New(TypeSessionSaved, "ns-1", "", nil))
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for i := 0; i < subscriberBuffer+10; i++ {
		bus.Publish(New(TypeSessionSaved, "ns-1", "", nil))
	}
	require.Len(t, ch, subscriberBuffer)
}

func TestBusCloseEndsSubscriptions(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()
	bus.Close()
	unsubscribe()
	bus.Close()

	_, open := <-ch
	require.False(t, open)

	late, _ := bus.Subscribe()
	_, open = <-late
	require.False(t, open)

	bus.Publish(New(TypeSessionSaved, "ns-1", "", nil))
}
