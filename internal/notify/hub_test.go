package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToGameListeners(t *testing.T) {
	hub := NewHub()
	first, cancelFirst := hub.Subscribe(1)
	defer cancelFirst()
	other, cancelOther := hub.Subscribe(2)
	defer cancelOther()

	hub.Notify(1, "tasks")

	select {
	case msg := <-first:
		assert.Equal(t, "changed", msg.Type)
		assert.Equal(t, "tasks", msg.Payload["kind"])
		assert.Equal(t, int64(1), msg.Payload["game_id"])
	default:
		t.Fatal("expected a message")
	}
	assert.Empty(t, other)
}

func TestHubCancelAndClose(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(1)
	require.Equal(t, 1, hub.Subscribers(1))

	cancel()
	cancel()
	assert.Equal(t, 0, hub.Subscribers(1))
	_, open := <-ch
	assert.False(t, open)

	ch, cancel = hub.Subscribe(1)
	hub.Close()
	_, open = <-ch
	assert.False(t, open)
	cancel()

	late, _ := hub.Subscribe(1)
	_, open = <-late
	assert.False(t, open)
}

func TestHubDropsWhenListenerIsFull(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(1)
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Notify(1, "currencies")
	}
	assert.Len(t, ch, subscriberBuffer)
}
