package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicwatch/internal/domain"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func newTestClient(hub *Hub, userID uuid.UUID) *Client {
	return NewClient(hub, nil, userID)
}

func recvEvent(t *testing.T, c *Client) domain.Event {
	t.Helper()
	select {
	case event, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return domain.Event{}
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case event := <-c.send:
		t.Fatalf("unexpected event %q", event.Event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := startHub(t)

	a := newTestClient(hub, uuid.New())
	b := newTestClient(hub, uuid.New())
	hub.register(a)
	hub.register(b)

	hub.Broadcast(domain.Event{Event: domain.EventPostLiked})

	assert.Equal(t, domain.EventPostLiked, recvEvent(t, a).Event)
	assert.Equal(t, domain.EventPostLiked, recvEvent(t, b).Event)
}

func TestHub_SendToUserNeedsRoomJoin(t *testing.T) {
	hub := startHub(t)

	userID := uuid.New()
	joined := newTestClient(hub, userID)
	unjoined := newTestClient(hub, userID)
	stranger := newTestClient(hub, uuid.New())

	hub.register(joined)
	hub.register(unjoined)
	hub.register(stranger)
	hub.joinRoom(joined)

	hub.SendToUser(userID, domain.Event{Event: domain.EventNewNotification})

	assert.Equal(t, domain.EventNewNotification, recvEvent(t, joined).Event)
	assertNoEvent(t, unjoined)
	assertNoEvent(t, stranger)
}

func TestHub_BroadcastsStayOrdered(t *testing.T) {
	hub := startHub(t)

	c := newTestClient(hub, uuid.New())
	hub.register(c)

	hub.Broadcast(domain.Event{Event: "first"})
	hub.Broadcast(domain.Event{Event: "second"})
	hub.Broadcast(domain.Event{Event: "third"})

	assert.Equal(t, "first", recvEvent(t, c).Event)
	assert.Equal(t, "second", recvEvent(t, c).Event)
	assert.Equal(t, "third", recvEvent(t, c).Event)
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	hub := startHub(t)

	c := newTestClient(hub, uuid.New())
	hub.register(c)
	hub.unregister(c)

	select {
	case _, ok := <-c.send:
		assert.False(t, ok, "send channel should be closed after unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel not closed after unregister")
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := startHub(t)

	slow := newTestClient(hub, uuid.New())
	hub.register(slow)

	// One past the send buffer; the overflowing event forces the drop.
	for i := 0; i < sendBuffer+1; i++ {
		hub.Broadcast(domain.Event{Event: "flood"})
	}

	// Let the hub drain its broadcast queue before reading; draining
	// concurrently would keep the buffer from ever overflowing.
	for len(hub.broadcastCh) > 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	received := 0
	closed := false
	deadline := time.After(2 * time.Second)
	for !closed {
		select {
		case _, ok := <-slow.send:
			if !ok {
				closed = true
				break
			}
			received++
		case <-deadline:
			t.Fatal("slow client was never dropped")
		}
	}

	assert.Equal(t, sendBuffer, received)
}
