// Package realtime is the WebSocket gateway: one hub per process owns every
// connected client, delivers global broadcasts (likes, comments) and
// room-targeted sends (private notifications), and bridges broadcasts across
// instances over redis pub/sub. The hub holds only ephemeral connection
// state; everything durable lives in Postgres, so a restart costs clients a
// reconnect, a re-fetch and a rejoin.
package realtime

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"civicwatch/internal/domain"
)

type directEvent struct {
	userID uuid.UUID
	event  domain.Event
}

type Hub struct {
	registerCh   chan *Client
	unregisterCh chan *Client
	joinCh       chan *Client
	broadcastCh  chan domain.Event
	directCh     chan directEvent

	clients map[*Client]struct{}
	rooms   map[uuid.UUID]map[*Client]struct{}

	bridge *bridge
}

// NewHub builds a hub. rdb may be nil for single-instance deployments; the
// bridge is then disabled and delivery stays process-local.
func NewHub(rdb *redis.Client) *Hub {
	h := &Hub{
		registerCh:   make(chan *Client),
		unregisterCh: make(chan *Client),
		joinCh:       make(chan *Client),
		broadcastCh:  make(chan domain.Event, 64),
		directCh:     make(chan directEvent, 64),
		clients:      make(map[*Client]struct{}),
		rooms:        make(map[uuid.UUID]map[*Client]struct{}),
	}
	if rdb != nil {
		h.bridge = newBridge(rdb, h)
	}
	return h
}

// Run owns the clients and rooms maps; all mutation happens on this
// goroutine, which also gives every connection a FIFO view of broadcasts.
func (h *Hub) Run(ctx context.Context) {
	if h.bridge != nil {
		go h.bridge.listen(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.registerCh:
			h.clients[client] = struct{}{}
			log.Printf("realtime: client connected (user %s, %d online)", client.userID, len(h.clients))

		case client := <-h.unregisterCh:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Printf("realtime: client disconnected (user %s, %d online)", client.userID, len(h.clients))
			}

		case client := <-h.joinCh:
			if _, ok := h.clients[client]; !ok {
				continue
			}
			room := h.rooms[client.userID]
			if room == nil {
				room = make(map[*Client]struct{})
				h.rooms[client.userID] = room
			}
			room[client] = struct{}{}

		case event := <-h.broadcastCh:
			for client := range h.clients {
				h.deliver(client, event)
			}

		case direct := <-h.directCh:
			for client := range h.rooms[direct.userID] {
				h.deliver(client, direct.event)
			}
		}
	}
}

// Broadcast fans an event out to every connected client, here and on every
// peer instance. Fire-and-forget: nobody waits for delivery.
func (h *Hub) Broadcast(event domain.Event) {
	if h.bridge != nil {
		h.bridge.publish(scopeGlobal, uuid.Nil, event)
	}
	h.broadcastCh <- event
}

// SendToUser delivers an event to the clients that joined the user's room.
// A user with no live session simply misses the push; they reconcile from
// the persisted notification list.
func (h *Hub) SendToUser(userID uuid.UUID, event domain.Event) {
	if h.bridge != nil {
		h.bridge.publish(scopeUser, userID, event)
	}
	h.directCh <- directEvent{userID: userID, event: event}
}

func (h *Hub) register(c *Client)   { h.registerCh <- c }
func (h *Hub) unregister(c *Client) { h.unregisterCh <- c }
func (h *Hub) joinRoom(c *Client)   { h.joinCh <- c }

// deliverLocal injects a bridged event without republishing it.
func (h *Hub) deliverLocal(scope string, userID uuid.UUID, event domain.Event) {
	if scope == scopeUser {
		h.directCh <- directEvent{userID: userID, event: event}
		return
	}
	h.broadcastCh <- event
}

func (h *Hub) deliver(client *Client, event domain.Event) {
	select {
	case client.send <- event:
	default:
		// Client cannot keep up; drop it rather than stall the loop.
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	if room, ok := h.rooms[client.userID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.userID)
		}
	}
	close(client.send)
}
