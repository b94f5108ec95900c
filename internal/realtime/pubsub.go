package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"civicwatch/internal/domain"
)

const broadcastChannel = "civicwatch:events"

const (
	scopeGlobal = "global"
	scopeUser   = "user"
)

// envelope wraps an event on the redis wire. Instance lets a subscriber
// skip events it published itself, since those were already delivered
// locally.
type envelope struct {
	Instance string       `json:"instance"`
	Scope    string       `json:"scope"`
	UserID   uuid.UUID    `json:"user_id,omitempty"`
	Event    domain.Event `json:"event"`
}

type bridge struct {
	rdb        *redis.Client
	hub        *Hub
	instanceID string
}

func newBridge(rdb *redis.Client, hub *Hub) *bridge {
	return &bridge{
		rdb:        rdb,
		hub:        hub,
		instanceID: uuid.NewString(),
	}
}

func (b *bridge) publish(scope string, userID uuid.UUID, event domain.Event) {
	payload, err := json.Marshal(envelope{
		Instance: b.instanceID,
		Scope:    scope,
		UserID:   userID,
		Event:    event,
	})
	if err != nil {
		log.Printf("realtime: envelope encode error: %v", err)
		return
	}
	// Best effort: a failed publish only costs remote instances this event.
	if err := b.rdb.Publish(context.Background(), broadcastChannel, payload).Err(); err != nil {
		log.Printf("realtime: publish error: %v", err)
	}
}

func (b *bridge) listen(ctx context.Context) {
	pubsub := b.rdb.Subscribe(ctx, broadcastChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("realtime: envelope decode error: %v", err)
				continue
			}
			if env.Instance == b.instanceID {
				continue
			}
			b.hub.deliverLocal(env.Scope, env.UserID, env.Event)
		}
	}
}
