package realtime

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"civicwatch/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	sendBuffer = 16
)

// Client is one WebSocket session. userID comes from the token verified at
// upgrade time; it is the only identity a join_room request is checked
// against.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID
	send   chan domain.Event
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan domain.Event, sendBuffer),
	}
}

// Serve registers the client and pumps until the connection dies. It must be
// called from the websocket handler goroutine; the read pump runs on it.
func (c *Client) Serve() {
	c.hub.register(c)
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("realtime: read error for user %s: %v", c.userID, err)
			}
			break
		}

		var event domain.Event
		if err := json.Unmarshal(message, &event); err != nil {
			log.Printf("realtime: bad frame from user %s: %v", c.userID, err)
			continue
		}

		if event.Event == domain.EventJoinRoom {
			c.handleJoin(event.Data)
		}
	}
}

// handleJoin only honors a join for the connection's own user id. Joining an
// arbitrary room would let any client read another user's private
// notifications.
func (c *Client) handleJoin(data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	var join domain.JoinRoomData
	if err := json.Unmarshal(raw, &join); err != nil {
		log.Printf("realtime: malformed join_room from user %s", c.userID)
		return
	}
	if join.UserID != c.userID {
		log.Printf("realtime: user %s rejected joining room %s", c.userID, join.UserID)
		return
	}
	c.hub.joinRoom(c)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.writeEvent(event); err != nil {
				return
			}

			// Drain whatever queued up behind this event.
			n := len(c.send)
			for i := 0; i < n; i++ {
				if err := c.writeEvent(<-c.send); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) writeEvent(event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("realtime: encode error for user %s: %v", c.userID, err)
		return nil
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
