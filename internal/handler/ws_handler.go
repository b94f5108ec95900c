package handler

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"civicwatch/internal/middleware"
	"civicwatch/internal/realtime"
	"civicwatch/internal/service/auth"
)

// WSHandler upgrades authenticated clients onto the realtime hub. Browsers
// cannot set headers on a WebSocket handshake, so the access token rides in
// the "token" query parameter.
type WSHandler struct {
	hub         *realtime.Hub
	authService auth.Service
}

func NewWSHandler(hub *realtime.Hub, authService auth.Service) *WSHandler {
	return &WSHandler{
		hub:         hub,
		authService: authService,
	}
}

// Upgrade authenticates the request and stashes the user id before the
// protocol switch; it must run as middleware ahead of Serve.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		return middleware.Unauthorized("Missing token")
	}

	claims, err := h.authService.ValidateAccessToken(token)
	if err != nil {
		return middleware.Unauthorized("Invalid or expired token")
	}

	c.Locals(middleware.UserIDContextKey, claims.UserID)
	return c.Next()
}

func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals(middleware.UserIDContextKey).(uuid.UUID)
		if !ok {
			conn.Close()
			return
		}
		realtime.NewClient(h.hub, conn, userID).Serve()
	})
}
