// handlers/notifications.go - Websocket push channel
package handlers

import (
	"wanderlust/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RequireWebSocketUpgrade gates the notification route to real upgrade
// requests. Auth middleware runs before this, so the connection is already
// tied to a user.
func RequireWebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// NotificationSocket holds the connection open and streams push events
// (achievement unlocks, challenge completions) to the client.
var NotificationSocket = websocket.New(func(conn *websocket.Conn) {
	userIDRaw := conn.Locals("userId")

	var userID uint
	switch v := userIDRaw.(type) {
	case float64:
		userID = uint(v)
	case uint:
		userID = v
	default:
		conn.Close()
		return
	}

	services.GetNotifier().Register(userID, conn)
})
