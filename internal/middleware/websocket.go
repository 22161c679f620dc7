package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade rejects plain HTTP requests to the relay endpoint and
// pins the identifiers needed after the upgrade, since the connection
// context is not the upgrade context.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		roomID := c.Params("roomId")
		if roomID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "room ID is required",
			})
		}
		playerID := c.Locals("playerID")
		if playerID == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}

		c.Locals("wsRoomID", roomID)
		c.Locals("wsPlayerID", playerID)
		return c.Next()
	}
}
