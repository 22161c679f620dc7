package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// EnsurePlayerID resolves the caller's player identity from the X-Player-ID
// header or the playerId query parameter, minting a fresh uuid when neither
// is present (first contact from a new client).
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("playerID") != nil {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}
		if playerID == "" {
			playerID = uuid.New().String()
		}

		c.Locals("playerID", playerID)
		return c.Next()
	}
}
