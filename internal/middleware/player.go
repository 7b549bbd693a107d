package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// EnsurePlayerID requires a player identity on every request, taken from the
// X-Player-ID header or the playerId query parameter, and stores it in the
// request locals for the handlers downstream.
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
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		// Header and query values alias fasthttp's request buffer, which is
		// recycled after the request; the ID outlives the request in seats and
		// the matchmaking queue, so it must be copied out.
		c.Locals("playerID", utils.CopyString(playerID))
		return c.Next()
	}
}
