package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// StoreTimeout acota toda llamada al almacén hecha durante la petición: los
// handlers propagan c.UserContext() y pgx corta al vencer el plazo, lo que
// sube como falla de store en vez de colgar la petición.
func StoreTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
