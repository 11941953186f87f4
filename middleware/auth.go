// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"nofap-ai/services"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the cookie the session token travels in.
const SessionCookie = "nofap_session"

// SessionAuthMiddleware resolves the session token (cookie first, then
// Authorization: Bearer for non-browser clients) and attaches the user id
// to the request context. Everything behind it can trust c.Locals("user_id").
func SessionAuthMiddleware(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			authHeader := c.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		session, err := authService.SessionByToken(token)
		if err != nil {
			log.Printf("🚫 [AUTH] Unauthorized request to %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		c.Locals("user_id", session.UserID)
		c.Locals("session_token", token)
		return c.Next()
	}
}

// UserID pulls the authenticated user id set by SessionAuthMiddleware.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
