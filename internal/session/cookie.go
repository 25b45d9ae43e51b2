package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Cookie helpers for the auth token. The cookie is the single persisted
// credential: path "/", fixed TTL, no server-side invalidation on logout
// (the API issues stateless bearer tokens).

// ReadToken returns the token cookie value, or "" when absent.
func ReadToken(c *fiber.Ctx, name string) string {
	return c.Cookies(name)
}

// WriteToken stores the token with the configured expiry.
func WriteToken(c *fiber.Ctx, name, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearToken expires the token cookie immediately.
func ClearToken(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
