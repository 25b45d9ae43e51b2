package session

import "github.com/gofiber/fiber/v2"

const localsKey = "portal_session"

// StoreInContext attaches the session to the request locals.
func StoreInContext(c *fiber.Ctx, sess *Session) {
	c.Locals(localsKey, sess)
}

// FromContext retrieves the authenticated session, if any.
func FromContext(c *fiber.Ctx) (*Session, bool) {
	val := c.Locals(localsKey)
	if val == nil {
		return nil, false
	}
	sess, ok := val.(*Session)
	return sess, ok
}
