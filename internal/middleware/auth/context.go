package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/storyweave/storyweave/internal/tokens"
)

const identityKey = "auth.identity"

// SetIdentity stashes the verified token payload on the request context.
func SetIdentity(c echo.Context, p tokens.Payload) {
	c.Set(identityKey, p)
}

// Identity returns the payload attached by the auth gate. The second return
// is false when no gate ran on this request.
func Identity(c echo.Context) (tokens.Payload, bool) {
	p, ok := c.Get(identityKey).(tokens.Payload)
	return p, ok
}
