package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storyweave/storyweave/internal/tokens"
)

const bearerScheme = "Bearer"

type Gate struct {
	Codec *tokens.Codec
}

// RequireAuth validates the bearer token and, when it checks out, attaches
// the identity to the context and renews the token on the response header.
// Renewal happens on every successful pass, which gives a sliding 1 hour
// window with no server-side session state.
func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "no authorization header")
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 {
			return echo.NewHTTPError(http.StatusUnauthorized, "authorization header should be 'Bearer' and the JWT Token")
		}

		if parts[0] != bearerScheme {
			return echo.NewHTTPError(http.StatusUnauthorized, "only Bearer auth is supported")
		}

		payload := g.Codec.Verify(parts[1])
		if !payload.IsValid {
			return echo.NewHTTPError(http.StatusUnauthorized, "token is invalid")
		}

		SetIdentity(c, payload)

		renewed, err := g.Codec.Sign(payload)
		if err != nil {
			return err
		}
		c.Response().Header().Set(echo.HeaderAuthorization, bearerScheme+" "+renewed)

		return next(c)
	}
}
