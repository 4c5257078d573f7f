package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storyweave/storyweave/internal/directory"
	"github.com/storyweave/storyweave/internal/models"
)

type RoleGate struct {
	Users directory.Directory
}

// RequireRole loads the caller's user record and checks it against the
// minimum role the route declares. A token that points at a missing user
// fails as unauthorized, not as 404, so presented tokens can't be used to
// probe which user ids exist.
func (g *RoleGate) RequireRole(required models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			payload, ok := Identity(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token")
			}

			if !payload.IsValid {
				return echo.NewHTTPError(http.StatusUnauthorized, "token is invalid")
			}

			if payload.UserID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no user id")
			}

			user, err := g.Users.GetUser(c.Request().Context(), payload.UserID)
			if err != nil {
				if errors.Is(err, directory.ErrNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "user is invalid")
				}
				return err
			}

			if required > user.Role {
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("user is not allowed to access '%s'", c.Request().URL.Path))
			}

			return next(c)
		}
	}
}
