package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storyweave/storyweave/internal/directory"
	"github.com/storyweave/storyweave/internal/events"
	"github.com/storyweave/storyweave/internal/hash"
	"github.com/storyweave/storyweave/internal/logging"
	"github.com/storyweave/storyweave/internal/tokens"
)

// loginFailed is the single message for every login failure. Which sub-step
// failed (missing field, unknown email, wrong password) must not be
// distinguishable from outside, so registered emails can't be enumerated.
const loginFailed = "incorrect email or password"

type AuthHandler struct {
	Users    directory.Directory
	Codec    *tokens.Codec
	Producer *events.Producer
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 401, "reason", "invalid body")
		return echo.NewHTTPError(http.StatusUnauthorized, loginFailed)
	}

	if req.Email == "" || req.Password == "" {
		l.Warn("login_failed", "status", 401, "reason", "missing credentials")
		return echo.NewHTTPError(http.StatusUnauthorized, loginFailed)
	}

	user, err := h.Users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		l.Warn("login_failed", "status", 401, "reason", "lookup failed")
		return echo.NewHTTPError(http.StatusUnauthorized, loginFailed)
	}

	ok, err := hash.Verify(req.Password, user.Salt, user.PasswordHash)
	if err != nil || !ok {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return echo.NewHTTPError(http.StatusUnauthorized, loginFailed)
	}

	token, err := h.Codec.Sign(tokens.Payload{
		UserID:  user.ID,
		Email:   user.Email,
		IsValid: true,
	})
	if err != nil {
		l.Warn("login_failed", "status", 401, "reason", "sign failed")
		return echo.NewHTTPError(http.StatusUnauthorized, loginFailed)
	}

	event := map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	}
	if err := h.Producer.PublishEvent(ctx, "user_events", user.ID, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}

	l.Info("login_successful", "userID", user.ID)
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}
