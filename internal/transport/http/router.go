package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"github.com/storyweave/storyweave/internal/handlers"
	"github.com/storyweave/storyweave/internal/middleware/auth"
	"github.com/storyweave/storyweave/internal/models"
)

type Deps struct {
	AuthHandler   *handlers.AuthHandler
	UserHandler   *handlers.UserHandler
	StoryHandler  *handlers.StoryHandler
	LineHandler   *handlers.LineHandler
	SearchHandler *handlers.SearchHandler
	Gate          *auth.Gate
	RoleGate      *auth.RoleGate
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler
	e.Use(ecM.Recover(), ecM.RequestID(), ecM.Logger(), ecM.Secure())

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/users", d.UserHandler.CreateUser)

	authed := v1.Group("", d.Gate.RequireAuth)
	asUser := d.RoleGate.RequireRole(models.RoleUser)
	asAdmin := d.RoleGate.RequireRole(models.RoleAdmin)

	users := authed.Group("/users")
	users.GET("", d.UserHandler.GetUsers, asAdmin)
	users.GET("/:id", d.UserHandler.GetUser, asUser)
	users.GET("/:id/lines", d.UserHandler.GetUserLines, asUser)
	users.PUT("/:id", d.UserHandler.UpdateUser, asAdmin)
	users.DELETE("/:id", d.UserHandler.DeleteUser, asAdmin)

	stories := authed.Group("/stories", asUser)
	stories.GET("", d.StoryHandler.GetStories)
	stories.GET("/:id", d.StoryHandler.GetStory)
	stories.POST("", d.StoryHandler.CreateStory)
	stories.PUT("/:id", d.StoryHandler.UpdateStory)
	stories.DELETE("/:id", d.StoryHandler.DeleteStory, asAdmin)
	stories.DELETE("/:id/lines", d.StoryHandler.ResetStory)

	lines := authed.Group("/lines", asUser)
	lines.GET("", d.LineHandler.GetLines)
	lines.GET("/:id", d.LineHandler.GetLine)
	lines.POST("", d.LineHandler.CreateLine)
	lines.PUT("/:id", d.LineHandler.UpdateLine)
	lines.DELETE("/:id", d.LineHandler.DeleteLine)

	authed.GET("/search", d.SearchHandler.Search, asUser)
}
