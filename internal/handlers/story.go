package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/storyweave/storyweave/internal/events"
	"github.com/storyweave/storyweave/internal/models"
)

type StoryHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

func (h *StoryHandler) GetStories(c echo.Context) error {
	var stories []models.Story
	if err := h.DB.WithContext(c.Request().Context()).Find(&stories).Error; err != nil {
		return err
	}
	if len(stories) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no stories found")
	}
	return c.JSON(http.StatusOK, echo.Map{"stories": stories})
}

func (h *StoryHandler) GetStory(c echo.Context) error {
	var story models.Story
	err := h.DB.WithContext(c.Request().Context()).
		Preload("Lines").
		Where("id = ?", c.Param("id")).
		First(&story).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "unable to find story with id '"+c.Param("id")+"'")
		}
		return err
	}
	return c.JSON(http.StatusOK, story)
}

func (h *StoryHandler) CreateStory(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing name parameter")
	}

	story := models.Story{Name: req.Name}
	if err := h.DB.WithContext(ctx).Create(&story).Error; err != nil {
		return err
	}

	event := map[string]any{
		"type":    "story_created",
		"storyID": story.ID,
		"name":    story.Name,
	}
	if err := h.Producer.PublishEvent(ctx, "story_events", story.ID, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}

	return c.JSON(http.StatusCreated, story)
}

func (h *StoryHandler) UpdateStory(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing name parameter")
	}

	var story models.Story
	if err := h.DB.WithContext(ctx).Where("id = ?", id).First(&story).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "unable to find story with id '"+id+"'")
		}
		return err
	}

	story.Name = req.Name
	if err := h.DB.WithContext(ctx).Save(&story).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, story)
}

func (h *StoryHandler) DeleteStory(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var story models.Story
	if err := h.DB.WithContext(ctx).Where("id = ?", id).First(&story).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "unable to find story with id '"+id+"'")
		}
		return err
	}

	var lineCount int64
	if err := h.DB.WithContext(ctx).Model(&models.Line{}).Where("story_id = ?", id).Count(&lineCount).Error; err != nil {
		return err
	}
	if lineCount > 0 {
		return echo.NewHTTPError(http.StatusForbidden, "can't delete story that has lines")
	}

	if err := h.DB.WithContext(ctx).Delete(&story).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, story)
}

// ResetStory drops every line of a story but keeps the story itself.
func (h *StoryHandler) ResetStory(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var story models.Story
	if err := h.DB.WithContext(ctx).Where("id = ?", id).First(&story).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "unable to find story with id '"+id+"'")
		}
		return err
	}

	if err := h.DB.WithContext(ctx).Where("story_id = ?", id).Delete(&models.Line{}).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, story)
}
