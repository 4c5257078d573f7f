package handlers

import (
	"errors"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/storyweave/storyweave/internal/events"
	"github.com/storyweave/storyweave/internal/models"
	"github.com/storyweave/storyweave/internal/service/search"
	"github.com/storyweave/storyweave/internal/util"
)

type LineHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
	ES       *elasticsearch.Client
	Index    string
}

func (h *LineHandler) GetLines(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.WithContext(ctx).Model(&models.Line{}).Count(&total).Error; err != nil {
		return err
	}
	if total == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no lines found")
	}

	var lines []models.Line
	if err := h.DB.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&lines).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"lines": lines,
		"meta": echo.Map{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *LineHandler) GetLine(c echo.Context) error {
	var line models.Line
	err := h.DB.WithContext(c.Request().Context()).Where("id = ?", c.Param("id")).First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "unable to find line with id '"+c.Param("id")+"'")
		}
		return err
	}
	return c.JSON(http.StatusOK, line)
}

func (h *LineHandler) CreateLine(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Text    string `json:"text"`
		UserID  string `json:"userId"`
		StoryID string `json:"storyId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing text parameter")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing user parameter")
	}
	if req.StoryID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing story parameter")
	}

	var user models.User
	if err := h.DB.WithContext(ctx).Where("id = ?", req.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "some parameters are incorrect")
		}
		return err
	}
	var story models.Story
	if err := h.DB.WithContext(ctx).Where("id = ?", req.StoryID).First(&story).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "some parameters are incorrect")
		}
		return err
	}

	line := models.Line{Text: req.Text, UserID: req.UserID, StoryID: req.StoryID}
	if err := h.DB.WithContext(ctx).Create(&line).Error; err != nil {
		return err
	}

	if h.ES != nil {
		if err := search.IndexLine(ctx, h.ES, h.Index, line); err != nil {
			c.Logger().Errorf("ES index error: %v", err)
		}
	}

	event := map[string]any{
		"type":    "line_created",
		"lineID":  line.ID,
		"userID":  line.UserID,
		"storyID": line.StoryID,
	}
	if err := h.Producer.PublishEvent(ctx, "line_events", line.UserID, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}

	return c.JSON(http.StatusCreated, line)
}

func (h *LineHandler) UpdateLine(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var req struct {
		Text    string `json:"text"`
		UserID  string `json:"userId"`
		StoryID string `json:"storyId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Text == "" && req.UserID == "" && req.StoryID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing parameters to update")
	}

	var line models.Line
	if err := h.DB.WithContext(ctx).Where("id = ?", id).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "unable to find line with id '"+id+"'")
		}
		return err
	}

	if req.Text != "" {
		line.Text = req.Text
	}
	if req.UserID != "" {
		line.UserID = req.UserID
	}
	if req.StoryID != "" {
		line.StoryID = req.StoryID
	}

	if err := h.DB.WithContext(ctx).Save(&line).Error; err != nil {
		return err
	}

	if h.ES != nil {
		if err := search.IndexLine(ctx, h.ES, h.Index, line); err != nil {
			c.Logger().Errorf("ES index error: %v", err)
		}
	}

	return c.JSON(http.StatusOK, line)
}

func (h *LineHandler) DeleteLine(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var line models.Line
	if err := h.DB.WithContext(ctx).Where("id = ?", id).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "unable to find line with id '"+id+"'")
		}
		return err
	}

	if err := h.DB.WithContext(ctx).Delete(&line).Error; err != nil {
		return err
	}

	if h.ES != nil {
		if err := search.DeleteLine(ctx, h.ES, h.Index, id); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}

	return c.JSON(http.StatusOK, line)
}
