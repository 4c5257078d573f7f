package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/storyweave/storyweave/internal/models"
)

func TestCreateStory(t *testing.T) {
	db := initTestDB(t)
	h := &StoryHandler{DB: db}
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodPost, "/stories", map[string]string{"name": "The Long Night"})
	require.NoError(t, h.CreateStory(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var story models.Story
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &story))
	require.NotEmpty(t, story.ID)
	require.Equal(t, "The Long Night", story.Name)
}

func TestCreateStoryMissingName(t *testing.T) {
	h := &StoryHandler{DB: initTestDB(t)}
	e := echo.New()

	c, _ := newJSONContext(t, e, http.MethodPost, "/stories", map[string]string{})
	he := requireHTTPError(t, h.CreateStory(c), http.StatusBadRequest)
	require.Equal(t, "missing name parameter", he.Message)
}

func TestGetStories(t *testing.T) {
	db := initTestDB(t)
	h := &StoryHandler{DB: db}
	e := echo.New()

	c, _ := newJSONContext(t, e, http.MethodGet, "/stories", nil)
	requireHTTPError(t, h.GetStories(c), http.StatusNotFound)

	require.NoError(t, db.Create(&models.Story{Name: "One"}).Error)
	require.NoError(t, db.Create(&models.Story{Name: "Two"}).Error)

	c, rec := newJSONContext(t, e, http.MethodGet, "/stories", nil)
	require.NoError(t, h.GetStories(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Stories []models.Story `json:"stories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Stories, 2)
}

func TestGetStoryWithLines(t *testing.T) {
	db := initTestDB(t)
	h := &StoryHandler{DB: db}
	e := echo.New()

	user := createTestUser(t, db, "ada@example.com", "password", models.RoleUser)
	story := models.Story{Name: "A story"}
	require.NoError(t, db.Create(&story).Error)
	require.NoError(t, db.Create(&models.Line{Text: "first line", UserID: user.ID, StoryID: story.ID}).Error)

	c, rec := newJSONContext(t, e, http.MethodGet, "/stories/"+story.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(story.ID)
	require.NoError(t, h.GetStory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Story
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Lines, 1)
	require.Equal(t, "first line", got.Lines[0].Text)
}

func TestUpdateStory(t *testing.T) {
	db := initTestDB(t)
	h := &StoryHandler{DB: db}
	e := echo.New()

	story := models.Story{Name: "Old name"}
	require.NoError(t, db.Create(&story).Error)

	c, rec := newJSONContext(t, e, http.MethodPut, "/stories/"+story.ID, map[string]string{"name": "New name"})
	c.SetParamNames("id")
	c.SetParamValues(story.ID)
	require.NoError(t, h.UpdateStory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Story
	require.NoError(t, db.Where("id = ?", story.ID).First(&updated).Error)
	require.Equal(t, "New name", updated.Name)
}

func TestDeleteStoryWithLines(t *testing.T) {
	db := initTestDB(t)
	h := &StoryHandler{DB: db}
	e := echo.New()

	user := createTestUser(t, db, "ada@example.com", "password", models.RoleUser)
	story := models.Story{Name: "A story"}
	require.NoError(t, db.Create(&story).Error)
	require.NoError(t, db.Create(&models.Line{Text: "line", UserID: user.ID, StoryID: story.ID}).Error)

	c, _ := newJSONContext(t, e, http.MethodDelete, "/stories/"+story.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(story.ID)
	he := requireHTTPError(t, h.DeleteStory(c), http.StatusForbidden)
	require.Equal(t, "can't delete story that has lines", he.Message)
}

func TestDeleteStory(t *testing.T) {
	db := initTestDB(t)
	h := &StoryHandler{DB: db}
	e := echo.New()

	story := models.Story{Name: "A story"}
	require.NoError(t, db.Create(&story).Error)

	c, rec := newJSONContext(t, e, http.MethodDelete, "/stories/"+story.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(story.ID)
	require.NoError(t, h.DeleteStory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.Story{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestResetStory(t *testing.T) {
	db := initTestDB(t)
	h := &StoryHandler{DB: db}
	e := echo.New()

	user := createTestUser(t, db, "ada@example.com", "password", models.RoleUser)
	story := models.Story{Name: "A story"}
	require.NoError(t, db.Create(&story).Error)
	require.NoError(t, db.Create(&models.Line{Text: "one", UserID: user.ID, StoryID: story.ID}).Error)
	require.NoError(t, db.Create(&models.Line{Text: "two", UserID: user.ID, StoryID: story.ID}).Error)

	c, rec := newJSONContext(t, e, http.MethodDelete, "/stories/"+story.ID+"/lines", nil)
	c.SetParamNames("id")
	c.SetParamValues(story.ID)
	require.NoError(t, h.ResetStory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var lineCount int64
	require.NoError(t, db.Model(&models.Line{}).Where("story_id = ?", story.ID).Count(&lineCount).Error)
	require.Zero(t, lineCount)

	var kept models.Story
	require.NoError(t, db.Where("id = ?", story.ID).First(&kept).Error)
}
