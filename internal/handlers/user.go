package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/storyweave/storyweave/internal/events"
	"github.com/storyweave/storyweave/internal/hash"
	"github.com/storyweave/storyweave/internal/models"
)

type UserHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

func (h *UserHandler) GetUsers(c echo.Context) error {
	var users []models.User
	if err := h.DB.WithContext(c.Request().Context()).Find(&users).Error; err != nil {
		return err
	}
	if len(users) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no users found")
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

func (h *UserHandler) GetUser(c echo.Context) error {
	var user models.User
	err := h.DB.WithContext(c.Request().Context()).
		Preload("Lines").
		Where("id = ?", c.Param("id")).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "unable to find user with id '"+c.Param("id")+"'")
		}
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetUserLines(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var user models.User
	if err := h.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "unable to find user with id '"+id+"'")
		}
		return err
	}

	var lines []models.Line
	if err := h.DB.WithContext(ctx).Where("user_id = ?", id).Find(&lines).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no lines for user with id '"+id+"'")
	}
	return c.JSON(http.StatusOK, echo.Map{"lines": lines})
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.FirstName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing firstName parameter")
	}
	if req.LastName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing lastName parameter")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing email parameter")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "illegal email '"+req.Email+"'")
	}
	if req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing password parameter")
	}

	var existing models.User
	err := h.DB.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "user with that email already exist")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	pwHash, salt, err := hash.CreateCredential(req.Password)
	if err != nil {
		return err
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Salt:         salt,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := h.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return echo.NewHTTPError(http.StatusConflict, "user with that email already exist")
		}
		return err
	}

	event := map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	}
	if err := h.Producer.PublishEvent(ctx, "user_events", user.ID, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.FirstName == "" && req.LastName == "" && req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no parameters to update")
	}

	var user models.User
	if err := h.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "unable to find user with id '"+id+"'")
		}
		return err
	}

	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "illegal email '"+req.Email+"'")
		}
		var other models.User
		err := h.DB.WithContext(ctx).Where("email = ? AND id <> ?", req.Email, id).First(&other).Error
		if err == nil {
			return echo.NewHTTPError(http.StatusConflict, "user with that email already exist")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user.Email = req.Email
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}

	if err := h.DB.WithContext(ctx).Save(&user).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var user models.User
	if err := h.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "unable to find user with id '"+id+"'")
		}
		return err
	}

	var lineCount int64
	if err := h.DB.WithContext(ctx).Model(&models.Line{}).Where("user_id = ?", id).Count(&lineCount).Error; err != nil {
		return err
	}
	if lineCount > 0 {
		return echo.NewHTTPError(http.StatusForbidden, "can't delete user that has lines")
	}

	if err := h.DB.WithContext(ctx).Delete(&user).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
