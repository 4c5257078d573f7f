package directory

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storyweave/storyweave/internal/models"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Story{}, &models.Line{}))
	return db
}

func TestGetUser(t *testing.T) {
	db := initTestDB(t)
	dir := &GormDirectory{DB: db}

	user := models.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		Salt:         "salt",
		PasswordHash: "hash",
		Role:         models.RoleAdmin,
	}
	require.NoError(t, db.Create(&user).Error)

	found, err := dir.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, found.Email)
	require.Equal(t, models.RoleAdmin, found.Role)
}

func TestGetUserNotFound(t *testing.T) {
	dir := &GormDirectory{DB: initTestDB(t)}

	_, err := dir.GetUser(context.Background(), "missing-id")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserByEmail(t *testing.T) {
	db := initTestDB(t)
	dir := &GormDirectory{DB: db}

	user := models.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		Salt:         "salt",
		PasswordHash: "hash",
	}
	require.NoError(t, db.Create(&user).Error)

	found, err := dir.GetUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)

	_, err = dir.GetUserByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}
