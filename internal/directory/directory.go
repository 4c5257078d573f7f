// Package directory is the user-lookup collaborator of the auth pipeline.
package directory

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/storyweave/storyweave/internal/models"
)

// ErrNotFound is distinguishable from other lookup failures so callers can
// decide whether absence may be revealed to the client.
var ErrNotFound = errors.New("user not found")

type Directory interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type GormDirectory struct {
	DB *gorm.DB
}

func (d *GormDirectory) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := d.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (d *GormDirectory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := d.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
