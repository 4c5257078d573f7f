package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is an ordered permission level: a route requiring role R is open to
// any caller whose role is >= R.
type Role int

const (
	RoleUser  Role = 0
	RoleAdmin Role = 1
)

type User struct {
	ID           string `gorm:"primaryKey"               json:"id"`
	FirstName    string `gorm:"not null"                 json:"firstName"`
	LastName     string `gorm:"not null"                 json:"lastName"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email"`
	Salt         string `gorm:"not null"                 json:"-"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         Role   `gorm:"not null;default:0"       json:"role"`
	Lines        []Line `gorm:"foreignKey:UserID"        json:"lines,omitempty"`
}

type Story struct {
	ID    string `gorm:"primaryKey"           json:"id"`
	Name  string `gorm:"not null"             json:"name"`
	Lines []Line `gorm:"foreignKey:StoryID"   json:"lines,omitempty"`
}

type Line struct {
	ID      string `gorm:"primaryKey"        json:"id"`
	Text    string `gorm:"not null"          json:"text"`
	UserID  string `gorm:"index;not null"    json:"userId"`
	StoryID string `gorm:"index;not null"    json:"storyId"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (s *Story) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (l *Line) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
