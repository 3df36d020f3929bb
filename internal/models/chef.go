package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Chef struct {
	ID                uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	Name              string         `gorm:"size:50;not null" json:"name"`
	Email             string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string         `gorm:"not null" json:"-"`
	ProfilePicture    string         `gorm:"size:255" json:"profilePicture,omitempty"`
	ProfilePictureKey string         `gorm:"size:255" json:"profilePictureKey,omitempty"`
	Bio               string         `gorm:"type:text" json:"bio,omitempty"`
	IsVerified        bool           `gorm:"not null;default:false" json:"isVerified"`
}

func (c *Chef) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
