package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username   string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	FullName   string    `gorm:"size:255;not null" json:"fullName"`
	Password   string    `gorm:"not null" json:"-"`
	ProfileImg string    `gorm:"size:512" json:"profileImg"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
