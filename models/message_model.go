package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FromID    uuid.UUID `gorm:"type:uuid;not null;index" json:"from"`
	ToID      uuid.UUID `gorm:"type:uuid;not null;index" json:"to"`
	Text      string    `gorm:"type:text" json:"text"`
	Image     *string   `gorm:"size:512" json:"image"`
	IsRead    bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Counterpart returns the endpoint of the message that is not self.
func (m *Message) Counterpart(self uuid.UUID) uuid.UUID {
	if m.FromID == self {
		return m.ToID
	}
	return m.FromID
}
