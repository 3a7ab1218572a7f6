package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is one edge of the social graph: FollowerID follows FolloweeID.
type Follow struct {
	FollowerID uuid.UUID `gorm:"type:uuid;primary_key"`
	FolloweeID uuid.UUID `gorm:"type:uuid;primary_key;index"`

	CreatedAt time.Time
}
