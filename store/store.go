// Package store defines the persistence capability the messaging pipeline
// depends on. Implementations live in the gormstore and mongostore packages.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/social_messages/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	// SocialNeighbors returns the ids of the user's followers and followings.
	// An id present in both sets may be returned twice.
	SocialNeighbors(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	// FollowingIDs and FollowerIDs return one side of the social graph, oldest edge first.
	FollowingIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	FollowerIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	// SearchUsers matches query against username or full name, case-insensitively,
	// excluding the caller. An empty query returns a random sample.
	SearchUsers(ctx context.Context, exclude uuid.UUID, query string, limit int) ([]models.User, error)

	// Messages
	CreateMessage(ctx context.Context, msg *models.Message) error
	// MessagesInvolving returns every message where id is the sender or the recipient.
	MessagesInvolving(ctx context.Context, id uuid.UUID) ([]models.Message, error)
	// MessagesBetween returns both directions of a conversation, oldest first.
	// Messages sharing a timestamp are ordered by id.
	MessagesBetween(ctx context.Context, a, b uuid.UUID) ([]models.Message, error)
	// MarkRead flips isRead for every unread message from -> to and reports how many changed.
	MarkRead(ctx context.Context, from, to uuid.UUID) (int64, error)
	// CountUnreadBefore counts unread messages created before the cutoff.
	CountUnreadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
