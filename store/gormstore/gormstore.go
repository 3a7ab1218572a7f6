package gormstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anjiri1684/social_messages/models"
	"github.com/anjiri1684/social_messages/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store implements store.Store on a relational database through GORM.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return store.ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *Store) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) FindUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) SocialNeighbors(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var follows []models.Follow
	err := s.db.WithContext(ctx).
		Where("follower_id = ? OR followee_id = ?", id, id).
		Order("created_at asc").
		Find(&follows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(follows))
	for _, f := range follows {
		if f.FollowerID == id {
			ids = append(ids, f.FolloweeID)
		} else {
			ids = append(ids, f.FollowerID)
		}
	}
	return ids, nil
}

func (s *Store) FollowingIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return s.followEdges(ctx, id, "follower_id", func(f models.Follow) uuid.UUID { return f.FolloweeID })
}

func (s *Store) FollowerIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return s.followEdges(ctx, id, "followee_id", func(f models.Follow) uuid.UUID { return f.FollowerID })
}

func (s *Store) followEdges(ctx context.Context, id uuid.UUID, column string, other func(models.Follow) uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.FindUserByID(ctx, id); err != nil {
		return nil, err
	}

	var follows []models.Follow
	err := s.db.WithContext(ctx).
		Where(column+" = ?", id).
		Order("created_at asc").
		Find(&follows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, other(f))
	}
	return ids, nil
}

func (s *Store) SearchUsers(ctx context.Context, exclude uuid.UUID, query string, limit int) ([]models.User, error) {
	tx := s.db.WithContext(ctx).Where("id <> ?", exclude).Limit(limit)

	query = strings.TrimSpace(query)
	if query == "" {
		// RANDOM() exists in both postgres and sqlite.
		tx = tx.Order("RANDOM()")
	} else {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
		tx = tx.Where("(LOWER(username) LIKE ? ESCAPE '\\' OR LOWER(full_name) LIKE ? ESCAPE '\\')", pattern, pattern).
			Order("username asc")
	}

	var users []models.User
	if err := tx.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (s *Store) CreateMessage(ctx context.Context, msg *models.Message) error {
	// SQLite compares timestamps as text, so every stored instant must share one zone.
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	msg.CreatedAt = msg.CreatedAt.UTC()
	return s.db.WithContext(ctx).Create(msg).Error
}

func (s *Store) MessagesInvolving(ctx context.Context, id uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Select("id", "from_id", "to_id", "created_at").
		Where("from_id = ? OR to_id = ?", id, id).
		Order("created_at asc").
		Order("id asc").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *Store) MessagesBetween(ctx context.Context, a, b uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("(from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?)", a, b, b, a).
		Order("created_at asc").
		Order("id asc").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *Store) MarkRead(ctx context.Context, from, to uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("from_id = ? AND to_id = ? AND is_read = ?", from, to, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (s *Store) CountUnreadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("is_read = ? AND created_at < ?", false, cutoff.UTC()).
		Count(&count).Error
	return count, err
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}
