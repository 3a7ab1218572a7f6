package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anjiri1684/social_messages/models"
	"github.com/anjiri1684/social_messages/store"
	"github.com/google/uuid"
)

type UserSummary struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	FullName   string    `json:"fullName"`
	ProfileImg string    `json:"profileImg"`
}

type PartnerSummary struct {
	UserID     uuid.UUID `json:"userId"`
	FullName   string    `json:"fullName"`
	Username   string    `json:"username"`
	ProfileImg string    `json:"profileImg"`
}

func summarize(u *models.User) UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, ProfileImg: u.ProfileImg}
}

func partnerOf(u *models.User) PartnerSummary {
	return PartnerSummary{UserID: u.ID, FullName: u.FullName, Username: u.Username, ProfileImg: u.ProfileImg}
}

// Resolve looks a user up by username, falling back to the internal id when
// the handle is a UUID that matches no username.
func (m *Messenger) Resolve(ctx context.Context, handle string) (*models.User, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, ErrUserNotFound
	}

	user, err := m.store.FindUserByUsername(ctx, handle)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, upstream("find user "+handle, err)
	}

	id, parseErr := uuid.Parse(handle)
	if parseErr != nil {
		return nil, fmt.Errorf("%q: %w", handle, ErrUserNotFound)
	}
	return m.ResolveID(ctx, id)
}

func (m *Messenger) ResolveID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := m.store.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", id, ErrUserNotFound)
		}
		return nil, upstream("find user "+id.String(), err)
	}
	return user, nil
}

// Profile exposes the resolver as the public user summary.
func (m *Messenger) Profile(ctx context.Context, handle string) (UserSummary, error) {
	user, err := m.Resolve(ctx, handle)
	if err != nil {
		return UserSummary{}, err
	}
	return summarize(user), nil
}
