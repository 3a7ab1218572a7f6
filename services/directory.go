package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anjiri1684/social_messages/models"
	"github.com/anjiri1684/social_messages/store"
	"github.com/google/uuid"
)

const SearchLimit = 5

// DirectoryEntry is a user card in search results and follow lists. IsFollower
// reports whether the caller follows that user.
type DirectoryEntry struct {
	UserSummary
	IsFollower bool `json:"isFollower"`
}

// Me returns the summary of the session's own user.
func (m *Messenger) Me(ctx context.Context, selfID uuid.UUID) (UserSummary, error) {
	user, err := m.ResolveID(ctx, selfID)
	if err != nil {
		return UserSummary{}, err
	}
	return summarize(user), nil
}

// SearchUsers finds people to start a conversation with. An empty query
// returns a random sample.
func (m *Messenger) SearchUsers(ctx context.Context, selfID uuid.UUID, query string) ([]DirectoryEntry, error) {
	users, err := m.store.SearchUsers(ctx, selfID, query, SearchLimit)
	if err != nil {
		return nil, upstream("search users", err)
	}
	following, err := m.followingSet(ctx, selfID)
	if err != nil {
		return nil, err
	}

	entries := make([]DirectoryEntry, 0, len(users))
	for i := range users {
		entries = append(entries, directoryEntry(&users[i], following))
	}
	return entries, nil
}

// Following lists the users handle follows.
func (m *Messenger) Following(ctx context.Context, selfID uuid.UUID, handle string) ([]DirectoryEntry, error) {
	return m.followList(ctx, selfID, handle, m.store.FollowingIDs)
}

// Followers lists the users following handle.
func (m *Messenger) Followers(ctx context.Context, selfID uuid.UUID, handle string) ([]DirectoryEntry, error) {
	return m.followList(ctx, selfID, handle, m.store.FollowerIDs)
}

func (m *Messenger) followList(ctx context.Context, selfID uuid.UUID, handle string, edges func(context.Context, uuid.UUID) ([]uuid.UUID, error)) ([]DirectoryEntry, error) {
	target, err := m.Resolve(ctx, handle)
	if err != nil {
		return nil, err
	}

	ids, err := edges(ctx, target.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", target.ID, ErrUserNotFound)
		}
		return nil, upstream("load follow list", err)
	}
	ids = dedupe(ids)

	entries := make([]DirectoryEntry, 0, len(ids))
	if len(ids) == 0 {
		return entries, nil
	}
	users, err := m.store.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, upstream("load follow list users", err)
	}
	following, err := m.followingSet(ctx, selfID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			entries = append(entries, directoryEntry(u, following))
		}
	}
	return entries, nil
}

// followingSet is empty for a session whose user no longer exists.
func (m *Messenger) followingSet(ctx context.Context, selfID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	ids, err := m.store.FollowingIDs(ctx, selfID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, upstream("load own following", err)
	}
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func directoryEntry(u *models.User, following map[uuid.UUID]struct{}) DirectoryEntry {
	_, ok := following[u.ID]
	return DirectoryEntry{UserSummary: summarize(u), IsFollower: ok}
}
