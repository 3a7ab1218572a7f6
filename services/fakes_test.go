package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/social_messages/models"
	"github.com/anjiri1684/social_messages/store"
	"github.com/google/uuid"
)

type fakeStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]models.User
	follows  [][2]uuid.UUID // follower, followee
	messages []models.Message

	failMessages bool
	failMarkRead bool
	failSearch   bool
}

var errFakeStore = errors.New("fake store down")

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[uuid.UUID]models.User)}
}

func (f *fakeStore) addUser(username string) models.User {
	u := models.User{ID: uuid.New(), Username: username, FullName: username + " Doe", ProfileImg: "https://img/" + username}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) follow(follower, followee uuid.UUID) {
	f.follows = append(f.follows, [2]uuid.UUID{follower, followee})
}

func (f *fakeStore) addMessage(from, to uuid.UUID, text string, at time.Time) models.Message {
	m := models.Message{ID: uuid.New(), FromID: from, ToID: to, Text: text, CreatedAt: at}
	f.messages = append(f.messages, m)
	return m
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username {
			return store.ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeStore) FindUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (f *fakeStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) FindUsersByIDs(_ context.Context, ids []uuid.UUID) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	// Reverse so callers cannot rely on the store echoing id order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (f *fakeStore) SocialNeighbors(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return nil, store.ErrNotFound
	}
	var out []uuid.UUID
	for _, edge := range f.follows {
		switch id {
		case edge[0]:
			out = append(out, edge[1])
		case edge[1]:
			out = append(out, edge[0])
		}
	}
	return out, nil
}

func (f *fakeStore) FollowingIDs(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return f.edges(id, 0)
}

func (f *fakeStore) FollowerIDs(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return f.edges(id, 1)
}

// edges returns the other end of every follow edge where id sits at side.
func (f *fakeStore) edges(id uuid.UUID, side int) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return nil, store.ErrNotFound
	}
	var out []uuid.UUID
	for _, edge := range f.follows {
		if edge[side] == id {
			out = append(out, edge[1-side])
		}
	}
	return out, nil
}

func (f *fakeStore) SearchUsers(_ context.Context, exclude uuid.UUID, query string, limit int) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSearch {
		return nil, errFakeStore
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.User
	for _, u := range f.users {
		if u.ID == exclude {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(u.Username), q) && !strings.Contains(strings.ToLower(u.FullName), q) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) CreateMessage(_ context.Context, msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMessages {
		return errFakeStore
	}
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeStore) sorted(match func(m models.Message) bool) []models.Message {
	var out []models.Message
	for _, m := range f.messages {
		if match(m) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f *fakeStore) MessagesInvolving(_ context.Context, id uuid.UUID) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMessages {
		return nil, errFakeStore
	}
	return f.sorted(func(m models.Message) bool { return m.FromID == id || m.ToID == id }), nil
}

func (f *fakeStore) MessagesBetween(_ context.Context, a, b uuid.UUID) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMessages {
		return nil, errFakeStore
	}
	return f.sorted(func(m models.Message) bool {
		return (m.FromID == a && m.ToID == b) || (m.FromID == b && m.ToID == a)
	}), nil
}

func (f *fakeStore) MarkRead(_ context.Context, from, to uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMarkRead {
		return 0, errFakeStore
	}
	var n int64
	for i := range f.messages {
		m := &f.messages[i]
		if m.FromID == from && m.ToID == to && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountUnreadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.messages {
		if !m.IsRead && m.CreatedAt.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

type fakeImageHost struct {
	uploads []string
	err     error
}

func (h *fakeImageHost) Upload(_ context.Context, data string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	h.uploads = append(h.uploads, data)
	return "https://res.cloudinary.com/demo/image/upload/msg.png", nil
}
