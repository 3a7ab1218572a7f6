package gormstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/anjiri1684/social_messages/database"
	"github.com/anjiri1684/social_messages/models"
	"github.com/anjiri1684/social_messages/store"
	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Connect("sqlite", dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return New(db)
}

func mustUser(t *testing.T, s *Store, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, FullName: username + " Test", Password: "x"}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func mustMessage(t *testing.T, s *Store, from, to uuid.UUID, text string, at time.Time) *models.Message {
	t.Helper()
	m := &models.Message{FromID: from, ToID: to, Text: text, CreatedAt: at}
	if err := s.CreateMessage(context.Background(), m); err != nil {
		t.Fatalf("create message: %v", err)
	}
	return m
}

func TestUserLookups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	got, err := s.FindUserByUsername(ctx, "alice")
	if err != nil || got.ID != alice.ID {
		t.Fatalf("find by username: %v %+v", err, got)
	}
	got, err = s.FindUserByID(ctx, bob.ID)
	if err != nil || got.Username != "bob" {
		t.Fatalf("find by id: %v %+v", err, got)
	}

	if _, err := s.FindUserByUsername(ctx, "carol"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.FindUserByID(ctx, uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	users, err := s.FindUsersByIDs(ctx, []uuid.UUID{alice.ID, bob.ID, uuid.New()})
	if err != nil {
		t.Fatalf("find by ids: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	users, err = s.FindUsersByIDs(ctx, nil)
	if err != nil || len(users) != 0 {
		t.Fatalf("expected no users for empty id set, got %v %v", users, err)
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	s := newTestStore(t)
	mustUser(t, s, "alice")

	err := s.CreateUser(context.Background(), &models.User{Username: "alice", FullName: "Other", Password: "x"})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestSocialNeighbors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	carol := mustUser(t, s, "carol")
	dave := mustUser(t, s, "dave")

	follows := []models.Follow{
		{FollowerID: alice.ID, FolloweeID: bob.ID},
		{FollowerID: carol.ID, FolloweeID: alice.ID},
		{FollowerID: bob.ID, FolloweeID: dave.ID},
	}
	if err := s.db.Create(&follows).Error; err != nil {
		t.Fatalf("seed follows: %v", err)
	}

	ids, err := s.SocialNeighbors(ctx, alice.ID)
	if err != nil {
		t.Fatalf("social neighbors: %v", err)
	}
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if len(seen) != 2 || !seen[bob.ID] || !seen[carol.ID] {
		t.Fatalf("expected bob and carol, got %v", ids)
	}
}

func TestMessagesBetweenOrderedOldestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	carol := mustUser(t, s, "carol")

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	mustMessage(t, s, bob.ID, alice.ID, "second", base.Add(2*time.Minute))
	mustMessage(t, s, alice.ID, bob.ID, "first", base)
	mustMessage(t, s, alice.ID, carol.ID, "other", base.Add(time.Minute))
	mustMessage(t, s, alice.ID, bob.ID, "third", base.Add(3*time.Minute))

	msgs, err := s.MessagesBetween(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("messages between: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(msgs) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(msgs))
	}
	for i, m := range msgs {
		if m.Text != want[i] {
			t.Fatalf("message %d: want %q got %q", i, want[i], m.Text)
		}
	}

	involving, err := s.MessagesInvolving(ctx, alice.ID)
	if err != nil {
		t.Fatalf("messages involving: %v", err)
	}
	if len(involving) != 4 {
		t.Fatalf("expected 4 messages involving alice, got %d", len(involving))
	}
	involving, err = s.MessagesInvolving(ctx, carol.ID)
	if err != nil || len(involving) != 1 {
		t.Fatalf("expected 1 message involving carol, got %d (%v)", len(involving), err)
	}
}

func TestMarkReadOnlyFlipsInbound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	inbound := mustMessage(t, s, bob.ID, alice.ID, "to alice", base)
	outbound := mustMessage(t, s, alice.ID, bob.ID, "to bob", base.Add(time.Minute))

	n, err := s.MarkRead(ctx, bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 flipped message, got %d", n)
	}

	msgs, err := s.MessagesBetween(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("messages between: %v", err)
	}
	for _, m := range msgs {
		switch m.ID {
		case inbound.ID:
			if !m.IsRead {
				t.Fatalf("inbound message should be read")
			}
		case outbound.ID:
			if m.IsRead {
				t.Fatalf("outbound message must stay unread")
			}
		}
	}

	n, err = s.MarkRead(ctx, bob.ID, alice.ID)
	if err != nil || n != 0 {
		t.Fatalf("second flip should be a no-op, got %d (%v)", n, err)
	}
}

func TestCountUnreadBefore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	mustMessage(t, s, bob.ID, alice.ID, "old", base)
	mustMessage(t, s, bob.ID, alice.ID, "new", base.Add(48*time.Hour))

	count, err := s.CountUnreadBefore(ctx, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("count unread: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 stale unread message, got %d", count)
	}
}

func TestCountUnreadBeforeNonUTCCutoff(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	mustMessage(t, s, bob.ID, alice.ID, "fresh", time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC))

	ist := time.FixedZone("IST", 5*3600+30*60)
	cutoff := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, c := range []time.Time{cutoff, cutoff.In(ist)} {
		count, err := s.CountUnreadBefore(ctx, c)
		if err != nil {
			t.Fatalf("count unread: %v", err)
		}
		if count != 0 {
			t.Fatalf("cutoff %v: expected 0 stale messages, got %d", c, count)
		}
	}

	// Stored in a non-UTC zone, still compared by instant.
	mustMessage(t, s, bob.ID, alice.ID, "stale", time.Date(2024, 3, 1, 14, 0, 0, 0, ist))
	count, err := s.CountUnreadBefore(ctx, cutoff.In(ist))
	if err != nil {
		t.Fatalf("count unread: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 stale message, got %d", count)
	}
}

func TestMessagesBetweenBreaksTiesByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 4; i++ {
		m := mustMessage(t, s, alice.ID, bob.ID, fmt.Sprintf("m%d", i), at)
		ids = append(ids, m.ID.String())
	}
	sort.Strings(ids)

	for round := 0; round < 2; round++ {
		msgs, err := s.MessagesBetween(ctx, bob.ID, alice.ID)
		if err != nil {
			t.Fatalf("messages between: %v", err)
		}
		if len(msgs) != len(ids) {
			t.Fatalf("expected %d messages, got %d", len(ids), len(msgs))
		}
		for i, m := range msgs {
			if m.ID.String() != ids[i] {
				t.Fatalf("position %d: want %s got %s", i, ids[i], m.ID)
			}
		}
	}
}

func TestSearchUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	mustUser(t, s, "bob")
	mustUser(t, s, "bobby")
	carol := &models.User{Username: "carol", FullName: "Carol BOBSON", Password: "x"}
	if err := s.CreateUser(ctx, carol); err != nil {
		t.Fatalf("create carol: %v", err)
	}
	mustUser(t, s, "under_score")

	users, err := s.SearchUsers(ctx, alice.ID, "Bob", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	want := []string{"bob", "bobby", "carol"}
	if len(users) != len(want) {
		t.Fatalf("expected %d users, got %d", len(want), len(users))
	}
	for i, u := range users {
		if u.Username != want[i] {
			t.Fatalf("position %d: want %s got %s", i, want[i], u.Username)
		}
	}

	users, err = s.SearchUsers(ctx, alice.ID, "bob", 2)
	if err != nil || len(users) != 2 {
		t.Fatalf("expected limit of 2, got %d (%v)", len(users), err)
	}

	users, err = s.SearchUsers(ctx, alice.ID, "alice", 5)
	if err != nil || len(users) != 0 {
		t.Fatalf("caller must be excluded, got %d (%v)", len(users), err)
	}

	// LIKE wildcards in the query are literal.
	users, err = s.SearchUsers(ctx, alice.ID, "_", 5)
	if err != nil || len(users) != 1 || users[0].Username != "under_score" {
		t.Fatalf("expected only under_score, got %v (%v)", users, err)
	}

	users, err = s.SearchUsers(ctx, alice.ID, "", 3)
	if err != nil {
		t.Fatalf("random search: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 random users, got %d", len(users))
	}
	for _, u := range users {
		if u.ID == alice.ID {
			t.Fatalf("random sample must exclude the caller")
		}
	}
}

func TestFollowLists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	carol := mustUser(t, s, "carol")

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	follows := []models.Follow{
		{FollowerID: alice.ID, FolloweeID: carol.ID, CreatedAt: base.Add(time.Minute)},
		{FollowerID: alice.ID, FolloweeID: bob.ID, CreatedAt: base},
		{FollowerID: bob.ID, FolloweeID: alice.ID, CreatedAt: base},
	}
	if err := s.db.Create(&follows).Error; err != nil {
		t.Fatalf("seed follows: %v", err)
	}

	following, err := s.FollowingIDs(ctx, alice.ID)
	if err != nil {
		t.Fatalf("following: %v", err)
	}
	if len(following) != 2 || following[0] != bob.ID || following[1] != carol.ID {
		t.Fatalf("expected [bob carol], got %v", following)
	}

	followers, err := s.FollowerIDs(ctx, alice.ID)
	if err != nil {
		t.Fatalf("followers: %v", err)
	}
	if len(followers) != 1 || followers[0] != bob.ID {
		t.Fatalf("expected [bob], got %v", followers)
	}

	followers, err = s.FollowerIDs(ctx, carol.ID)
	if err != nil || len(followers) != 1 {
		t.Fatalf("expected alice as carol's follower, got %v (%v)", followers, err)
	}

	if _, err := s.FollowingIDs(ctx, uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
