package services

import (
	"context"
	"errors"

	"github.com/anjiri1684/social_messages/models"
	"github.com/anjiri1684/social_messages/store"
	"github.com/google/uuid"
)

// ListPartners returns everyone selfID has exchanged messages with. When the
// inbox is empty it suggests the user's followers and followings instead.
func (m *Messenger) ListPartners(ctx context.Context, selfID uuid.UUID) ([]PartnerSummary, error) {
	messages, err := m.store.MessagesInvolving(ctx, selfID)
	if err != nil {
		return nil, upstream("scan messages", err)
	}

	if partners := distinctCounterparts(messages, selfID); len(partners) > 0 {
		return m.partnerSummaries(ctx, partners)
	}

	neighbors, err := m.store.SocialNeighbors(ctx, selfID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []PartnerSummary{}, nil
		}
		return nil, upstream("load social graph", err)
	}
	return m.partnerSummaries(ctx, dedupe(neighbors))
}

// distinctCounterparts keeps first-seen order of the other party of each message.
func distinctCounterparts(messages []models.Message, self uuid.UUID) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(messages))
	for i := range messages {
		ids = append(ids, messages[i].Counterpart(self))
	}
	return dedupe(ids)
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// partnerSummaries joins ids to users; ids without a user record are dropped.
func (m *Messenger) partnerSummaries(ctx context.Context, ids []uuid.UUID) ([]PartnerSummary, error) {
	summaries := make([]PartnerSummary, 0, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	users, err := m.store.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, upstream("load partners", err)
	}
	byID := make(map[uuid.UUID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	for _, id := range ids {
		if u, ok := byID[id]; ok {
			summaries = append(summaries, partnerOf(u))
		}
	}
	return summaries, nil
}
