package services

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/social_messages/models"
	"github.com/anjiri1684/social_messages/store"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	dateKeyLayout     = "2006-01-02"
	displayTimeLayout = "03:04 pm"
)

type TranscriptMessage struct {
	ID       uuid.UUID   `json:"id"`
	Text     string      `json:"text"`
	Image    *string     `json:"image"`
	IsRead   bool        `json:"isRead"`
	Time     string      `json:"time"`
	IsFromMe bool        `json:"isFromMe"`
	From     UserSummary `json:"from"`
	To       UserSummary `json:"to"`
}

type DateGroup struct {
	Date     string              `json:"date"`
	Messages []TranscriptMessage `json:"messages"`
}

type Transcript struct {
	Messages   []DateGroup    `json:"messages"`
	TargetUser PartnerSummary `json:"targetUser"`
}

// BuildTranscript returns the conversation between selfID and the partner
// handle grouped by calendar date, then marks the partner's unread messages
// to selfID as read. The returned read flags are the ones seen before that flip.
func (m *Messenger) BuildTranscript(ctx context.Context, selfID uuid.UUID, partnerHandle string) (*Transcript, error) {
	partner, err := m.Resolve(ctx, partnerHandle)
	if err != nil {
		return nil, err
	}

	self := UserSummary{ID: selfID}
	if u, err := m.store.FindUserByID(ctx, selfID); err == nil {
		self = summarize(u)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, upstream("find current user", err)
	}

	messages, err := m.store.MessagesBetween(ctx, selfID, partner.ID)
	if err != nil {
		return nil, upstream("load conversation", err)
	}

	transcript := &Transcript{
		Messages:   groupByDate(messages, self, summarize(partner), m.loc),
		TargetUser: partnerOf(partner),
	}

	// Not atomic with the read above: a message landing in between is flipped too.
	flipped, err := m.store.MarkRead(ctx, partner.ID, selfID)
	if err != nil {
		log.Error("failed to mark conversation read", "reader", selfID, "partner", partner.ID, "err", err)
	} else if flipped > 0 {
		log.Debug("marked messages read", "reader", selfID, "partner", partner.ID, "count", flipped)
	}

	return transcript, nil
}

// groupByDate expects messages oldest first and keeps that order inside and across groups.
func groupByDate(messages []models.Message, self, partner UserSummary, loc *time.Location) []DateGroup {
	groups := make([]DateGroup, 0)
	index := make(map[string]int)

	for i := range messages {
		msg := &messages[i]
		at := msg.CreatedAt.In(loc)
		key := at.Format(dateKeyLayout)

		fromMe := msg.FromID == self.ID
		entry := TranscriptMessage{
			ID:       msg.ID,
			Text:     msg.Text,
			Image:    msg.Image,
			IsRead:   msg.IsRead,
			Time:     at.Format(displayTimeLayout),
			IsFromMe: fromMe,
			From:     partner,
			To:       self,
		}
		if fromMe {
			entry.From, entry.To = self, partner
		}

		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, DateGroup{Date: key})
		}
		groups[pos].Messages = append(groups[pos].Messages, entry)
	}
	return groups
}
