package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anjiri1684/social_messages/models"
	"github.com/google/uuid"
)

type SendInput struct {
	To    string
	Text  string
	Image string
}

// Send persists a new message from selfID. Inline image data is uploaded to
// the image host first and only the hosted URL is stored. Resubmitting the
// same input creates another message.
func (m *Messenger) Send(ctx context.Context, selfID uuid.UUID, in SendInput) (*models.Message, error) {
	sender, err := m.ResolveID(ctx, selfID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", selfID, ErrSenderNotFound)
		}
		return nil, err
	}

	recipient, err := m.Resolve(ctx, in.To)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%q: %w", in.To, ErrRecipientNotFound)
		}
		return nil, err
	}

	text := strings.TrimSpace(in.Text)
	image := strings.TrimSpace(in.Image)
	if text == "" && image == "" {
		return nil, ErrEmptyMessage
	}

	msg := &models.Message{
		FromID:    sender.ID,
		ToID:      recipient.ID,
		Text:      text,
		CreatedAt: m.now().UTC(),
	}

	if image != "" {
		if m.images == nil {
			return nil, upstream("upload image", errors.New("image hosting is not configured"))
		}
		url, err := m.images.Upload(ctx, image)
		if err != nil {
			return nil, upstream("upload image", err)
		}
		msg.Image = &url
	}

	if err := m.store.CreateMessage(ctx, msg); err != nil {
		return nil, upstream("save message", err)
	}
	return msg, nil
}
