package mongostore

import (
	"fmt"
	"time"

	"github.com/anjiri1684/social_messages/models"
	"github.com/google/uuid"
)

type userDoc struct {
	ID         string    `bson:"_id"`
	Username   string    `bson:"username"`
	FullName   string    `bson:"fullName"`
	Password   string    `bson:"password"`
	ProfileImg string    `bson:"profileImg,omitempty"`
	Followers  []string  `bson:"followers"`
	Following  []string  `bson:"following"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

type messageDoc struct {
	ID        string    `bson:"_id"`
	From      string    `bson:"from"`
	To        string    `bson:"to"`
	Text      string    `bson:"text,omitempty"`
	Image     *string   `bson:"image,omitempty"`
	IsRead    bool      `bson:"isRead"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func userToDoc(u *models.User) userDoc {
	return userDoc{
		ID:         u.ID.String(),
		Username:   u.Username,
		FullName:   u.FullName,
		Password:   u.Password,
		ProfileImg: u.ProfileImg,
		Followers:  []string{},
		Following:  []string{},
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// toModel drops a malformed id to uuid.Nil instead of failing the whole lookup.
func (d userDoc) toModel() models.User {
	id, _ := uuid.Parse(d.ID)
	return models.User{
		ID:         id,
		Username:   d.Username,
		FullName:   d.FullName,
		Password:   d.Password,
		ProfileImg: d.ProfileImg,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func messageToDoc(m *models.Message) messageDoc {
	return messageDoc{
		ID:        m.ID.String(),
		From:      m.FromID.String(),
		To:        m.ToID.String(),
		Text:      m.Text,
		Image:     m.Image,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (d messageDoc) toModel() (models.Message, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.Message{}, fmt.Errorf("message id %q: %w", d.ID, err)
	}
	from, err := uuid.Parse(d.From)
	if err != nil {
		return models.Message{}, fmt.Errorf("message %s sender %q: %w", d.ID, d.From, err)
	}
	to, err := uuid.Parse(d.To)
	if err != nil {
		return models.Message{}, fmt.Errorf("message %s recipient %q: %w", d.ID, d.To, err)
	}
	return models.Message{
		ID:        id,
		FromID:    from,
		ToID:      to,
		Text:      d.Text,
		Image:     d.Image,
		IsRead:    d.IsRead,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}
