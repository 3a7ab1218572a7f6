package services

import (
	"time"

	"github.com/anjiri1684/social_messages/store"
)

// Messenger is the direct-message pipeline: identity resolution, partner
// discovery, transcript building and message composition. It keeps no state
// between calls; every operation goes to the store.
type Messenger struct {
	store  store.Store
	images ImageHost
	loc    *time.Location
	now    func() time.Time
}

type Option func(*Messenger)

// WithLocation sets the zone used for transcript date keys and times.
func WithLocation(loc *time.Location) Option {
	return func(m *Messenger) {
		if loc != nil {
			m.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Messenger) { m.now = now }
}

func NewMessenger(s store.Store, images ImageHost, opts ...Option) *Messenger {
	m := &Messenger{
		store:  s,
		images: images,
		loc:    time.UTC,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
