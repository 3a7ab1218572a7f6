package jobs

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/anjiri1684/social_messages/store"
	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

const DefaultUnreadAge = 24 * time.Hour

// UnreadBacklog reports how many messages are still unread after Age. It is a
// cron.Job; the count is the only signal operators get about the read flag.
type UnreadBacklog struct {
	Store store.Store
	Age   time.Duration

	now  func() time.Time
	last atomic.Int64
}

var _ cron.Job = (*UnreadBacklog)(nil)

func (j *UnreadBacklog) Run() {
	log.Debug("running job", "job", "unread_backlog")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := j.Check(ctx)
	if err != nil {
		log.Error("unread backlog check failed", "err", err)
		return
	}
	if count == 0 {
		log.Info("no stale unread messages")
		return
	}
	log.Warn("stale unread messages", "count", count, "older_than", j.age())
}

// Check counts unread messages older than Age and remembers the result.
func (j *UnreadBacklog) Check(ctx context.Context) (int64, error) {
	now := time.Now
	if j.now != nil {
		now = j.now
	}
	// Stored timestamps are UTC.
	count, err := j.Store.CountUnreadBefore(ctx, now().Add(-j.age()).UTC())
	if err != nil {
		return 0, err
	}
	j.last.Store(count)
	return count, nil
}

// Last returns the count seen by the most recent successful check.
func (j *UnreadBacklog) Last() int64 {
	return j.last.Load()
}

func (j *UnreadBacklog) age() time.Duration {
	if j.Age <= 0 {
		return DefaultUnreadAge
	}
	return j.Age
}

// Schedule registers the job and returns the started scheduler.
func Schedule(spec string, job cron.Job) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
