package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sandeepkv93/remindd/internal/model"
	"github.com/sandeepkv93/remindd/internal/remote"
)

const defaultSnooze = 15 * time.Minute

type ReminderStore struct {
	*Store[model.Reminder]
}

func NewReminderStore(client remote.ReminderClient, opts ...Option) *ReminderStore {
	cfg := Config[model.Reminder]{
		Name:   "reminder",
		Client: client,
		Synthesize: func(input model.Reminder, tempID string, now time.Time) model.Reminder {
			input.ID = tempID
			input.Title = strings.TrimSpace(input.Title)
			input.IsActive = true
			input.LastTriggeredAt = nil
			input.CreatedAt = now
			input.UpdatedAt = now
			return input
		},
		Sort: func(items []model.Reminder) {
			sort.SliceStable(items, func(i, j int) bool {
				return items[i].RemindAt.Before(items[j].RemindAt)
			})
		},
	}
	applyOptions(&cfg, opts)
	return &ReminderStore{New(cfg)}
}

// MarkTriggered stamps last_triggered_at for a repeating reminder. The
// entity is otherwise untouched: the next fire follows from the repeat
// policy, not from rewriting remind_at.
func (s *ReminderStore) MarkTriggered(ctx context.Context, id string, at time.Time) (*model.Reminder, error) {
	rem, ok := s.byID(id)
	if !ok {
		return nil, ErrNotFoundLocally
	}
	fired := at
	rem.LastTriggeredAt = &fired
	rem.UpdatedAt = at
	return s.Update(ctx, rem)
}

// Deactivate retires a one-shot reminder after it fires, recording the
// trigger instant as it goes.
func (s *ReminderStore) Deactivate(ctx context.Context, id string, at time.Time) (*model.Reminder, error) {
	rem, ok := s.byID(id)
	if !ok {
		return nil, ErrNotFoundLocally
	}
	fired := at
	rem.IsActive = false
	rem.LastTriggeredAt = &fired
	rem.UpdatedAt = at
	return s.Update(ctx, rem)
}

// Snooze pushes the reminder out to now+d (15 minutes when d is zero) and
// re-arms it.
func (s *ReminderStore) Snooze(ctx context.Context, id string, d time.Duration) (*model.Reminder, error) {
	rem, ok := s.byID(id)
	if !ok {
		return nil, ErrNotFoundLocally
	}
	if d <= 0 {
		d = defaultSnooze
	}
	now := s.now()
	rem.RemindAt = now.Add(d)
	rem.IsActive = true
	rem.LastTriggeredAt = nil
	rem.UpdatedAt = now
	return s.Update(ctx, rem)
}

func (s *ReminderStore) byID(id string) (model.Reminder, bool) {
	for _, r := range s.Items() {
		if r.ID == id {
			return r, true
		}
	}
	return model.Reminder{}, false
}
