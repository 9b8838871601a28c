package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sandeepkv93/remindd/internal/model"
	"github.com/sandeepkv93/remindd/internal/remote"
)

type TaskStore struct {
	*Store[model.Task]
}

func NewTaskStore(client remote.TaskClient, opts ...Option) *TaskStore {
	cfg := Config[model.Task]{
		Name:   "task",
		Client: client,
		Synthesize: func(input model.Task, tempID string, now time.Time) model.Task {
			input.ID = tempID
			input.Title = strings.TrimSpace(input.Title)
			if input.Status == "" {
				input.Status = model.StatusPending
			}
			if input.Priority == "" {
				input.Priority = model.PriorityMedium
			}
			input.CreatedAt = now
			input.UpdatedAt = now
			return input
		},
		Sort: func(items []model.Task) {
			sort.SliceStable(items, func(i, j int) bool {
				return items[i].CreatedAt.After(items[j].CreatedAt)
			})
		},
	}
	applyOptions(&cfg, opts)
	return &TaskStore{New(cfg)}
}

// Complete marks the task done, stamping completed_at. Follows the store's
// usual settle semantics: nil means the remote rejected it and the local
// change was rolled back.
func (s *TaskStore) Complete(ctx context.Context, id string) (*model.Task, error) {
	task, ok := s.byID(id)
	if !ok {
		return nil, ErrNotFoundLocally
	}
	now := s.now()
	task.Status = model.StatusCompleted
	task.CompletedAt = &now
	task.UpdatedAt = now
	return s.Update(ctx, task)
}

func (s *TaskStore) byID(id string) (model.Task, bool) {
	for _, t := range s.Items() {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Option tweaks store wiring shared by all entity stores.
type Option func(*options)

type options struct {
	syncInterval time.Duration
	clock        func() time.Time
}

func WithSyncInterval(d time.Duration) Option {
	return func(o *options) { o.syncInterval = d }
}

func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

func applyOptions[T Entity](cfg *Config[T], opts []Option) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.syncInterval > 0 {
		cfg.SyncInterval = o.syncInterval
	}
	if o.clock != nil {
		cfg.Clock = o.clock
	}
}
