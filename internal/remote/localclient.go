package remote

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/remindd/internal/model"
	"github.com/sandeepkv93/remindd/internal/storage"
)

// Local serves the remote contract out of the embedded sqlite store. It is
// the authoritative side of the boundary: it mints ids, stamps server
// timestamps, and enforces the store's business rules. Every failure leaves
// the boundary as a CallError.
type Local struct {
	repo  storage.Repository
	clock func() time.Time
}

func NewLocal(repo storage.Repository) *Local {
	return &Local{repo: repo, clock: func() time.Time { return time.Now().UTC() }}
}

// NewLocalWithClock is for tests that need a fixed notion of now.
func NewLocalWithClock(repo storage.Repository, clock func() time.Time) *Local {
	return &Local{repo: repo, clock: clock}
}

type LocalTasks struct{ *Local }
type LocalReminders struct{ *Local }
type LocalTags struct{ *Local }

func (l *Local) Tasks() *LocalTasks         { return &LocalTasks{l} }
func (l *Local) Reminders() *LocalReminders { return &LocalReminders{l} }
func (l *Local) Tags() *LocalTags           { return &LocalTags{l} }

func pageFromFilter(f ListFilter) (limit, offset int) {
	if f.PageSize > 0 {
		limit = f.PageSize
		if f.Page > 1 {
			offset = (f.Page - 1) * f.PageSize
		}
	}
	return limit, offset
}

func (c *LocalTasks) List(ctx context.Context, f ListFilter) (Page[model.Task], error) {
	limit, offset := pageFromFilter(f)
	records, total, err := c.repo.ListTasks(ctx, storage.TaskListFilter{
		Status:   f.Status,
		Priority: f.Priority,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return Page[model.Task]{}, FailedCall("list tasks", err)
	}
	items := make([]model.Task, 0, len(records))
	for _, rec := range records {
		items = append(items, taskFromRecord(rec))
	}
	return Page[model.Task]{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

func (c *LocalTasks) Get(ctx context.Context, id string) (model.Task, error) {
	rec, err := c.repo.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, FailedCall("get task", err)
	}
	return taskFromRecord(rec), nil
}

func (c *LocalTasks) Create(ctx context.Context, in model.Task) (model.Task, error) {
	now := c.clock()
	in.ID = uuid.New().String()
	in.Title = strings.TrimSpace(in.Title)
	in.CreatedAt = now
	in.UpdatedAt = now
	if in.Status == "" {
		in.Status = model.StatusPending
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if err := in.Validate(); err != nil {
		return model.Task{}, FailedCall("create task", err)
	}
	if err := c.repo.CreateTask(ctx, taskToRecord(in)); err != nil {
		return model.Task{}, FailedCall("create task", err)
	}
	return in, nil
}

func (c *LocalTasks) Update(ctx context.Context, id string, in model.Task) (model.Task, error) {
	current, err := c.repo.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, FailedCall("update task", err)
	}
	if !model.TaskStatus(current.Status).CanTransitionTo(in.Status) && current.Status != string(in.Status) {
		return model.Task{}, Failedf("update task", "invalid status transition from %s to %s", current.Status, in.Status)
	}
	in.ID = id
	in.CreatedAt = current.CreatedAt
	in.UpdatedAt = c.clock()
	if in.Status == model.StatusCompleted && in.CompletedAt == nil {
		now := in.UpdatedAt
		in.CompletedAt = &now
	}
	if err := in.Validate(); err != nil {
		return model.Task{}, FailedCall("update task", err)
	}
	if err := c.repo.UpdateTask(ctx, taskToRecord(in)); err != nil {
		return model.Task{}, FailedCall("update task", err)
	}
	return in, nil
}

func (c *LocalTasks) Delete(ctx context.Context, id string) error {
	if err := c.repo.DeleteTask(ctx, id); err != nil {
		return FailedCall("delete task", err)
	}
	return nil
}

func (c *LocalReminders) List(ctx context.Context, f ListFilter) (Page[model.Reminder], error) {
	limit, offset := pageFromFilter(f)
	records, total, err := c.repo.ListReminders(ctx, storage.ReminderListFilter{
		TaskID:     f.TaskID,
		ActiveOnly: f.ActiveOnly,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return Page[model.Reminder]{}, FailedCall("list reminders", err)
	}
	items := make([]model.Reminder, 0, len(records))
	for _, rec := range records {
		items = append(items, reminderFromRecord(rec))
	}
	return Page[model.Reminder]{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

func (c *LocalReminders) Get(ctx context.Context, id string) (model.Reminder, error) {
	rec, err := c.repo.GetReminder(ctx, id)
	if err != nil {
		return model.Reminder{}, FailedCall("get reminder", err)
	}
	return reminderFromRecord(rec), nil
}

func (c *LocalReminders) Create(ctx context.Context, in model.Reminder) (model.Reminder, error) {
	now := c.clock()
	in.ID = uuid.New().String()
	in.Title = strings.TrimSpace(in.Title)
	in.IsActive = true
	in.LastTriggeredAt = nil
	in.CreatedAt = now
	in.UpdatedAt = now
	if err := in.Validate(); err != nil {
		return model.Reminder{}, FailedCall("create reminder", err)
	}
	if !in.RemindAt.After(now) {
		return model.Reminder{}, Failedf("create reminder", "reminder time must be in the future")
	}
	if err := c.repo.CreateReminder(ctx, reminderToRecord(in)); err != nil {
		return model.Reminder{}, FailedCall("create reminder", err)
	}
	return in, nil
}

func (c *LocalReminders) Update(ctx context.Context, id string, in model.Reminder) (model.Reminder, error) {
	current, err := c.repo.GetReminder(ctx, id)
	if err != nil {
		return model.Reminder{}, FailedCall("update reminder", err)
	}
	in.ID = id
	in.CreatedAt = current.CreatedAt
	in.UpdatedAt = c.clock()
	if err := in.Validate(); err != nil {
		return model.Reminder{}, FailedCall("update reminder", err)
	}
	if err := c.repo.UpdateReminder(ctx, reminderToRecord(in)); err != nil {
		return model.Reminder{}, FailedCall("update reminder", err)
	}
	return in, nil
}

func (c *LocalReminders) Delete(ctx context.Context, id string) error {
	if err := c.repo.DeleteReminder(ctx, id); err != nil {
		return FailedCall("delete reminder", err)
	}
	return nil
}

// ListDue narrows the SQL cut with the per-policy due check, so a repeating
// reminder mid-interval or an already-fired one-shot never reaches the
// scheduler.
func (c *LocalReminders) ListDue(ctx context.Context) ([]model.Reminder, error) {
	now := c.clock()
	records, err := c.repo.ListDueReminders(ctx, now)
	if err != nil {
		return nil, FailedCall("list due reminders", err)
	}
	out := make([]model.Reminder, 0, len(records))
	for _, rec := range records {
		rem := reminderFromRecord(rec)
		if rem.IsDue(now) {
			out = append(out, rem)
		}
	}
	return out, nil
}

func (c *LocalTags) List(ctx context.Context, f ListFilter) (Page[model.Tag], error) {
	limit, offset := pageFromFilter(f)
	records, total, err := c.repo.ListTags(ctx, storage.TagListFilter{Limit: limit, Offset: offset})
	if err != nil {
		return Page[model.Tag]{}, FailedCall("list tags", err)
	}
	items := make([]model.Tag, 0, len(records))
	for _, rec := range records {
		items = append(items, model.Tag(rec))
	}
	return Page[model.Tag]{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

func (c *LocalTags) Get(ctx context.Context, id string) (model.Tag, error) {
	rec, err := c.repo.GetTag(ctx, id)
	if err != nil {
		return model.Tag{}, FailedCall("get tag", err)
	}
	return model.Tag(rec), nil
}

func (c *LocalTags) Create(ctx context.Context, in model.Tag) (model.Tag, error) {
	now := c.clock()
	in.ID = uuid.New().String()
	in.Name = strings.TrimSpace(in.Name)
	in.CreatedAt = now
	in.UpdatedAt = now
	if err := in.Validate(); err != nil {
		return model.Tag{}, FailedCall("create tag", err)
	}
	if err := c.repo.CreateTag(ctx, storage.Tag(in)); err != nil {
		return model.Tag{}, FailedCall("create tag", err)
	}
	return in, nil
}

func (c *LocalTags) Update(ctx context.Context, id string, in model.Tag) (model.Tag, error) {
	current, err := c.repo.GetTag(ctx, id)
	if err != nil {
		return model.Tag{}, FailedCall("update tag", err)
	}
	in.ID = id
	in.CreatedAt = current.CreatedAt
	in.UpdatedAt = c.clock()
	if err := in.Validate(); err != nil {
		return model.Tag{}, FailedCall("update tag", err)
	}
	if err := c.repo.UpdateTag(ctx, storage.Tag(in)); err != nil {
		return model.Tag{}, FailedCall("update tag", err)
	}
	return in, nil
}

func (c *LocalTags) Delete(ctx context.Context, id string) error {
	if err := c.repo.DeleteTag(ctx, id); err != nil {
		return FailedCall("delete tag", err)
	}
	return nil
}

func taskToRecord(t model.Task) storage.Task {
	return storage.Task{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		Status:           string(t.Status),
		Priority:         string(t.Priority),
		DueDate:          t.DueDate,
		CompletedAt:      t.CompletedAt,
		Notes:            t.Notes,
		EstimatedMinutes: t.EstimatedMinutes,
		ActualMinutes:    t.ActualMinutes,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func taskFromRecord(r storage.Task) model.Task {
	return model.Task{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Status:           model.TaskStatus(r.Status),
		Priority:         model.TaskPriority(r.Priority),
		DueDate:          r.DueDate,
		CompletedAt:      r.CompletedAt,
		Notes:            r.Notes,
		EstimatedMinutes: r.EstimatedMinutes,
		ActualMinutes:    r.ActualMinutes,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func reminderToRecord(r model.Reminder) storage.Reminder {
	return storage.Reminder{
		ID:              r.ID,
		TaskID:          r.TaskID,
		Title:           r.Title,
		Description:     r.Description,
		RemindAt:        r.RemindAt,
		RepeatInterval:  r.Repeat.Encode(),
		IsActive:        r.IsActive,
		LastTriggeredAt: r.LastTriggeredAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func reminderFromRecord(r storage.Reminder) model.Reminder {
	return model.Reminder{
		ID:              r.ID,
		TaskID:          r.TaskID,
		Title:           r.Title,
		Description:     r.Description,
		RemindAt:        r.RemindAt,
		Repeat:          model.DecodeRepeat(r.RepeatInterval),
		IsActive:        r.IsActive,
		LastTriggeredAt: r.LastTriggeredAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
