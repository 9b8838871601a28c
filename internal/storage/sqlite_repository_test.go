package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "remindd-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func TestTaskCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-04-09T12:00:00Z")

	task := Task{
		ID:        "task-1",
		Title:     "Write schema",
		Status:    "pending",
		Priority:  "high",
		CreatedAt: created,
		UpdatedAt: created,
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Title != task.Title || got.Status != "pending" {
		t.Fatalf("unexpected task get result: %#v", got)
	}

	task.Title = "Write schema v2"
	task.Status = "in_progress"
	task.UpdatedAt = created.Add(time.Minute)
	if err := repo.UpdateTask(ctx, task); err != nil {
		t.Fatalf("update task: %v", err)
	}

	items, total, err := repo.ListTasks(ctx, TaskListFilter{Status: "in_progress"})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Title != "Write schema v2" {
		t.Fatalf("unexpected list result: total=%d items=%#v", total, items)
	}

	if err := repo.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := repo.GetTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListTasksOrdersMostRecentFirst(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	base := parseRFC3339(t, "2026-04-09T12:00:00Z")

	for i, id := range []string{"old", "mid", "new"} {
		created := base.Add(time.Duration(i) * time.Hour)
		task := Task{ID: id, Title: id, Status: "pending", Priority: "low", CreatedAt: created, UpdatedAt: created}
		if err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	items, _, err := repo.ListTasks(ctx, TaskListFilter{})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(items) != 3 || items[0].ID != "new" || items[2].ID != "old" {
		t.Fatalf("unexpected order: %#v", items)
	}
}

func TestReminderCRUDAndDueQuery(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-04-09T12:00:00Z")

	rem := Reminder{
		ID:             "rem-1",
		Title:          "Stand up",
		RemindAt:       created.Add(time.Hour),
		RepeatInterval: "every_10_minutes",
		IsActive:       true,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	if err := repo.CreateReminder(ctx, rem); err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	due, err := repo.ListDueReminders(ctx, created.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("reminder due before remind_at: %#v", due)
	}

	due, err = repo.ListDueReminders(ctx, created.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 1 || due[0].ID != "rem-1" {
		t.Fatalf("expected one due reminder, got %#v", due)
	}

	triggered := created.Add(2 * time.Hour)
	rem.LastTriggeredAt = &triggered
	rem.IsActive = false
	rem.UpdatedAt = triggered
	if err := repo.UpdateReminder(ctx, rem); err != nil {
		t.Fatalf("update reminder: %v", err)
	}

	due, err = repo.ListDueReminders(ctx, created.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("inactive reminder still due: %#v", due)
	}

	got, err := repo.GetReminder(ctx, rem.ID)
	if err != nil {
		t.Fatalf("get reminder: %v", err)
	}
	if got.LastTriggeredAt == nil || !got.LastTriggeredAt.Equal(triggered) {
		t.Fatalf("last_triggered_at not persisted: %#v", got)
	}
}

func TestDeletingTaskCascadesToReminders(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-04-09T12:00:00Z")

	task := Task{ID: "task-1", Title: "Parent", Status: "pending", Priority: "low", CreatedAt: created, UpdatedAt: created}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	rem := Reminder{
		ID: "rem-1", TaskID: task.ID, Title: "Child",
		RemindAt: created.Add(time.Hour), RepeatInterval: "none",
		IsActive: true, CreatedAt: created, UpdatedAt: created,
	}
	if err := repo.CreateReminder(ctx, rem); err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	if err := repo.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := repo.GetReminder(ctx, rem.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected cascade delete of reminder, got %v", err)
	}
}

func TestTagCRUDSortsByName(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-04-09T12:00:00Z")

	for _, name := range []string{"work", "errands", "health"} {
		tag := Tag{ID: "tag-" + name, Name: name, CreatedAt: created, UpdatedAt: created}
		if err := repo.CreateTag(ctx, tag); err != nil {
			t.Fatalf("create tag %s: %v", name, err)
		}
	}

	items, total, err := repo.ListTags(ctx, TagListFilter{})
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if total != 3 || items[0].Name != "errands" || items[2].Name != "work" {
		t.Fatalf("unexpected tag order: %#v", items)
	}
}

func TestUpdateMissingRowsReturnNotFound(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := parseRFC3339(t, "2026-04-09T12:00:00Z")

	err := repo.UpdateTask(ctx, Task{ID: "ghost", Title: "x", Status: "pending", Priority: "low", CreatedAt: now, UpdatedAt: now})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for ghost task, got %v", err)
	}
	err = repo.DeleteReminder(ctx, "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for ghost reminder, got %v", err)
	}
}
