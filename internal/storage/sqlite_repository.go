package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) DB() *sql.DB { return r.db }

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, priority, due_date, completed_at, notes, estimated_minutes, actual_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Description, in.Status, in.Priority,
		nullTime(in.DueDate), nullTime(in.CompletedAt), in.Notes,
		in.EstimatedMinutes, in.ActualMinutes, mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, taskSelect+` WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, completed_at = ?, notes = ?, estimated_minutes = ?, actual_minutes = ?, updated_at = ?
		WHERE id = ?`,
		in.Title, in.Description, in.Status, in.Priority,
		nullTime(in.DueDate), nullTime(in.CompletedAt), in.Notes,
		in.EstimatedMinutes, in.ActualMinutes, mustTime(in.UpdatedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

const taskSelect = `SELECT id, title, description, status, priority, due_date, completed_at, notes, estimated_minutes, actual_minutes, created_at, updated_at FROM tasks`

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, int, error) {
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		clauses = append(clauses, "priority = ?")
		args = append(args, filter.Priority)
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	total, err := r.countRows(ctx, "tasks", where, args)
	if err != nil {
		return nil, 0, err
	}

	query := taskSelect + where + ` ORDER BY created_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, 0, scanErr
		}
		out = append(out, task)
	}
	return out, total, rows.Err()
}

const reminderSelect = `SELECT id, task_id, title, description, remind_at, repeat_interval, is_active, last_triggered_at, created_at, updated_at FROM reminders`

func (r *SQLiteRepository) CreateReminder(ctx context.Context, in Reminder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reminders (id, task_id, title, description, remind_at, repeat_interval, is_active, last_triggered_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, nullString(in.TaskID), in.Title, in.Description, mustTime(in.RemindAt),
		in.RepeatInterval, boolInt(in.IsActive), nullTime(in.LastTriggeredAt),
		mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetReminder(ctx context.Context, id string) (Reminder, error) {
	row := r.db.QueryRowContext(ctx, reminderSelect+` WHERE id = ?`, id)
	item, err := scanReminder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reminder{}, ErrNotFound
		}
		return Reminder{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateReminder(ctx context.Context, in Reminder) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reminders
		SET task_id = ?, title = ?, description = ?, remind_at = ?, repeat_interval = ?, is_active = ?, last_triggered_at = ?, updated_at = ?
		WHERE id = ?`,
		nullString(in.TaskID), in.Title, in.Description, mustTime(in.RemindAt),
		in.RepeatInterval, boolInt(in.IsActive), nullTime(in.LastTriggeredAt),
		mustTime(in.UpdatedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteReminder(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListReminders(ctx context.Context, filter ReminderListFilter) ([]Reminder, int, error) {
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.TaskID != "" {
		clauses = append(clauses, "task_id = ?")
		args = append(args, filter.TaskID)
	}
	if filter.ActiveOnly != nil {
		clauses = append(clauses, "is_active = ?")
		args = append(args, boolInt(*filter.ActiveOnly))
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	total, err := r.countRows(ctx, "reminders", where, args)
	if err != nil {
		return nil, 0, err
	}

	query := reminderSelect + where + ` ORDER BY remind_at ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Reminder, 0)
	for rows.Next() {
		item, scanErr := scanReminder(rows)
		if scanErr != nil {
			return nil, 0, scanErr
		}
		out = append(out, item)
	}
	return out, total, rows.Err()
}

// ListDueReminders returns active reminders whose remind_at has passed.
// The SQL cut keeps the scan cheap; the caller applies the per-policy
// due check on top (one-shot already fired, repeat interval not yet
// elapsed).
func (r *SQLiteRepository) ListDueReminders(ctx context.Context, now time.Time) ([]Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		reminderSelect+` WHERE is_active = 1 AND remind_at <= ? ORDER BY remind_at ASC`,
		mustTime(now),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Reminder, 0)
	for rows.Next() {
		item, scanErr := scanReminder(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

const tagSelect = `SELECT id, name, created_at, updated_at FROM tags`

func (r *SQLiteRepository) CreateTag(ctx context.Context, in Tag) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		in.ID, in.Name, mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTag(ctx context.Context, id string) (Tag, error) {
	row := r.db.QueryRowContext(ctx, tagSelect+` WHERE id = ?`, id)
	item, err := scanTag(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tag{}, ErrNotFound
		}
		return Tag{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateTag(ctx context.Context, in Tag) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tags SET name = ?, updated_at = ? WHERE id = ?`,
		in.Name, mustTime(in.UpdatedAt), in.ID)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTag(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTags(ctx context.Context, filter TagListFilter) ([]Tag, int, error) {
	total, err := r.countRows(ctx, "tags", "", nil)
	if err != nil {
		return nil, 0, err
	}

	args := make([]any, 0, 2)
	query := tagSelect + ` ORDER BY name ASC` + applyPagination(&args, filter.Limit, filter.Offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Tag, 0)
	for rows.Next() {
		item, scanErr := scanTag(rows)
		if scanErr != nil {
			return nil, 0, scanErr
		}
		out = append(out, item)
	}
	return out, total, rows.Err()
}

func (r *SQLiteRepository) countRows(ctx context.Context, table, where string, args []any) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+where, args...).Scan(&total)
	return total, err
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	clause := ""
	if limit > 0 {
		clause += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		clause += " OFFSET ?"
		*args = append(*args, offset)
	}
	return clause
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var due, completed sql.NullString
	var created, updated string
	if err := s.Scan(&out.ID, &out.Title, &out.Description, &out.Status, &out.Priority,
		&due, &completed, &out.Notes, &out.EstimatedMinutes, &out.ActualMinutes,
		&created, &updated); err != nil {
		return Task{}, err
	}
	dueDate, err := parseNullableTime(due)
	if err != nil {
		return Task{}, err
	}
	completedAt, err := parseNullableTime(completed)
	if err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Task{}, err
	}
	out.DueDate = dueDate
	out.CompletedAt = completedAt
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func scanReminder(s scanner) (Reminder, error) {
	var out Reminder
	var taskID, triggered sql.NullString
	var remindAt, created, updated string
	var active int
	if err := s.Scan(&out.ID, &taskID, &out.Title, &out.Description, &remindAt,
		&out.RepeatInterval, &active, &triggered, &created, &updated); err != nil {
		return Reminder{}, err
	}
	remind, err := parseRequiredTime(remindAt)
	if err != nil {
		return Reminder{}, err
	}
	lastTriggered, err := parseNullableTime(triggered)
	if err != nil {
		return Reminder{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Reminder{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Reminder{}, err
	}
	out.TaskID = taskID.String
	out.RemindAt = remind
	out.IsActive = active == 1
	out.LastTriggeredAt = lastTriggered
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func scanTag(s scanner) (Tag, error) {
	var out Tag
	var created, updated string
	if err := s.Scan(&out.ID, &out.Name, &created, &updated); err != nil {
		return Tag{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Tag{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Tag{}, err
	}
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
