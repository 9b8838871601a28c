// Package remote defines the request/response boundary to the authoritative
// task/reminder store. Stores and the scheduler consume these interfaces
// only; tests substitute fakes and production wires the sqlite-backed local
// client.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandeepkv93/remindd/internal/model"
)

// CallError is the single failure shape for any rejected remote call.
// Network, serialization and store-side validation failures all collapse to
// it at this boundary, so downstream code never re-inspects error kinds.
type CallError struct {
	Op  string
	Msg string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("remote: %s: %s", e.Op, e.Msg)
}

func Failedf(op, format string, args ...any) *CallError {
	return &CallError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

func FailedCall(op string, err error) *CallError {
	return &CallError{Op: op, Msg: err.Error()}
}

func IsCallError(err error) bool {
	var ce *CallError
	return errors.As(err, &ce)
}

// ListFilter narrows list calls. Zero values mean "no constraint"; Page and
// PageSize of zero request everything.
type ListFilter struct {
	Status     string
	Priority   string
	TaskID     string
	ActiveOnly *bool
	Page       int
	PageSize   int
}

type Page[T any] struct {
	Items    []T
	Total    int
	Page     int
	PageSize int
}

type TaskClient interface {
	List(ctx context.Context, f ListFilter) (Page[model.Task], error)
	Get(ctx context.Context, id string) (model.Task, error)
	Create(ctx context.Context, in model.Task) (model.Task, error)
	Update(ctx context.Context, id string, in model.Task) (model.Task, error)
	Delete(ctx context.Context, id string) error
}

type ReminderClient interface {
	List(ctx context.Context, f ListFilter) (Page[model.Reminder], error)
	Get(ctx context.Context, id string) (model.Reminder, error)
	Create(ctx context.Context, in model.Reminder) (model.Reminder, error)
	Update(ctx context.Context, id string, in model.Reminder) (model.Reminder, error)
	Delete(ctx context.Context, id string) error
	ListDue(ctx context.Context) ([]model.Reminder, error)
}

type TagClient interface {
	List(ctx context.Context, f ListFilter) (Page[model.Tag], error)
	Get(ctx context.Context, id string) (model.Tag, error)
	Create(ctx context.Context, in model.Tag) (model.Tag, error)
	Update(ctx context.Context, id string, in model.Tag) (model.Tag, error)
	Delete(ctx context.Context, id string) error
}
