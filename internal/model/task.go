package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidStatus   = errors.New("model: invalid task status")
	ErrInvalidPriority = errors.New("model: invalid task priority")
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status admits no further transitions.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if s == StatusPending {
		return next.IsValid()
	}
	// in_progress can pause, complete or be cancelled
	switch next {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

type Task struct {
	ID               string
	Title            string
	Description      string
	Status           TaskStatus
	Priority         TaskPriority
	DueDate          *time.Time
	CompletedAt      *time.Time
	Notes            string
	EstimatedMinutes int
	ActualMinutes    int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (t Task) EntityID() string { return t.ID }

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if len(t.Title) > 200 {
		return errors.New("model: task title cannot exceed 200 characters")
	}
	if len(t.Description) > 2000 {
		return errors.New("model: task description cannot exceed 2000 characters")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.EstimatedMinutes < 0 || t.ActualMinutes < 0 {
		return errors.New("model: task minutes must be positive")
	}
	if t.DueDate != nil && !t.CreatedAt.IsZero() && t.DueDate.Before(t.CreatedAt) {
		return errors.New("model: task due date cannot be before creation date")
	}
	if t.Status == StatusCompleted && t.CompletedAt == nil {
		return errors.New("model: completed_at is required when task is completed")
	}
	return nil
}

func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsOverdue reports whether the due date has passed while the task is still
// open.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && now.After(*t.DueDate) && !t.Status.IsTerminal()
}
