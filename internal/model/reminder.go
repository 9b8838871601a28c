package model

import (
	"errors"
	"strings"
	"time"
)

// Reminder is a scheduled prompt, optionally attached to a task. The task
// reference is weak: deleting the reminder leaves the task alone, and the
// authoritative store cascades task deletion down to its reminders.
type Reminder struct {
	ID              string
	TaskID          string
	Title           string
	Description     string
	RemindAt        time.Time
	Repeat          RepeatPolicy
	IsActive        bool
	LastTriggeredAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r Reminder) EntityID() string { return r.ID }

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("model: reminder title is required")
	}
	if len(r.Title) > 200 {
		return errors.New("model: reminder title cannot exceed 200 characters")
	}
	if len(r.Description) > 1000 {
		return errors.New("model: reminder description cannot exceed 1000 characters")
	}
	if r.RemindAt.IsZero() {
		return errors.New("model: reminder remind_at is required")
	}
	if !r.CreatedAt.IsZero() && r.RemindAt.Before(r.CreatedAt) {
		return errors.New("model: reminder time cannot be before creation time")
	}
	return r.Repeat.Validate()
}

// IsDue reports whether the reminder should fire at now. One-shot policies
// are due only while they have never triggered; "every" policies become due
// again once a full interval has elapsed since the last trigger.
func (r Reminder) IsDue(now time.Time) bool {
	if !r.IsActive || r.RemindAt.After(now) {
		return false
	}
	if r.Repeat.FiresOnce() {
		return r.LastTriggeredAt == nil
	}
	if r.LastTriggeredAt == nil {
		return true
	}
	d, ok := r.Repeat.Unit.Duration(r.Repeat.Value)
	return ok && now.Sub(*r.LastTriggeredAt) >= d
}

func (r Reminder) IsOverdue(now time.Time) bool {
	return r.IsActive && now.After(r.RemindAt) && r.LastTriggeredAt == nil
}

// NextTriggerAt computes when the reminder fires next, anchored to the last
// trigger when one exists and to remind_at otherwise.
func (r Reminder) NextTriggerAt(now time.Time) (time.Time, bool) {
	if !r.IsActive {
		return time.Time{}, false
	}
	base := r.RemindAt
	if r.LastTriggeredAt != nil {
		base = *r.LastTriggeredAt
	} else if r.Repeat.Kind == RepeatNone {
		return r.RemindAt, true
	}
	return r.Repeat.NextFireAfter(base, now)
}
