package storage

import "time"

type Task struct {
	ID               string
	Title            string
	Description      string
	Status           string
	Priority         string
	DueDate          *time.Time
	CompletedAt      *time.Time
	Notes            string
	EstimatedMinutes int
	ActualMinutes    int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Reminder struct {
	ID              string
	TaskID          string
	Title           string
	Description     string
	RemindAt        time.Time
	RepeatInterval  string
	IsActive        bool
	LastTriggeredAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Tag struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TaskListFilter struct {
	Status   string
	Priority string
	Limit    int
	Offset   int
}

type ReminderListFilter struct {
	TaskID     string
	ActiveOnly *bool
	Limit      int
	Offset     int
}

type TagListFilter struct {
	Limit  int
	Offset int
}
