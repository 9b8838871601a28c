package model

import (
	"errors"
	"strings"
	"time"
)

type Tag struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Tag) EntityID() string { return t.ID }

func (t Tag) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("model: tag name is required")
	}
	if len(t.Name) > 50 {
		return errors.New("model: tag name cannot exceed 50 characters")
	}
	return nil
}
