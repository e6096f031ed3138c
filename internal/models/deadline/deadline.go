package deadline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Deadline struct {
	UUID        uuid.UUID  `json:"uuid" db:"uuid"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Category    string     `json:"category,omitempty" db:"category"`
	Status      Status     `json:"status" db:"status"`
	Priority    Priority   `json:"priority" db:"priority"`
	DueAt       time.Time  `json:"due_at" db:"due_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at,omitempty"`
	Version     int        `json:"version" db:"version"`
	Flag        Flag       `json:"flag" db:"flag"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at,omitempty"`
}

type Status string
type Priority string
type Flag string

const StatusPending Status = "pending"
const StatusInProgress Status = "in_progress"
const StatusCompleted Status = "completed"

// StatusOverdue встречается только в старых записях, при расчётах равен StatusPending
const StatusOverdue Status = "overdue"

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"

const FlagActive Flag = "active"
const FlagDeleted Flag = "deleted"

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOverdue:
		return Status(s), nil
	}
	return "", fmt.Errorf("неизвестный статус %q", s)
}

func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", fmt.Errorf("неизвестный приоритет %q", s)
}

// Rank - вес приоритета для сортировки, high > medium > low
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

func (d *Deadline) IsDeleted() bool {
	return d.Flag == FlagDeleted
}
