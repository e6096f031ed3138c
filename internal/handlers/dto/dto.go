package dto

import (
	"deadlineMate/internal/calendar"
	"deadlineMate/internal/classify"
	"deadlineMate/internal/models/deadline"
	"time"

	"github.com/google/uuid"
)

type CreateDeadlineRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Priority    deadline.Priority `json:"priority"`
	DueAt       time.Time         `json:"due_at"`
}

type UpdateDeadlineRequest struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Category    *string            `json:"category,omitempty"`
	Status      *deadline.Status   `json:"status,omitempty"`
	Priority    *deadline.Priority `json:"priority,omitempty"`
	DueAt       *time.Time         `json:"due_at,omitempty"`
}

// Options переводит заполненные поля запроса в опции обновления
func (r UpdateDeadlineRequest) Options() []deadline.Option {
	options := []deadline.Option{}
	if r.Title != nil {
		options = append(options, deadline.WithTitle(*r.Title))
	}
	if r.Description != nil {
		options = append(options, deadline.WithDescription(*r.Description))
	}
	if r.Category != nil {
		options = append(options, deadline.WithCategory(*r.Category))
	}
	if r.Status != nil {
		options = append(options, deadline.WithStatus(*r.Status))
	}
	if r.Priority != nil {
		options = append(options, deadline.WithPriority(*r.Priority))
	}
	if r.DueAt != nil {
		options = append(options, deadline.WithDueAt(*r.DueAt))
	}
	return options
}

type DeadlineResponse struct {
	UUID            uuid.UUID      `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Category        string         `json:"category,omitempty"`
	Status          string         `json:"status"`
	EffectiveStatus string         `json:"effective_status"`
	Priority        string         `json:"priority"`
	DueAt           time.Time      `json:"due_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       *time.Time     `json:"updated_at,omitempty"`
	DeletedAt       *time.Time     `json:"deleted_at,omitempty"`
	Version         int            `json:"version"`
	IsToday         bool           `json:"is_today"`
	IsOverdue       bool           `json:"is_overdue"`
	DaysUntilDue    int            `json:"days_until_due"`
	Badge           classify.Badge `json:"badge"`
}

func FromAnnotated(a classify.Annotated, now time.Time) DeadlineResponse {
	d := a.Deadline
	return DeadlineResponse{
		UUID:            d.UUID,
		Title:           d.Title,
		Description:     d.Description,
		Category:        d.Category,
		Status:          string(d.Status),
		EffectiveStatus: string(a.EffectiveStatus),
		Priority:        string(d.Priority),
		DueAt:           d.DueAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		DeletedAt:       d.DeletedAt,
		Version:         d.Version,
		IsToday:         a.IsToday,
		IsOverdue:       a.IsOverdue,
		DaysUntilDue:    a.DaysUntilDue,
		Badge:           classify.FormatBadge(a, now),
	}
}

func FromDeadline(d *deadline.Deadline, now time.Time) DeadlineResponse {
	return FromAnnotated(classify.Annotate(d, now), now)
}

func FromDeadlineList(deadlines []*deadline.Deadline, now time.Time) []DeadlineResponse {
	result := make([]DeadlineResponse, len(deadlines))
	for i, d := range deadlines {
		result[i] = FromDeadline(d, now)
	}
	return result
}

func FromAnnotatedList(items []classify.Annotated, now time.Time) []DeadlineResponse {
	result := make([]DeadlineResponse, len(items))
	for i, a := range items {
		result[i] = FromAnnotated(a, now)
	}
	return result
}

type DashboardResponse struct {
	Now       time.Time          `json:"now"`
	Deadlines []DeadlineResponse `json:"deadlines"`
}

type CalendarDayResponse struct {
	Date      string             `json:"date"`
	InMonth   bool               `json:"in_month"`
	Deadlines []DeadlineResponse `json:"deadlines"`
}

type CalendarResponse struct {
	Now   time.Time             `json:"now"`
	Month string                `json:"month"`
	Days  []CalendarDayResponse `json:"days"`
}

func FromBuckets(buckets []calendar.Bucket, now time.Time) []CalendarDayResponse {
	result := make([]CalendarDayResponse, len(buckets))
	for i, b := range buckets {
		result[i] = CalendarDayResponse{
			Date:      b.Key,
			InMonth:   b.InMonth,
			Deadlines: FromAnnotatedList(b.Deadlines, now),
		}
	}
	return result
}

type NotificationsResponse struct {
	Now       time.Time          `json:"now"`
	Items     []DeadlineResponse `json:"items"`
	Remaining int                `json:"remaining"`
	Total     int                `json:"total"`
}
