package handlers

import (
	"context"
	"deadlineMate/internal/models/deadline"
	"deadlineMate/internal/service"
	"time"

	"github.com/google/uuid"
)

type Service interface {
	Now() time.Time
	Location() *time.Location
	HealthCheck(context.Context) error

	CreateDeadline(ctx context.Context, title, description, category string, priority deadline.Priority, dueAt time.Time) (*deadline.Deadline, error)
	GetDeadline(context.Context, uuid.UUID) (*deadline.Deadline, error)
	ListDeadlines(ctx context.Context, page, limit int) ([]*deadline.Deadline, error)
	ListDeleted(ctx context.Context, page, limit int) ([]*deadline.Deadline, error)
	UpdateDeadline(context.Context, uuid.UUID, ...deadline.Option) (*deadline.Deadline, error)
	CompleteDeadline(context.Context, uuid.UUID) (*deadline.Deadline, error)
	DeleteDeadline(context.Context, uuid.UUID) error
	RestoreDeadline(context.Context, uuid.UUID) (*deadline.Deadline, error)

	Dashboard(context.Context) (service.Snapshot, error)
	Calendar(ctx context.Context, month time.Time) (service.CalendarView, error)
	Notifications(context.Context) (service.NotificationsView, error)
	Dismiss(context.Context, uuid.UUID) error
}

var _ Service = (*service.DeadlineService)(nil)
