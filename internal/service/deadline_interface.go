package service

import (
	"context"
	"deadlineMate/internal/models/deadline"
	"time"

	"github.com/google/uuid"
)

type DeadlineRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *deadline.Deadline) error
	Update(context.Context, *deadline.Deadline) error
	GetByID(context.Context, uuid.UUID) (*deadline.Deadline, error)
	DeleteSoft(context.Context, *deadline.Deadline) error
	ListActive(ctx context.Context, page, limit int) ([]*deadline.Deadline, error)
	ListDeleted(ctx context.Context, page, limit int) ([]*deadline.Deadline, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*deadline.Deadline, error)
	ListDueBefore(ctx context.Context, before time.Time, limit int) ([]*deadline.Deadline, error)
}
