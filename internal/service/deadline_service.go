package service

import (
	"context"
	"deadlineMate/internal/logger"
	"deadlineMate/internal/models/deadline"
	"deadlineMate/internal/notification"
	rep "deadlineMate/internal/repository"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

const resourceDeadline = "Дедлайн"

const maxPageLimit = 100

type DeadlineService struct {
	repo              DeadlineRepository
	dismissals        *notification.Dismissals
	clock             func() time.Time
	location          *time.Location
	notificationLimit int
	viewLimit         int
}

func NewDeadlineService(repo DeadlineRepository, dismissals *notification.Dismissals, options ...Option) *DeadlineService {
	s := &DeadlineService{
		repo:              repo,
		dismissals:        dismissals,
		clock:             time.Now,
		location:          time.Local,
		notificationLimit: notification.DefaultLimit,
		viewLimit:         defaultViewLimit,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Now - текущее время в часовом поясе пользователя
func (s *DeadlineService) Now() time.Time {
	return s.clock().In(s.location)
}

func (s *DeadlineService) Location() *time.Location {
	return s.location
}

func (s *DeadlineService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка хранилища: %w", err)
	}
	return nil
}

func (s *DeadlineService) CreateDeadline(ctx context.Context, title, description, category string, priority deadline.Priority, dueAt time.Time) (*deadline.Deadline, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}
	if dueAt.IsZero() {
		return nil, NewValidationError("due_at", "срок должен быть задан")
	}
	if priority == "" {
		priority = deadline.PriorityMedium
	}
	if _, err := deadline.ParsePriority(string(priority)); err != nil {
		return nil, NewValidationError("priority", err.Error())
	}

	d := &deadline.Deadline{
		UUID:        uuid.New(),
		Title:       title,
		Description: description,
		Category:    strings.TrimSpace(category),
		Status:      deadline.StatusPending,
		Priority:    priority,
		DueAt:       dueAt,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("создание дедлайна: %w", err)
	}

	logger.Info("Service: Дедлайн создан", zap.String("deadline_id", d.UUID.String()))
	return d, nil
}

func (s *DeadlineService) GetDeadline(ctx context.Context, id uuid.UUID) (*deadline.Deadline, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Дедлайн не найден", zap.String("target_id", id.String()))
			return nil, NewNotFound(resourceDeadline, id.String())
		}
		return nil, fmt.Errorf("получение дедлайна: %w", err)
	}
	return d, nil
}

func (s *DeadlineService) getActive(ctx context.Context, id uuid.UUID) (*deadline.Deadline, error) {
	d, err := s.GetDeadline(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.IsDeleted() {
		return nil, NewBusinessError(CodeDeadlineDeleted, "дедлайн удалён", ToDetail("id", id.String()))
	}
	return d, nil
}

func validatePage(page, limit int) error {
	if page < 1 {
		return NewValidationError("page", "должно быть не меньше 1")
	}
	if limit < 1 || limit > maxPageLimit {
		return NewValidationError("limit", fmt.Sprintf("должно быть от 1 до %d", maxPageLimit))
	}
	return nil
}

func (s *DeadlineService) ListDeadlines(ctx context.Context, page, limit int) ([]*deadline.Deadline, error) {
	if err := validatePage(page, limit); err != nil {
		return nil, err
	}

	list, err := s.repo.ListActive(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("получение дедлайнов: %w", err)
	}
	return list, nil
}

func (s *DeadlineService) ListDeleted(ctx context.Context, page, limit int) ([]*deadline.Deadline, error) {
	if err := validatePage(page, limit); err != nil {
		return nil, err
	}

	list, err := s.repo.ListDeleted(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("получение удалённых дедлайнов: %w", err)
	}
	return list, nil
}

func (s *DeadlineService) UpdateDeadline(ctx context.Context, id uuid.UUID, options ...deadline.Option) (*deadline.Deadline, error) {
	d, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}

	deadline.Apply(d, options...)

	if strings.TrimSpace(d.Title) == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}
	if _, err := deadline.ParseStatus(string(d.Status)); err != nil {
		return nil, NewValidationError("status", err.Error())
	}
	if _, err := deadline.ParsePriority(string(d.Priority)); err != nil {
		return nil, NewValidationError("priority", err.Error())
	}

	if err := s.save(ctx, d); err != nil {
		return nil, err
	}

	logger.Info("Service: Дедлайн обновлён", zap.String("deadline_id", id.String()), zap.Int("version", d.Version))
	return d, nil
}

func (s *DeadlineService) CompleteDeadline(ctx context.Context, id uuid.UUID) (*deadline.Deadline, error) {
	d, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status == deadline.StatusCompleted {
		return nil, NewBusinessError(CodeAlreadyCompleted, "дедлайн уже выполнен", ToDetail("id", id.String()))
	}

	d.Status = deadline.StatusCompleted
	if err := s.save(ctx, d); err != nil {
		return nil, err
	}

	logger.Info("Service: Дедлайн выполнен", zap.String("deadline_id", id.String()))
	return d, nil
}

func (s *DeadlineService) DeleteDeadline(ctx context.Context, id uuid.UUID) error {
	d, err := s.getActive(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteSoft(ctx, d); err != nil {
		return s.mapRepoError(err, id, "удаление дедлайна")
	}

	logger.Info("Service: Дедлайн удалён", zap.String("deadline_id", id.String()))
	return nil
}

func (s *DeadlineService) RestoreDeadline(ctx context.Context, id uuid.UUID) (*deadline.Deadline, error) {
	d, err := s.GetDeadline(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.IsDeleted() {
		return nil, NewBusinessError(CodeNotDeleted, "дедлайн не удалён", ToDetail("id", id.String()))
	}

	d.Flag = deadline.FlagActive
	d.DeletedAt = nil
	if err := s.save(ctx, d); err != nil {
		return nil, err
	}

	logger.Info("Service: Дедлайн восстановлен", zap.String("deadline_id", id.String()))
	return d, nil
}

func (s *DeadlineService) save(ctx context.Context, d *deadline.Deadline) error {
	if err := s.repo.Update(ctx, d); err != nil {
		return s.mapRepoError(err, d.UUID, "обновление дедлайна")
	}
	return nil
}

func (s *DeadlineService) mapRepoError(err error, id uuid.UUID, operation string) error {
	switch {
	case errors.Is(err, rep.ErrNotFound):
		return NewNotFound(resourceDeadline, id.String())
	case errors.Is(err, rep.ErrVersionConflict):
		logger.Warn("Service: Конфликт версий", zap.String("deadline_id", id.String()))
		busErr := NewBusinessError(CodeVersionConflict, "дедлайн был изменён параллельно", ToDetail("id", id.String()))
		busErr.Err = err
		return busErr
	}
	return fmt.Errorf("%s: %w", operation, err)
}
