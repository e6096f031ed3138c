package notification

import (
	"context"
	"deadlineMate/internal/logger"
	"deadlineMate/internal/timecmp"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Set - идентификаторы дедлайнов, скрытых пользователем за один день
type Set map[uuid.UUID]struct{}

func NewSet(ids ...uuid.UUID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Add(id uuid.UUID) {
	s[id] = struct{}{}
}

func (s Set) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// Store - локальное хранилище скрытых уведомлений, ключ - день в формате YYYY-MM-DD
type Store interface {
	Get(ctx context.Context, day string) (Set, error)
	Put(ctx context.Context, day string, set Set) error
	Prune(ctx context.Context, beforeDay string) (int, error)
}

type Dismissals struct {
	store Store
}

func NewDismissals(store Store) *Dismissals {
	return &Dismissals{store: store}
}

// DismissedOn - набор скрытых за календарный день now. Новый день начинается с пустого набора
func (d *Dismissals) DismissedOn(ctx context.Context, now time.Time) (Set, error) {
	day := timecmp.DayKey(now)
	set, err := d.store.Get(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("получение скрытых уведомлений за %s: %w", day, err)
	}
	if set == nil {
		set = NewSet()
	}
	return set, nil
}

func (d *Dismissals) Dismiss(ctx context.Context, id uuid.UUID, now time.Time) error {
	day := timecmp.DayKey(now)

	set, err := d.DismissedOn(ctx, now)
	if err != nil {
		return err
	}
	if set.Has(id) {
		return nil
	}
	set.Add(id)

	if err := d.store.Put(ctx, day, set); err != nil {
		return fmt.Errorf("сохранение скрытых уведомлений за %s: %w", day, err)
	}

	logger.Debug("Notification: Уведомление скрыто",
		zap.String("deadline_id", id.String()),
		zap.String("day", day))
	return nil
}

// Prune удаляет наборы за дни раньше now
func (d *Dismissals) Prune(ctx context.Context, now time.Time) (int, error) {
	removed, err := d.store.Prune(ctx, timecmp.DayKey(now))
	if err != nil {
		return 0, fmt.Errorf("очистка скрытых уведомлений: %w", err)
	}
	return removed, nil
}
