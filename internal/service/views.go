package service

import (
	"context"
	"deadlineMate/internal/calendar"
	"deadlineMate/internal/classify"
	"deadlineMate/internal/logger"
	"deadlineMate/internal/notification"
	"deadlineMate/internal/timecmp"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// личный список дедлайнов небольшой, дашборд берёт его целиком
const defaultViewLimit = 1000

// Snapshot - дедлайны, размеченные на один и тот же момент Now
type Snapshot struct {
	Now   time.Time
	Items []classify.Annotated
}

type CalendarView struct {
	Now     time.Time
	Month   time.Time
	Buckets []calendar.Bucket
}

type NotificationsView struct {
	Now time.Time
	notification.Result
}

// Dashboard - все активные дедлайны по возрастанию срока
func (s *DeadlineService) Dashboard(ctx context.Context) (Snapshot, error) {
	now := s.Now()

	list, err := s.repo.ListActive(ctx, 1, s.viewLimit)
	if err != nil {
		return Snapshot{}, fmt.Errorf("получение дедлайнов: %w", err)
	}
	s.warnIfTruncated("dashboard", len(list))

	items := classify.AnnotateAll(list, now)
	calendar.SortByTime(items)
	return Snapshot{Now: now, Items: items}, nil
}

// Calendar раскладывает дедлайны по сетке месяца, в который попадает month
func (s *DeadlineService) Calendar(ctx context.Context, month time.Time) (CalendarView, error) {
	now := s.Now()
	y, m, _ := month.In(s.location).Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, s.location)

	from, to := calendar.Range(first)
	list, err := s.repo.ListDueBetween(ctx, from, to)
	if err != nil {
		return CalendarView{}, fmt.Errorf("получение дедлайнов за %s: %w", first.Format("2006-01"), err)
	}

	return CalendarView{
		Now:     now,
		Month:   first,
		Buckets: calendar.Bucketize(classify.AnnotateAll(list, now), first),
	}, nil
}

// Notifications - баннер: просроченные, на сегодня и важные на завтра, без скрытых сегодня
func (s *DeadlineService) Notifications(ctx context.Context) (NotificationsView, error) {
	now := s.Now()

	// всё, что может попасть в баннер, заканчивается вместе с завтрашним днём
	before := timecmp.EndOfDay(timecmp.EndOfDay(now))
	list, err := s.repo.ListDueBefore(ctx, before, s.viewLimit)
	if err != nil {
		return NotificationsView{}, fmt.Errorf("получение дедлайнов: %w", err)
	}
	// ListDueBefore отдаёт старые первыми, при обрезке сегодняшние могут не попасть в баннер
	s.warnIfTruncated("notifications", len(list))

	dismissed, err := s.dismissals.DismissedOn(ctx, now)
	if err != nil {
		return NotificationsView{}, err
	}

	res := notification.Select(classify.AnnotateAll(list, now), dismissed, now, s.notificationLimit)
	return NotificationsView{Now: now, Result: res}, nil
}

func (s *DeadlineService) warnIfTruncated(view string, got int) {
	if got < s.viewLimit {
		return
	}
	logger.Warn("Service: Список дедлайнов обрезан по лимиту",
		zap.String("view", view),
		zap.Int("limit", s.viewLimit))
}

func (s *DeadlineService) Dismiss(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetDeadline(ctx, id); err != nil {
		return err
	}

	if err := s.dismissals.Dismiss(ctx, id, s.Now()); err != nil {
		return fmt.Errorf("скрытие уведомления: %w", err)
	}

	logger.Info("Service: Уведомление скрыто до конца дня", zap.String("deadline_id", id.String()))
	return nil
}

// PruneDismissals удаляет наборы скрытых уведомлений за прошедшие дни
func (s *DeadlineService) PruneDismissals(ctx context.Context) (int, error) {
	return s.dismissals.Prune(ctx, s.Now())
}
