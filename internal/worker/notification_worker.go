package worker

import (
	"context"
	"deadlineMate/internal/logger"
	"deadlineMate/internal/service"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const defaultInterval = time.Minute

type NotificationSource interface {
	Notifications(context.Context) (service.NotificationsView, error)
	PruneDismissals(context.Context) (int, error)
}

// Report - итог одного пересчёта баннера, счётчики по всем подходящим дедлайнам, не только показанным
type Report struct {
	At       time.Time
	Overdue  int
	Today    int
	Tomorrow int
	Shown    int
	Total    int
	Pruned   int
}

// NotificationWorker периодически пересчитывает баннер и чистит скрытые за прошлые дни уведомления
type NotificationWorker struct {
	source   NotificationSource
	interval time.Duration
}

func NewNotificationWorker(source NotificationSource, interval *time.Duration) *NotificationWorker {
	intervalToSet := defaultInterval
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}

	return &NotificationWorker{
		source:   source,
		interval: intervalToSet,
	}
}

// Start выполняет проверку сразу и затем по тикеру до отмены ctx
func (w *NotificationWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: Пересчёт уведомлений запущен", zap.Duration("interval", w.interval))
	w.run(ctx)

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Пересчёт уведомлений останавливается")
			return
		}
	}
}

func (w *NotificationWorker) run(ctx context.Context) {
	if _, err := w.Check(ctx); err != nil {
		logger.Warn("Worker: Ошибка пересчёта уведомлений", zap.Error(err))
	}
}

func (w *NotificationWorker) Check(ctx context.Context) (Report, error) {
	start := time.Now()

	view, err := w.source.Notifications(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("получение уведомлений: %w", err)
	}

	report := Report{
		At:       view.Now,
		Overdue:  view.Overdue,
		Today:    view.Today,
		Tomorrow: view.Tomorrow,
		Shown:    len(view.Items),
		Total:    view.Total,
	}

	pruned, err := w.source.PruneDismissals(ctx)
	if err != nil {
		return report, fmt.Errorf("очистка скрытых уведомлений: %w", err)
	}
	report.Pruned = pruned

	logger.Info("Worker: Уведомления пересчитаны",
		zap.Duration("ms", time.Since(start)),
		zap.Int("overdue", report.Overdue),
		zap.Int("today", report.Today),
		zap.Int("tomorrow", report.Tomorrow),
		zap.Int("total", report.Total),
		zap.Int("pruned_days", report.Pruned),
	)

	return report, nil
}
