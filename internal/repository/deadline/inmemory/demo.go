package inmemory

import (
	"context"
	"deadlineMate/internal/logger"
	"deadlineMate/internal/models/deadline"
	"deadlineMate/internal/timecmp"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yml
var demoFixture []byte

type demoEntry struct {
	Title     string `yaml:"title"`
	Category  string `yaml:"category"`
	Priority  string `yaml:"priority"`
	Status    string `yaml:"status"`
	DayOffset int    `yaml:"day_offset"`
	Time      string `yaml:"time"`
}

// NewDemoStorage - хранилище с тестовыми данными, используется когда база не настроена
func NewDemoStorage(ctx context.Context, now time.Time) (*DeadlineStorage, error) {
	storage := NewDeadlineStorage()
	if err := Seed(ctx, storage, demoFixture, now); err != nil {
		return nil, err
	}
	return storage, nil
}

func Seed(ctx context.Context, storage *DeadlineStorage, fixture []byte, now time.Time) error {
	var entries []demoEntry
	if err := yaml.Unmarshal(fixture, &entries); err != nil {
		return fmt.Errorf("разбор демо-данных: %w", err)
	}

	day := timecmp.StartOfDay(now)
	for i, e := range entries {
		clock, err := time.Parse("15:04", e.Time)
		if err != nil {
			return fmt.Errorf("запись %d: неверное время %q: %w", i, e.Time, err)
		}
		status, err := deadline.ParseStatus(e.Status)
		if err != nil {
			return fmt.Errorf("запись %d: %w", i, err)
		}
		priority, err := deadline.ParsePriority(e.Priority)
		if err != nil {
			return fmt.Errorf("запись %d: %w", i, err)
		}

		due := time.Date(day.Year(), day.Month(), day.Day()+e.DayOffset,
			clock.Hour(), clock.Minute(), 0, 0, day.Location())

		err = storage.Create(ctx, &deadline.Deadline{
			UUID:     uuid.New(),
			Title:    e.Title,
			Category: e.Category,
			Status:   status,
			Priority: priority,
			DueAt:    due,
		})
		if err != nil {
			return fmt.Errorf("запись %d: %w", i, err)
		}
	}

	logger.Info("Repository: Демо-данные загружены", zap.Int("count", len(entries)))
	return nil
}
