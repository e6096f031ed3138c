package sqlite

import (
	"context"
	"database/sql"
	"deadlineMate/internal/logger"
	"deadlineMate/internal/notification"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Storage хранит скрытые уведомления в локальном файле SQLite на устройстве пользователя
type Storage struct {
	db *sql.DB
}

func New(ctx context.Context, path string) (*Storage, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("создание каталога %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Error("Repository: Не удалось открыть SQLite", err, zap.String("path", path))
		return nil, fmt.Errorf("открытие базы: %w", err)
	}
	// один писатель, иначе SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("включение WAL: %w", err)
	}

	if err := createTable(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Repository: Хранилище скрытых уведомлений открыто", zap.String("path", path))
	return &Storage{db: db}, nil
}

func createTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS dismissals (
			day          TEXT NOT NULL,
			deadline_id  TEXT NOT NULL,
			dismissed_at TEXT NOT NULL,
			PRIMARY KEY (day, deadline_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("создание таблицы: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	logger.Info("Repository: Закрытие SQLite")
	return s.db.Close()
}

func (s *Storage) Get(ctx context.Context, day string) (notification.Set, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT deadline_id FROM dismissals WHERE day = ?`, day)
	if err != nil {
		logger.Error("Repository: Не удалось получить скрытые уведомления", err, zap.String("day", day))
		return nil, fmt.Errorf("получение скрытых уведомлений: %w", err)
	}
	defer rows.Close()

	set := notification.NewSet()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("сканирование строки: %w", err)
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			logger.Warn("Repository: Некорректный id в dismissals", zap.String("id", raw), zap.Error(err))
			continue
		}
		set.Add(id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return set, nil
}

// Put заменяет набор за день целиком
func (s *Storage) Put(ctx context.Context, day string, set notification.Set) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM dismissals WHERE day = ?`, day); err != nil {
		return fmt.Errorf("очистка дня %s: %w", day, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for id := range set {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO dismissals (day, deadline_id, dismissed_at) VALUES (?, ?, ?)`,
			day, id.String(), now)
		if err != nil {
			return fmt.Errorf("добавление %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Repository: Не удалось сохранить скрытые уведомления", err, zap.String("day", day))
		return fmt.Errorf("фиксация транзакции: %w", err)
	}
	return nil
}

// Prune возвращает число удалённых дней, а не строк
func (s *Storage) Prune(ctx context.Context, beforeDay string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback()

	var days int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(DISTINCT day) FROM dismissals WHERE day < ?`, beforeDay).Scan(&days); err != nil {
		return 0, fmt.Errorf("подсчёт старых дней: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM dismissals WHERE day < ?`, beforeDay); err != nil {
		return 0, fmt.Errorf("удаление старых дней: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("фиксация транзакции: %w", err)
	}
	return days, nil
}
