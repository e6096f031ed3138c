package postgres

import (
	"context"
	"deadlineMate/internal/logger"
	"deadlineMate/internal/models/deadline"
	repo "deadlineMate/internal/repository"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const selectColumns = `SELECT
				uuid,
				title,
				description,
				category,
				status,
				priority,
				due_at,
				created_at,
				updated_at,
				deleted_at,
				version,
				flag
				FROM deadlines`

type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string, poolCfg PoolConfig) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	if poolCfg.MaxConns > 0 {
		config.MaxConns = poolCfg.MaxConns
	}
	if poolCfg.MinConns > 0 {
		config.MinConns = poolCfg.MinConns
	}
	if poolCfg.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = poolCfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func slowQuery(start time.Time, threshold time.Duration, query string) {
	if elapsed := time.Since(start); elapsed > threshold {
		logger.Warn("Repository: Медленный запрос", zap.String("query", query), zap.Duration("ms", elapsed))
	}
}

func (s *Storage) Create(ctx context.Context, toCreate *deadline.Deadline) error {
	start := time.Now()
	defer slowQuery(start, 50*time.Millisecond, "create")

	query := `INSERT INTO deadlines
				(uuid, title, description, category, status, priority, due_at, created_at, flag, version)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1)
				RETURNING created_at, flag, version`

	err := s.pool.QueryRow(ctx, query,
		toCreate.UUID,
		toCreate.Title,
		toCreate.Description,
		toCreate.Category,
		toCreate.Status,
		toCreate.Priority,
		toCreate.DueAt,
		time.Now(),
		deadline.FlagActive,
	).Scan(&toCreate.CreatedAt, &toCreate.Flag, &toCreate.Version)

	if err != nil {
		logger.Error("Repository: Не удалось добавить дедлайн", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление дедлайна: %w", err)
	}
	return nil
}

func (s *Storage) Update(ctx context.Context, toUpdate *deadline.Deadline) error {
	start := time.Now()
	defer slowQuery(start, 100*time.Millisecond, "update")

	query := `UPDATE deadlines
			SET title = $1,
				description = $2,
				category = $3,
				status = $4,
				priority = $5,
				due_at = $6,
				flag = $7,
				deleted_at = $8,
				version = version + 1,
				updated_at = NOW()
			WHERE uuid = $9 AND version = $10
			RETURNING updated_at, version`

	err := s.pool.QueryRow(ctx, query,
		toUpdate.Title,
		toUpdate.Description,
		toUpdate.Category,
		toUpdate.Status,
		toUpdate.Priority,
		toUpdate.DueAt,
		toUpdate.Flag,
		toUpdate.DeletedAt,
		toUpdate.UUID,
		toUpdate.Version,
	).Scan(&toUpdate.UpdatedAt, &toUpdate.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.missingOrConflict(ctx, toUpdate)
		}
		logger.Error("Repository: Не удалось обновить дедлайн", err)
		return fmt.Errorf("обновление дедлайна: %w", err)
	}
	return nil
}

// мягкое удаление
func (s *Storage) DeleteSoft(ctx context.Context, toDelete *deadline.Deadline) error {
	start := time.Now()
	defer slowQuery(start, 100*time.Millisecond, "delete_soft")

	query := `UPDATE deadlines
				SET deleted_at = NOW(),
				updated_at = NOW(),
				flag = $1,
				version = version + 1
			WHERE uuid = $2 AND version = $3
			RETURNING deleted_at, updated_at, flag, version`

	err := s.pool.QueryRow(ctx, query, deadline.FlagDeleted, toDelete.UUID, toDelete.Version).
		Scan(&toDelete.DeletedAt, &toDelete.UpdatedAt, &toDelete.Flag, &toDelete.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.missingOrConflict(ctx, toDelete)
		}
		logger.Error("Repository: Мягкое удаление дедлайна", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("мягкое удаление: %w", err)
	}
	return nil
}

// missingOrConflict различает отсутствие записи и устаревшую версию
func (s *Storage) missingOrConflict(ctx context.Context, d *deadline.Deadline) error {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM deadlines WHERE uuid = $1)`, d.UUID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("проверка существования: %w", err)
	}
	if !exists {
		return repo.ErrNotFound
	}

	logger.Warn("Repository: Конфликт версий",
		zap.String("deadline_id", d.UUID.String()),
		zap.Int("expected_version", d.Version))
	return repo.ErrVersionConflict
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*deadline.Deadline, error) {
	start := time.Now()
	defer slowQuery(start, 100*time.Millisecond, "get_by_id")

	found, err := scanDeadline(s.pool.QueryRow(ctx, selectColumns+` WHERE uuid = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить дедлайн", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение дедлайна: %w", err)
	}
	return found, nil
}

func (s *Storage) ListActive(ctx context.Context, page, limit int) ([]*deadline.Deadline, error) {
	return s.listFlagged(ctx, page, limit, deadline.FlagActive)
}

func (s *Storage) ListDeleted(ctx context.Context, page, limit int) ([]*deadline.Deadline, error) {
	return s.listFlagged(ctx, page, limit, deadline.FlagDeleted)
}

func (s *Storage) listFlagged(ctx context.Context, page, limit int, flag deadline.Flag) ([]*deadline.Deadline, error) {
	start := time.Now()
	defer slowQuery(start, 50*time.Millisecond+10*time.Millisecond*time.Duration(limit), "list_flagged")

	offset := (page - 1) * limit
	query := selectColumns + `
				WHERE flag = $1
				ORDER BY created_at, uuid
				LIMIT $2 OFFSET $3`

	return s.queryList(ctx, query, flag, limit, offset)
}

// ListDueBetween - активные дедлайны со сроком в [from, to)
func (s *Storage) ListDueBetween(ctx context.Context, from, to time.Time) ([]*deadline.Deadline, error) {
	start := time.Now()
	defer slowQuery(start, 100*time.Millisecond, "list_due_between")

	query := selectColumns + `
				WHERE flag = $1
				AND due_at >= $2 AND due_at < $3
				ORDER BY due_at`

	return s.queryList(ctx, query, deadline.FlagActive, from, to)
}

// ListDueBefore - активные невыполненные дедлайны со сроком раньше before
func (s *Storage) ListDueBefore(ctx context.Context, before time.Time, limit int) ([]*deadline.Deadline, error) {
	start := time.Now()
	defer slowQuery(start, 50*time.Millisecond+10*time.Millisecond*time.Duration(limit), "list_due_before")

	query := selectColumns + `
				WHERE flag = $1
				AND status <> $2
				AND due_at < $3
				ORDER BY due_at
				LIMIT $4`

	return s.queryList(ctx, query, deadline.FlagActive, deadline.StatusCompleted, before, limit)
}

func (s *Storage) queryList(ctx context.Context, query string, args ...any) ([]*deadline.Deadline, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить дедлайны", err)
		return nil, fmt.Errorf("получение дедлайнов: %w", err)
	}
	defer rows.Close()

	res := []*deadline.Deadline{}
	for rows.Next() {
		found, err := scanDeadline(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования дедлайна", zap.Error(err))
			continue
		}
		res = append(res, found)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return res, nil
}

func scanDeadline(row pgx.Row) (*deadline.Deadline, error) {
	d := &deadline.Deadline{}
	err := row.Scan(
		&d.UUID,
		&d.Title,
		&d.Description,
		&d.Category,
		&d.Status,
		&d.Priority,
		&d.DueAt,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.DeletedAt,
		&d.Version,
		&d.Flag,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}
