package inmemory

import (
	"context"
	"deadlineMate/internal/logger"
	"deadlineMate/internal/models/deadline"
	repo "deadlineMate/internal/repository"
	"sync"
	"time"

	"github.com/google/uuid"
)

type DeadlineStorage struct {
	storage map[uuid.UUID]*deadline.Deadline
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewDeadlineStorage() *DeadlineStorage {
	return &DeadlineStorage{
		storage: make(map[uuid.UUID]*deadline.Deadline),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *DeadlineStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *DeadlineStorage) Create(ctx context.Context, toCreate *deadline.Deadline) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	toCreate.CreatedAt = time.Now()
	toCreate.Flag = deadline.FlagActive
	toCreate.Version = 1

	stored := *toCreate
	s.storage[toCreate.UUID] = &stored
	s.ids = append(s.ids, toCreate.UUID)
	return nil
}

// Update проверяет версию так же, как postgres-хранилище
func (s *DeadlineStorage) Update(ctx context.Context, toUpdate *deadline.Deadline) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existed, ok := s.storage[toUpdate.UUID]
	if !ok {
		return repo.ErrNotFound
	}
	if existed.Version != toUpdate.Version {
		return repo.ErrVersionConflict
	}

	now := time.Now()
	toUpdate.UpdatedAt = &now
	toUpdate.Version++

	stored := *toUpdate
	s.storage[toUpdate.UUID] = &stored
	return nil
}

// GetByID отдаёт копию, изменения сохраняются только через Update
func (s *DeadlineStorage) GetByID(ctx context.Context, id uuid.UUID) (*deadline.Deadline, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	found, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	res := *found
	return &res, nil
}

// мягкое удаление с изменением флага
func (s *DeadlineStorage) DeleteSoft(ctx context.Context, toDelete *deadline.Deadline) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existed, ok := s.storage[toDelete.UUID]
	if !ok {
		return repo.ErrNotFound
	}
	if existed.Version != toDelete.Version {
		return repo.ErrVersionConflict
	}

	now := time.Now()
	existed.UpdatedAt = &now
	existed.DeletedAt = &now
	existed.Flag = deadline.FlagDeleted
	existed.Version++

	*toDelete = *existed
	return nil
}

func (s *DeadlineStorage) ListActive(ctx context.Context, page, limit int) ([]*deadline.Deadline, error) {
	return s.listFlagged(page, limit, deadline.FlagActive), nil
}

func (s *DeadlineStorage) ListDeleted(ctx context.Context, page, limit int) ([]*deadline.Deadline, error) {
	return s.listFlagged(page, limit, deadline.FlagDeleted), nil
}

func (s *DeadlineStorage) listFlagged(page, limit int, flag deadline.Flag) []*deadline.Deadline {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*deadline.Deadline{}
	offset := (page - 1) * limit
	skipped := 0

	for _, id := range s.ids {
		if len(res) >= limit {
			break
		}

		found := s.storage[id]
		if found.Flag != flag {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}

		cp := *found
		res = append(res, &cp)
	}
	return res
}

// ListDueBetween - активные дедлайны со сроком в [from, to)
func (s *DeadlineStorage) ListDueBetween(ctx context.Context, from, to time.Time) ([]*deadline.Deadline, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*deadline.Deadline{}
	for _, id := range s.ids {
		found := s.storage[id]
		if found.Flag != deadline.FlagActive {
			continue
		}
		if found.DueAt.Before(from) || !found.DueAt.Before(to) {
			continue
		}

		cp := *found
		res = append(res, &cp)
	}
	return res, nil
}

// ListDueBefore - активные невыполненные дедлайны со сроком раньше before
func (s *DeadlineStorage) ListDueBefore(ctx context.Context, before time.Time, limit int) ([]*deadline.Deadline, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*deadline.Deadline{}
	for _, id := range s.ids {
		if len(res) >= limit {
			break
		}

		found := s.storage[id]
		if found.Flag == deadline.FlagActive &&
			found.Status != deadline.StatusCompleted &&
			found.DueAt.Before(before) {

			cp := *found
			res = append(res, &cp)
		}
	}
	return res, nil
}
