package inmemory

import (
	"context"
	"deadlineMate/internal/notification"
	"sync"
)

type DismissalStorage struct {
	days map[string]notification.Set
	mtx  *sync.RWMutex
}

func NewDismissalStorage() *DismissalStorage {
	return &DismissalStorage{
		days: make(map[string]notification.Set),
		mtx:  &sync.RWMutex{},
	}
}

// Get отдаёт копию, чтобы вызывающий не менял хранилище в обход Put
func (s *DismissalStorage) Get(ctx context.Context, day string) (notification.Set, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return notification.NewSet(s.days[day].IDs()...), nil
}

func (s *DismissalStorage) Put(ctx context.Context, day string, set notification.Set) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.days[day] = notification.NewSet(set.IDs()...)
	return nil
}

func (s *DismissalStorage) Prune(ctx context.Context, beforeDay string) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	removed := 0
	for day := range s.days {
		// ключи YYYY-MM-DD сравниваются как строки
		if day < beforeDay {
			delete(s.days, day)
			removed++
		}
	}
	return removed, nil
}
