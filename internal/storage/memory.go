package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/veritas-news/veritas/internal/models"
)

// MemoryStore holds predictions in a map for the lifetime of the process.
type MemoryStore struct {
	predictions map[string]*models.Prediction
	mu          sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		predictions: make(map[string]*models.Prediction),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, exists := s.predictions[id]
	if !exists {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) Save(_ context.Context, p *models.Prediction) error {
	cp := *p
	s.mu.Lock()
	defer s.mu.Unlock()
	s.predictions[p.ID] = &cp
	return nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]*models.Prediction, error) {
	s.mu.RLock()
	result := make([]*models.Prediction, 0, len(s.predictions))
	for _, p := range s.predictions {
		cp := *p
		result = append(result, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.predictions, id)
}

func (s *MemoryStore) Close() error { return nil }
