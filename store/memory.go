package store

import (
	"context"
	"fmt"
	"sync"

	"recipebox/models"
)

// Memory keeps recipes in process. It backs tests and the "memory" driver.
type Memory struct {
	mu      sync.RWMutex
	recipes *models.Collection
}

func NewMemory(seed ...models.Recipe) *Memory {
	m := &Memory{recipes: models.NewCollection()}
	for _, r := range seed {
		m.recipes.Set(prepare(r))
	}
	return m
}

func (m *Memory) List(ctx context.Context) (*models.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.recipes.Clone(), nil
}

func (m *Memory) Get(ctx context.Context, id string) (models.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.recipes.Get(id)
	if !ok {
		return models.Recipe{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return r, nil
}

func (m *Memory) Create(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	r = prepare(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipes.Set(r)
	return r, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.recipes.Delete(id) {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return nil
}

func (m *Memory) UpdateField(ctx context.Context, id, field string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recipes.Get(id)
	if !ok {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	updated, err := applyField(r, field, value)
	if err != nil {
		return err
	}
	m.recipes.Set(updated)
	return nil
}

func (m *Memory) SetFavorite(ctx context.Context, id, uid string, favorite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recipes.Get(id)
	if !ok {
		return fmt.Errorf("favorite %s: %w", id, ErrNotFound)
	}
	r.FavoritedBy = models.WithFavorite(r.FavoritedBy, uid, favorite)
	m.recipes.Set(r)
	return nil
}

func (m *Memory) Close() error { return nil }
