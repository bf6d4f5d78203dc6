package store

import (
	"context"
	"sync"

	"citylink/internal/models"
)

type memoryEntry struct {
	item    *models.ContentItem
	version Version
}

// MemoryStore 进程内存储，主要用于本地开发和测试。
// 读写都走深拷贝，保证调用方拿到的永远是快照。
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.ContentItem, Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.items[id]
	if !ok {
		return nil, 0, ErrNotFound
	}
	return entry.item.Clone(), entry.version, nil
}

func (s *MemoryStore) Put(ctx context.Context, id string, item *models.ContentItem, expected Version) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	if entry.version != expected {
		return ErrConflict
	}
	s.items[id] = memoryEntry{item: item.Clone(), version: expected + 1}
	return nil
}

func (s *MemoryStore) Insert(ctx context.Context, item *models.ContentItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; ok {
		return ErrExists
	}
	s.items[item.ID] = memoryEntry{item: item.Clone(), version: 1}
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*models.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*models.ContentItem, 0, len(s.items))
	for _, entry := range s.items {
		items = append(items, entry.item.Clone())
	}
	return items, nil
}
