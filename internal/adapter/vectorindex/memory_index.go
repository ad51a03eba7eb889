package vectorindex

import (
	"context"
	"sync"

	"quizzify/internal/domain"

	"go.uber.org/zap"
)

type memoryStore struct {
	mu      sync.RWMutex
	records []record
}

func (m *memoryStore) put(_ context.Context, records []record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	return nil
}

func (m *memoryStore) all(_ context.Context) ([]record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]record, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memoryStore) count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// NewMemoryIndex returns an index that lives for the lifetime of the process.
func NewMemoryIndex(embedder domain.EmbeddingService, l *zap.Logger) (*Index, error) {
	return newIndex("memory", embedder, &memoryStore{}, l)
}
