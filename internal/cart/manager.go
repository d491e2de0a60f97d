package cart

import (
	"hash/fnv"
	"sync"

	"storefront/internal/repository"

	"go.uber.org/zap"
)

const lockStripes = 64

// Manager hands out cart stores for arbitrary keys. Stores for the same key
// share a lock stripe, so concurrent requests on one cart are serialized
// without keeping per-key state around.
type Manager struct {
	repo   repository.RecordRepository
	logger *zap.Logger
	locks  [lockStripes]sync.Mutex
}

// NewManager creates a Manager over repo
func NewManager(repo repository.RecordRepository, logger *zap.Logger) *Manager {
	return &Manager{
		repo:   repo,
		logger: logger,
	}
}

// Store returns the cart stored under key
func (m *Manager) Store(key string) *Store {
	h := fnv.New32a()
	h.Write([]byte(key))

	s := NewStore(m.repo, key, m.logger)
	s.mu = &m.locks[h.Sum32()%lockStripes]
	return s
}
