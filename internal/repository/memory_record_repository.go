package repository

import (
	"context"
	"slices"
	"sync"
)

type memoryRecordRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryRecordRepository creates a RecordRepository that lives only as
// long as the process
func NewMemoryRecordRepository() RecordRepository {
	return &memoryRecordRepository{records: make(map[string][]byte)}
}

func (r *memoryRecordRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.records[key]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return slices.Clone(value), nil
}

func (r *memoryRecordRepository) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[key] = slices.Clone(value)
	return nil
}

func (r *memoryRecordRepository) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, key)
	return nil
}

func (r *memoryRecordRepository) Close() error {
	return nil
}
