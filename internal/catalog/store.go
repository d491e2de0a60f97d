// Package catalog holds the product list fetched from the shop API.
package catalog

import (
	"context"
	"slices"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/query"

	"go.uber.org/zap"
)

// Store holds the full catalog for the lifetime of the process. It is
// replaced wholesale on every successful Load and emptied on failure.
type Store struct {
	source Source
	logger *zap.Logger

	mu       sync.RWMutex
	products []domain.Product
	loaded   bool
}

// NewStore creates an empty, not yet loaded catalog store
func NewStore(source Source, logger *zap.Logger) *Store {
	return &Store{
		source:   source,
		logger:   logger,
		products: []domain.Product{},
	}
}

// Load fetches the catalog once. There is no retry; callers decide whether
// to invoke Load again.
func (s *Store) Load(ctx context.Context) ([]domain.Product, error) {
	products, err := s.source.Fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.products = []domain.Product{}
		s.loaded = false

		s.logger.Warn("Catalog load failed",
			zap.String("source", s.source.String()),
			zap.Error(err),
		)
		return nil, &FetchError{Source: s.source.String(), Err: err}
	}

	s.products = products
	s.loaded = true

	s.logger.Info("Catalog loaded",
		zap.String("source", s.source.String()),
		zap.Int("products", len(products)),
	)
	return slices.Clone(products), nil
}

// Loaded reports whether the last Load succeeded
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Products returns a copy of the held list
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

// Categories lists the distinct categories of the held list
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.Categories(s.products)
}

// Find looks a product up by id
func (s *Store) Find(id domain.ProductID) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID.Equal(id) {
			return p, nil
		}
	}
	return domain.Product{}, ErrProductNotFound
}
