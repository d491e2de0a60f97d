// Package cart keeps the shopping cart as a single persisted record.
//
// Every mutation reads the current record, changes it and writes it back
// before returning, so there is no in-memory state that can drift from
// storage. Entries carry a stable id; removal by id never depends on what a
// caller saw earlier.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the cart kept under one record key
type Store struct {
	repo   repository.RecordRepository
	key    string
	logger *zap.Logger

	// serializes read-modify-write cycles within this process
	mu *sync.Mutex
}

// NewStore creates a cart bound to key
func NewStore(repo repository.RecordRepository, key string, logger *zap.Logger) *Store {
	return &Store{
		repo:   repo,
		key:    key,
		logger: logger.With(zap.String("cart_key", key)),
		mu:     &sync.Mutex{},
	}
}

// read loads the persisted sequence. backfilled is true when legacy entries
// without an entry id were given one and the record needs rewriting.
func (s *Store) read(ctx context.Context) (items []domain.CartItem, backfilled bool, err error) {
	data, err := s.repo.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return []domain.CartItem{}, false, nil
		}
		return nil, false, &StorageError{Op: "read", Key: s.key, Err: err}
	}

	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, &StorageError{Op: "decode", Key: s.key, Err: errors.Join(ErrCorruptRecord, err)}
	}
	if items == nil {
		items = []domain.CartItem{}
	}

	for i := range items {
		if items[i].EntryID == uuid.Nil {
			items[i].EntryID = uuid.New()
			backfilled = true
		}
	}

	return items, backfilled, nil
}

func (s *Store) write(ctx context.Context, items []domain.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return &StorageError{Op: "encode", Key: s.key, Err: err}
	}

	if err := s.repo.Put(ctx, s.key, data); err != nil {
		return &StorageError{Op: "write", Key: s.key, Err: err}
	}
	return nil
}

// List returns the current cart, empty when nothing has been stored yet
func (s *Store) List(ctx context.Context) ([]domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, backfilled, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	if backfilled {
		if err := s.write(ctx, items); err != nil {
			return nil, err
		}
		s.logger.Info("Assigned entry ids to legacy cart items", zap.Int("items", len(items)))
	}

	return items, nil
}

// Add appends a copy of product and persists the cart. Adding the same
// product twice yields two entries.
func (s *Store) Add(ctx context.Context, product domain.Product) (domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, _, err := s.read(ctx)
	if err != nil {
		return domain.CartItem{}, err
	}

	item := domain.NewCartItem(product)
	items = append(items, item)

	if err := s.write(ctx, items); err != nil {
		return domain.CartItem{}, err
	}

	s.logger.Debug("Added cart item",
		zap.String("entry_id", item.EntryID.String()),
		zap.String("product_id", product.ID.String()),
		zap.Int("items", len(items)),
	)
	return item, nil
}

// RemoveAt removes the item at index of the freshly read sequence. An index
// outside the sequence returns ErrOutOfRange and writes nothing.
func (s *Store) RemoveAt(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, _, err := s.read(ctx)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(items) {
		return ErrOutOfRange
	}

	return s.write(ctx, slices.Delete(items, index, index+1))
}

// RemoveEntry removes the item with the given entry id
func (s *Store) RemoveEntry(ctx context.Context, entryID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, _, err := s.read(ctx)
	if err != nil {
		return err
	}

	index := slices.IndexFunc(items, func(item domain.CartItem) bool {
		return item.EntryID == entryID
	})
	if index < 0 {
		return ErrEntryNotFound
	}

	return s.write(ctx, slices.Delete(items, index, index+1))
}

// RemoveProduct removes every entry of the product and reports how many
// were removed. Nothing is written when the product is not in the cart.
func (s *Store) RemoveProduct(ctx context.Context, productID domain.ProductID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, _, err := s.read(ctx)
	if err != nil {
		return 0, err
	}

	before := len(items)
	items = slices.DeleteFunc(items, func(item domain.CartItem) bool {
		return item.Product.ID.Equal(productID)
	})

	removed := before - len(items)
	if removed == 0 {
		return 0, nil
	}

	if err := s.write(ctx, items); err != nil {
		return 0, err
	}
	return removed, nil
}

// Clear deletes the cart record
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, s.key); err != nil {
		return &StorageError{Op: "clear", Key: s.key, Err: err}
	}
	return nil
}

// Total sums the prices of the current cart
func (s *Store) Total(ctx context.Context) (float64, error) {
	items, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return Sum(items), nil
}

// Sum adds up item prices; prices were coerced to numbers when decoded
func Sum(items []domain.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Product.Price
	}
	return total
}
