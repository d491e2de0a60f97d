package repository

import (
	"context"
	"errors"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrEmptyKey       = errors.New("record key must not be empty")
)

// RecordRepository stores opaque values under string keys. It backs
// client-side state such as the cart, which is written as one record per key.
type RecordRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
