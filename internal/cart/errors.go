package cart

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange    = errors.New("cart index out of range")
	ErrEntryNotFound = errors.New("cart entry not found")
	ErrCorruptRecord = errors.New("cart record is not a valid item list")
)

// StorageError wraps a failure of the underlying record repository
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cart %s [%s]: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
