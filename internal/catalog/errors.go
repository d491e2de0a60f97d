package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status from catalog source")
	ErrMalformedCatalog = errors.New("malformed catalog payload")
	ErrProductNotFound  = errors.New("product not found in catalog")
)

// FetchError is returned by Load when the catalog could not be obtained.
// The held product list is empty whenever a FetchError is returned.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to load catalog from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
