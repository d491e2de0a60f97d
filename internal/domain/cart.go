package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// CartItem is a by-value copy of a product placed in the cart.
// EntryID is assigned when the item is added and never changes.
type CartItem struct {
	EntryID uuid.UUID
	Product Product
}

// NewCartItem copies p into a new cart entry
func NewCartItem(p Product) CartItem {
	return CartItem{
		EntryID: uuid.New(),
		Product: p,
	}
}

// cartItemRecord is the persisted form: a product-shaped object plus entryId
type cartItemRecord struct {
	EntryID     string    `json:"entryId,omitempty"`
	ID          ProductID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Price       float64   `json:"price"`
	Category    string    `json:"category,omitempty"`
}

// MarshalJSON flattens the entry id into the product object
func (c CartItem) MarshalJSON() ([]byte, error) {
	rec := cartItemRecord{
		ID:          c.Product.ID,
		Title:       c.Product.Title,
		Description: c.Product.Description,
		Image:       c.Product.Image,
		Price:       c.Product.Price,
		Category:    c.Product.Category,
	}
	if c.EntryID != uuid.Nil {
		rec.EntryID = c.EntryID.String()
	}
	return json.Marshal(rec)
}

// UnmarshalJSON reads a product-shaped object. A missing entryId leaves
// EntryID as uuid.Nil so the cart store can backfill it.
func (c *CartItem) UnmarshalJSON(data []byte) error {
	var product Product
	if err := json.Unmarshal(data, &product); err != nil {
		return err
	}

	var entry struct {
		EntryID string `json:"entryId"`
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	c.Product = product
	c.EntryID = uuid.Nil
	if entry.EntryID != "" {
		id, err := uuid.Parse(entry.EntryID)
		if err != nil {
			return fmt.Errorf("invalid cart entry id %q: %w", entry.EntryID, err)
		}
		c.EntryID = id
	}

	return nil
}
