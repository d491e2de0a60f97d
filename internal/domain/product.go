package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var (
	ErrInvalidProductID = errors.New("invalid product id")
	ErrInvalidProduct   = errors.New("invalid product payload")
)

// ProductID identifies a product as the remote catalog reports it. It
// remembers whether the id arrived as a JSON number so it is sent back in
// the same form; comparisons ignore that form.
type ProductID struct {
	raw     string
	numeric bool
}

// TextID returns an id that encodes as a JSON string
func TextID(s string) ProductID {
	return ProductID{raw: s}
}

// NumberID returns an id that encodes as a JSON number
func NumberID(n int64) ProductID {
	return ProductID{raw: strconv.FormatInt(n, 10), numeric: true}
}

// String returns the id as text
func (id ProductID) String() string {
	return id.raw
}

// IsZero reports whether the id is empty
func (id ProductID) IsZero() bool {
	return id.raw == ""
}

// IsNumeric reports whether the id encodes as a JSON number
func (id ProductID) IsNumeric() bool {
	return id.numeric
}

// Equal compares ids by their text
func (id ProductID) Equal(other ProductID) bool {
	return id.raw == other.raw
}

// MarshalJSON emits the id in the form it was decoded from
func (id ProductID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.raw), nil
	}
	return json.Marshal(id.raw)
}

// UnmarshalJSON accepts a JSON number or string
func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ProductID{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProductID, err)
		}
		*id = TextID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProductID, string(data))
	}
	// json.Number only guarantees a valid literal, which is all MarshalJSON needs
	*id = ProductID{raw: n.String(), numeric: true}
	return nil
}

// ParseProductID converts user input (CLI argument, URL segment) into a ProductID
func ParseProductID(raw string) (ProductID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ProductID{}, ErrInvalidProductID
	}
	return TextID(raw), nil
}

// Product represents a catalog entry in its canonical shape
type Product struct {
	ID          ProductID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Price       float64   `json:"price"`
	Category    string    `json:"category,omitempty"`
}

// productPayload is the loose shape sources are allowed to send.
// Title may arrive as name, category as categoria or type, and price as
// anything JSON can hold.
type productPayload struct {
	ID          ProductID `json:"id"`
	Title       any       `json:"title"`
	Name        any       `json:"name"`
	Description any       `json:"description"`
	Image       any       `json:"image"`
	Price       any       `json:"price"`
	Category    any       `json:"category"`
	Categoria   any       `json:"categoria"`
	Type        any       `json:"type"`
}

// UnmarshalJSON decodes any accepted source shape and canonicalizes it
func (p *Product) UnmarshalJSON(data []byte) error {
	var payload productPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	*p = Product{
		ID:          payload.ID,
		Title:       firstNonEmpty(payload.Title, payload.Name),
		Description: cast.ToString(payload.Description),
		Image:       cast.ToString(payload.Image),
		Price:       CoercePrice(payload.Price),
		Category:    strings.TrimSpace(firstNonEmpty(payload.Category, payload.Categoria, payload.Type)),
	}

	return nil
}

// CoercePrice converts a loosely typed price to a number; anything
// non-numeric (or non-finite) becomes 0
func CoercePrice(v any) float64 {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func firstNonEmpty(values ...any) string {
	for _, v := range values {
		if v == nil {
			continue
		}
		if s := cast.ToString(v); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// CategoryKey is the comparison form of a category or filter value
func CategoryKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
