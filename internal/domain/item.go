package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Source identifies the retailer a record was fetched from
type Source string

const (
	SourceWaitrose Source = "waitrose"
	SourceAsda     Source = "asda"
)

// Sources returns the supported retailers
func Sources() []Source {
	return []Source{SourceWaitrose, SourceAsda}
}

// ParseSource resolves a retailer name, ignoring case
func ParseSource(s string) (Source, error) {
	name := Source(strings.ToLower(strings.TrimSpace(s)))
	for _, src := range Sources() {
		if src == name {
			return src, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// Item is the canonical product record every source adapter produces
type Item struct {
	ID          uuid.UUID `json:"id"`
	Source      Source    `json:"source"`
	Description string    `json:"description"`
	Price       Price     `json:"price"`
	Quantity    Quantity  `json:"quantity"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	// Valid is false when the description or price could not be read from the raw record
	Valid bool `json:"valid"`
}

// NewItem creates an item with a fresh identity
func NewItem(source Source, description string, price Price, quantity Quantity, thumbnail string, valid bool) Item {
	return Item{
		ID:          uuid.New(),
		Source:      source,
		Description: description,
		Price:       price,
		Quantity:    quantity,
		Thumbnail:   thumbnail,
		Valid:       valid,
	}
}

// UnitPrice derives the item's price per SI unit of its quantity
func (i Item) UnitPrice() UnitPrice {
	return CalculateUnitPrice(i.Price, i.Quantity)
}

// PartitionByValidity splits items into valid and unrecognized groups, keeping order
func PartitionByValidity(items []Item) (valid, unrecognized []Item) {
	valid = make([]Item, 0, len(items))
	for _, item := range items {
		if item.Valid {
			valid = append(valid, item)
		} else {
			unrecognized = append(unrecognized, item)
		}
	}
	return valid, unrecognized
}
