// Package retailer maps raw retailer search payloads onto canonical items.
package retailer

import (
	"fmt"

	"github.com/basketlens/backend/internal/domain"
)

// Adapter normalizes one retailer's raw product payload. Implementations
// never perform I/O and never fail: unreadable fields become defaults and
// the item is marked invalid.
type Adapter interface {
	Source() domain.Source
	Normalize(raw domain.RawRecord) domain.Item
}

// AdapterFor returns the adapter for a supported retailer
func AdapterFor(source domain.Source) (Adapter, error) {
	switch source {
	case domain.SourceWaitrose:
		return WaitroseAdapter{}, nil
	case domain.SourceAsda:
		return AsdaAdapter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSource, string(source))
	}
}

// NormalizeBatch normalizes every raw record of one retailer, in order
func NormalizeBatch(source domain.Source, raws []domain.RawRecord) ([]domain.Item, error) {
	adapter, err := AdapterFor(source)
	if err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(raws))
	for _, raw := range raws {
		items = append(items, adapter.Normalize(raw))
	}
	return items, nil
}

// defaultPrice is used when a record's price cannot be read
func defaultPrice() domain.Price {
	return domain.NewPrice(0, domain.CurrencyGBP)
}

// unknownQuantity is the last-resort quantity, annotated for diagnostics
func unknownQuantity(note string) domain.Quantity {
	return domain.Quantity{Amount: 1, Unit: domain.UnitNull, Note: note}
}
