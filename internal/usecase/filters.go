package usecase

import (
	"fmt"
	"strings"

	"github.com/basketlens/backend/internal/domain"
)

// FilterName identifies one of the pipeline's filters
type FilterName string

const (
	FilterPrice       FilterName = "price"
	FilterUnitPrice   FilterName = "unit-price"
	FilterQuantity    FilterName = "quantity"
	FilterUnitKind    FilterName = "unit-kind"
	FilterDescription FilterName = "description"
)

// FilterNames returns every filter in application order
func FilterNames() []FilterName {
	return []FilterName{FilterPrice, FilterUnitPrice, FilterQuantity, FilterUnitKind, FilterDescription}
}

// ParseFilterName resolves a filter name. Underscores are accepted in place of dashes.
func ParseFilterName(s string) (FilterName, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for _, f := range FilterNames() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownFilter, s)
}

// PriceFilter keeps items priced strictly between its bounds, compared in
// the base currency
type PriceFilter struct {
	Enabled bool

	low, high domain.Price
	// bounds in domain.BaseCurrency
	lowBase, highBase float64
}

// NewPriceFilter creates a disabled price filter
func NewPriceFilter(low, high domain.Price) (PriceFilter, error) {
	lowBase, err := low.ConvertTo(domain.BaseCurrency)
	if err != nil {
		return PriceFilter{}, err
	}
	highBase, err := high.ConvertTo(domain.BaseCurrency)
	if err != nil {
		return PriceFilter{}, err
	}
	if lowBase.Amount > highBase.Amount {
		return PriceFilter{}, fmt.Errorf("%w: price low %s above high %s", domain.ErrInvalidRequest, low, high)
	}
	return PriceFilter{low: low, high: high, lowBase: lowBase.Amount, highBase: highBase.Amount}, nil
}

func (f PriceFilter) Low() domain.Price  { return f.low }
func (f PriceFilter) High() domain.Price { return f.high }

func (f PriceFilter) keep(item domain.Item) bool {
	price, err := item.Price.ConvertTo(domain.BaseCurrency)
	if err != nil {
		return false
	}
	return f.lowBase < price.Amount && price.Amount < f.highBase
}

// UnitPriceFilter keeps items whose unit price lies strictly between its
// bounds. Bounds are normalized to their SI unit and the base currency;
// item unit prices are compared on amount.
type UnitPriceFilter struct {
	Enabled bool

	low, high         domain.UnitPrice
	lowBase, highBase float64
}

// NewUnitPriceFilter creates a disabled unit price filter. Bounds quoted per
// units that do not reduce to the same SI unit are ErrMismatchedUnitPriceBounds.
func NewUnitPriceFilter(low, high domain.UnitPrice) (UnitPriceFilter, error) {
	if low.PerUnit.SIUnit() != high.PerUnit.SIUnit() {
		return UnitPriceFilter{}, fmt.Errorf("%w: per %s and per %s",
			domain.ErrMismatchedUnitPriceBounds, low.PerUnit, high.PerUnit)
	}
	lowBase, err := perSIUnitInBase(low)
	if err != nil {
		return UnitPriceFilter{}, err
	}
	highBase, err := perSIUnitInBase(high)
	if err != nil {
		return UnitPriceFilter{}, err
	}
	if lowBase > highBase {
		return UnitPriceFilter{}, fmt.Errorf("%w: unit price low %s above high %s", domain.ErrInvalidRequest, low, high)
	}
	return UnitPriceFilter{low: low, high: high, lowBase: lowBase, highBase: highBase}, nil
}

// perSIUnitInBase restates a unit price per SI unit in the base currency.
// 0.01 GBP per g becomes 10 GBP per kg.
func perSIUnitInBase(u domain.UnitPrice) (float64, error) {
	converted, err := u.ConvertTo(domain.BaseCurrency)
	if err != nil {
		return 0, err
	}
	if factor, ok := domain.ConversionFactor(u.PerUnit.SIUnit(), u.PerUnit); ok {
		return converted.Amount * factor, nil
	}
	return converted.Amount, nil
}

func (f UnitPriceFilter) Low() domain.UnitPrice  { return f.low }
func (f UnitPriceFilter) High() domain.UnitPrice { return f.high }

func (f UnitPriceFilter) keep(item domain.Item) bool {
	unitPrice, err := item.UnitPrice().ConvertTo(domain.BaseCurrency)
	if err != nil {
		return false
	}
	return f.lowBase < unitPrice.Amount && unitPrice.Amount < f.highBase
}

// QuantityFilter keeps items of the bounds' unit kind whose SI quantity lies
// within the closed interval. Items of any other kind are dropped.
type QuantityFilter struct {
	Enabled bool

	low, high domain.Quantity
	kind      domain.UnitKind
	lowSI     float64
	highSI    float64
}

// NewQuantityFilter creates a disabled quantity filter. Bounds of different
// unit kinds are ErrMismatchedQuantityBounds.
func NewQuantityFilter(low, high domain.Quantity) (QuantityFilter, error) {
	if low.Kind() != high.Kind() {
		return QuantityFilter{}, fmt.Errorf("%w: %s and %s",
			domain.ErrMismatchedQuantityBounds, low.Kind(), high.Kind())
	}
	lowSI, highSI := low.ToSI().Amount, high.ToSI().Amount
	if lowSI > highSI {
		return QuantityFilter{}, fmt.Errorf("%w: quantity low %s above high %s", domain.ErrInvalidRequest, low, high)
	}
	return QuantityFilter{
		low:    domain.NewQuantity(low.Amount, low.Unit),
		high:   domain.NewQuantity(high.Amount, high.Unit),
		kind:   low.Kind(),
		lowSI:  lowSI,
		highSI: highSI,
	}, nil
}

func (f QuantityFilter) Low() domain.Quantity  { return f.low }
func (f QuantityFilter) High() domain.Quantity { return f.high }

// Kind is the unit kind items must have to pass
func (f QuantityFilter) Kind() domain.UnitKind { return f.kind }

func (f QuantityFilter) keep(item domain.Item) bool {
	if item.Quantity.Kind() != f.kind {
		return false
	}
	amount := item.Quantity.ToSI().Amount
	return f.lowSI <= amount && amount <= f.highSI
}

// UnitKindFilter keeps items whose quantity kind is accepted. An empty
// accept set keeps nothing.
type UnitKindFilter struct {
	Enabled bool

	accept kindSet
}

// kindSet is a bit set indexed by domain.UnitKind
type kindSet uint8

func (s kindSet) has(k domain.UnitKind) bool { return s&(1<<uint(k)) != 0 }

// NewUnitKindFilter creates a disabled filter accepting kinds
func NewUnitKindFilter(kinds ...domain.UnitKind) UnitKindFilter {
	var f UnitKindFilter
	for _, k := range kinds {
		f.accept |= 1 << uint(k)
	}
	return f
}

// Accepts reports whether items of kind pass the filter
func (f UnitKindFilter) Accepts(kind domain.UnitKind) bool {
	return f.accept.has(kind)
}

// Kinds returns the accepted kinds in grouping order
func (f UnitKindFilter) Kinds() []domain.UnitKind {
	kinds := make([]domain.UnitKind, 0, len(domain.UnitKinds()))
	for _, k := range domain.UnitKinds() {
		if f.accept.has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Toggle adds kind to the accept set, or removes it when already present
func (f *UnitKindFilter) Toggle(kind domain.UnitKind) {
	f.accept ^= 1 << uint(kind)
}

func (f UnitKindFilter) keep(item domain.Item) bool {
	return f.accept.has(item.Quantity.Kind())
}

// DescriptionFilter keeps items whose description contains Substring.
// Matching is case-sensitive.
type DescriptionFilter struct {
	Enabled   bool
	Substring string
}

func (f DescriptionFilter) keep(item domain.Item) bool {
	return strings.Contains(item.Description, f.Substring)
}

// keepAll returns the items for which keep is true, preserving order
func keepAll(items []domain.Item, keep func(domain.Item) bool) []domain.Item {
	kept := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if keep(item) {
			kept = append(kept, item)
		}
	}
	return kept
}
