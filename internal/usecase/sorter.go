package usecase

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/basketlens/backend/internal/domain"
)

// SortCriterion ranks items. The zero value leaves the initial order.
type SortCriterion string

const (
	SortNone             SortCriterion = ""
	SortHighestPrice     SortCriterion = "highest_price"
	SortLowestPrice      SortCriterion = "lowest_price"
	SortHighestUnitPrice SortCriterion = "highest_unit_price"
	SortLowestUnitPrice  SortCriterion = "lowest_unit_price"
	SortHighestQuantity  SortCriterion = "highest_quantity"
	SortLowestQuantity   SortCriterion = "lowest_quantity"
)

// SortCriteria returns every ranking criterion
func SortCriteria() []SortCriterion {
	return []SortCriterion{
		SortHighestPrice,
		SortLowestPrice,
		SortHighestUnitPrice,
		SortLowestUnitPrice,
		SortHighestQuantity,
		SortLowestQuantity,
	}
}

// ParseSortCriterion resolves a criterion name. The empty string and "none"
// mean no sort; anything else outside the closed set is an error.
func ParseSortCriterion(s string) (SortCriterion, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" || name == "none" {
		return SortNone, nil
	}
	for _, c := range SortCriteria() {
		if string(c) == name {
			return c, nil
		}
	}
	return SortNone, fmt.Errorf("%w: %q", domain.ErrUnknownSortCriterion, s)
}

// sortKey is computed once per item so unit prices and SI quantities are
// not re-derived on every comparison
type sortKey struct {
	kind   domain.UnitKind
	amount float64
}

// SortItems returns a stably sorted copy of items. Ties keep their input order.
//
// Price sorts key on the raw price amount and unit price sorts on the unit
// price amount. Quantity sorts group items by unit kind first, so weights and
// volumes never interleave, then order by SI amount within each kind.
func SortItems(items []domain.Item, criterion SortCriterion) ([]domain.Item, error) {
	keyOf, descending, err := sortKeyFunc(criterion)
	if err != nil {
		return nil, err
	}

	type keyed struct {
		item domain.Item
		key  sortKey
	}

	work := make([]keyed, len(items))
	for i, item := range items {
		work[i] = keyed{item: item}
		if keyOf != nil {
			work[i].key = keyOf(item)
		}
	}

	if keyOf != nil {
		slices.SortStableFunc(work, func(a, b keyed) int {
			if c := cmp.Compare(a.key.kind, b.key.kind); c != 0 {
				return c
			}
			if descending {
				return cmp.Compare(b.key.amount, a.key.amount)
			}
			return cmp.Compare(a.key.amount, b.key.amount)
		})
	}

	sorted := make([]domain.Item, len(work))
	for i, w := range work {
		sorted[i] = w.item
	}
	return sorted, nil
}

// sortKeyFunc returns nil for SortNone
func sortKeyFunc(criterion SortCriterion) (func(domain.Item) sortKey, bool, error) {
	switch criterion {
	case SortNone:
		return nil, false, nil
	case SortHighestPrice, SortLowestPrice:
		return func(item domain.Item) sortKey {
			return sortKey{amount: item.Price.Amount}
		}, criterion == SortHighestPrice, nil
	case SortHighestUnitPrice, SortLowestUnitPrice:
		return func(item domain.Item) sortKey {
			return sortKey{amount: item.UnitPrice().Amount}
		}, criterion == SortHighestUnitPrice, nil
	case SortHighestQuantity, SortLowestQuantity:
		return func(item domain.Item) sortKey {
			si := item.Quantity.ToSI()
			return sortKey{kind: si.Kind(), amount: si.Amount}
		}, criterion == SortHighestQuantity, nil
	default:
		return nil, false, fmt.Errorf("%w: %q", domain.ErrUnknownSortCriterion, string(criterion))
	}
}
