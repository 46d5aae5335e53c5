package usecase

import (
	"fmt"

	"github.com/basketlens/backend/internal/domain"
)

// FilterDefaults holds the parameters every new or reset pipeline starts with
type FilterDefaults struct {
	PriceLow      domain.Price
	PriceHigh     domain.Price
	UnitPriceLow  domain.UnitPrice
	UnitPriceHigh domain.UnitPrice
	QuantityLow   domain.Quantity
	QuantityHigh  domain.Quantity
	UnitKinds     []domain.UnitKind
	Description   string
}

// DefaultFilterDefaults returns 0-1000 GBP, 0-10 GBP/kg, 0-10 kg, every unit
// kind and an empty description
func DefaultFilterDefaults() FilterDefaults {
	return FilterDefaults{
		PriceLow:      domain.NewPrice(0, domain.CurrencyGBP),
		PriceHigh:     domain.NewPrice(1000, domain.CurrencyGBP),
		UnitPriceLow:  domain.UnitPrice{Price: domain.NewPrice(0, domain.CurrencyGBP), PerUnit: domain.UnitKG},
		UnitPriceHigh: domain.UnitPrice{Price: domain.NewPrice(10, domain.CurrencyGBP), PerUnit: domain.UnitKG},
		QuantityLow:   domain.NewQuantity(0, domain.UnitKG),
		QuantityHigh:  domain.NewQuantity(10, domain.UnitKG),
		UnitKinds:     domain.UnitKinds(),
	}
}

// Pipeline is one session's sort criterion and filter configuration. It owns
// its filters; they change only through Pipeline methods, each of which bumps
// the revision. A Pipeline is not safe for concurrent use.
type Pipeline struct {
	defaults FilterDefaults
	revision uint64

	sort        SortCriterion
	price       PriceFilter
	unitPrice   UnitPriceFilter
	quantity    QuantityFilter
	unitKind    UnitKindFilter
	description DescriptionFilter
}

// NewPipeline creates a pipeline with no sort and every filter disabled.
// Invalid defaults are reported here rather than on Reset.
func NewPipeline(defaults FilterDefaults) (*Pipeline, error) {
	p := &Pipeline{defaults: defaults}
	if err := p.reset(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) reset() error {
	price, err := NewPriceFilter(p.defaults.PriceLow, p.defaults.PriceHigh)
	if err != nil {
		return fmt.Errorf("default price filter: %w", err)
	}
	unitPrice, err := NewUnitPriceFilter(p.defaults.UnitPriceLow, p.defaults.UnitPriceHigh)
	if err != nil {
		return fmt.Errorf("default unit price filter: %w", err)
	}
	quantity, err := NewQuantityFilter(p.defaults.QuantityLow, p.defaults.QuantityHigh)
	if err != nil {
		return fmt.Errorf("default quantity filter: %w", err)
	}

	p.sort = SortNone
	p.price = price
	p.unitPrice = unitPrice
	p.quantity = quantity
	p.unitKind = NewUnitKindFilter(p.defaults.UnitKinds...)
	p.description = DescriptionFilter{Substring: p.defaults.Description}
	p.revision++
	return nil
}

// Reset restores the defaults the pipeline was created with
func (p *Pipeline) Reset() {
	// defaults were validated by NewPipeline
	_ = p.reset()
}

// Revision changes on every mutation
func (p *Pipeline) Revision() uint64 { return p.revision }

func (p *Pipeline) Sort() SortCriterion { return p.sort }

// SetSort selects the ranking criterion
func (p *Pipeline) SetSort(criterion SortCriterion) error {
	if _, _, err := sortKeyFunc(criterion); err != nil {
		return err
	}
	p.sort = criterion
	p.revision++
	return nil
}

// ConfigurePrice replaces the price bounds, keeping the enabled flag
func (p *Pipeline) ConfigurePrice(low, high domain.Price) error {
	f, err := NewPriceFilter(low, high)
	if err != nil {
		return err
	}
	f.Enabled = p.price.Enabled
	p.price = f
	p.revision++
	return nil
}

// ConfigureUnitPrice replaces the unit price bounds, keeping the enabled flag
func (p *Pipeline) ConfigureUnitPrice(low, high domain.UnitPrice) error {
	f, err := NewUnitPriceFilter(low, high)
	if err != nil {
		return err
	}
	f.Enabled = p.unitPrice.Enabled
	p.unitPrice = f
	p.revision++
	return nil
}

// ConfigureQuantity replaces the quantity bounds, keeping the enabled flag
func (p *Pipeline) ConfigureQuantity(low, high domain.Quantity) error {
	f, err := NewQuantityFilter(low, high)
	if err != nil {
		return err
	}
	f.Enabled = p.quantity.Enabled
	p.quantity = f
	p.revision++
	return nil
}

// ConfigureUnitKinds replaces the accept set, keeping the enabled flag
func (p *Pipeline) ConfigureUnitKinds(kinds ...domain.UnitKind) {
	f := NewUnitKindFilter(kinds...)
	f.Enabled = p.unitKind.Enabled
	p.unitKind = f
	p.revision++
}

// ConfigureDescription replaces the substring, keeping the enabled flag
func (p *Pipeline) ConfigureDescription(substring string) {
	p.description.Substring = substring
	p.revision++
}

// ToggleUnitKind adds or removes one kind from the unit kind accept set
func (p *Pipeline) ToggleUnitKind(kind domain.UnitKind) {
	p.unitKind.Toggle(kind)
	p.revision++
}

// SetEnabled switches a filter on or off without touching its parameters
func (p *Pipeline) SetEnabled(name FilterName, enabled bool) error {
	flag, err := p.enabledFlag(name)
	if err != nil {
		return err
	}
	*flag = enabled
	p.revision++
	return nil
}

// Toggle flips a filter's enabled flag and returns the new value
func (p *Pipeline) Toggle(name FilterName) (bool, error) {
	flag, err := p.enabledFlag(name)
	if err != nil {
		return false, err
	}
	*flag = !*flag
	p.revision++
	return *flag, nil
}

// Enabled reports whether the named filter is on
func (p *Pipeline) Enabled(name FilterName) (bool, error) {
	flag, err := p.enabledFlag(name)
	if err != nil {
		return false, err
	}
	return *flag, nil
}

func (p *Pipeline) enabledFlag(name FilterName) (*bool, error) {
	switch name {
	case FilterPrice:
		return &p.price.Enabled, nil
	case FilterUnitPrice:
		return &p.unitPrice.Enabled, nil
	case FilterQuantity:
		return &p.quantity.Enabled, nil
	case FilterUnitKind:
		return &p.unitKind.Enabled, nil
	case FilterDescription:
		return &p.description.Enabled, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFilter, string(name))
	}
}

// Filter applies the enabled filters in application order
// and always returns a new slice
func (p *Pipeline) Filter(items []domain.Item) []domain.Item {
	out := append([]domain.Item(nil), items...)
	for _, keep := range p.stages() {
		out = keepAll(out, keep)
	}
	return out
}

// stages returns the keep predicates of the enabled filters, in order
func (p *Pipeline) stages() []func(domain.Item) bool {
	var stages []func(domain.Item) bool
	if p.price.Enabled {
		stages = append(stages, p.price.keep)
	}
	if p.unitPrice.Enabled {
		stages = append(stages, p.unitPrice.keep)
	}
	if p.quantity.Enabled {
		stages = append(stages, p.quantity.keep)
	}
	if p.unitKind.Enabled {
		stages = append(stages, p.unitKind.keep)
	}
	if p.description.Enabled {
		stages = append(stages, p.description.keep)
	}
	return stages
}

// Apply sorts items and then filters them. items is not modified.
func (p *Pipeline) Apply(items []domain.Item) ([]domain.Item, error) {
	sorted, err := SortItems(items, p.sort)
	if err != nil {
		return nil, err
	}
	return p.Filter(sorted), nil
}

// PipelineSnapshot is a read-only description of a pipeline's configuration
type PipelineSnapshot struct {
	Revision    uint64                          `json:"revision"`
	Sort        SortCriterion                   `json:"sort"`
	Price       RangeSnapshot[domain.Price]     `json:"price"`
	UnitPrice   RangeSnapshot[domain.UnitPrice] `json:"unitPrice"`
	Quantity    RangeSnapshot[domain.Quantity]  `json:"quantity"`
	UnitKind    UnitKindSnapshot                `json:"unitKind"`
	Description DescriptionSnapshot             `json:"description"`
}

// RangeSnapshot describes a bounded filter
type RangeSnapshot[T any] struct {
	Enabled bool `json:"enabled"`
	Low     T    `json:"low"`
	High    T    `json:"high"`
}

type UnitKindSnapshot struct {
	Enabled bool              `json:"enabled"`
	Accept  []domain.UnitKind `json:"accept"`
}

type DescriptionSnapshot struct {
	Enabled   bool   `json:"enabled"`
	Substring string `json:"substring"`
}

// Snapshot copies the current configuration
func (p *Pipeline) Snapshot() PipelineSnapshot {
	return PipelineSnapshot{
		Revision: p.revision,
		Sort:     p.sort,
		Price: RangeSnapshot[domain.Price]{
			Enabled: p.price.Enabled, Low: p.price.Low(), High: p.price.High(),
		},
		UnitPrice: RangeSnapshot[domain.UnitPrice]{
			Enabled: p.unitPrice.Enabled, Low: p.unitPrice.Low(), High: p.unitPrice.High(),
		},
		Quantity: RangeSnapshot[domain.Quantity]{
			Enabled: p.quantity.Enabled, Low: p.quantity.Low(), High: p.quantity.High(),
		},
		UnitKind: UnitKindSnapshot{
			Enabled: p.unitKind.Enabled, Accept: p.unitKind.Kinds(),
		},
		Description: DescriptionSnapshot{
			Enabled: p.description.Enabled, Substring: p.description.Substring,
		},
	}
}
