package main

import (
	"github.com/spf13/cobra"

	"github.com/basketlens/backend/internal/domain"
	"github.com/basketlens/backend/internal/usecase"
)

// pipelineOptions holds the filter and sort flags shared by view and search
type pipelineOptions struct {
	sort     string
	currency string

	priceMin, priceMax float64

	unitPriceMin, unitPriceMax float64
	perUnit                    string

	quantityMin, quantityMax float64
	quantityUnit             string

	kinds    []string
	contains string
}

// bindPipelineFlags registers the pipeline flags with defaults matching
// usecase.DefaultFilterDefaults
func bindPipelineFlags(cmd *cobra.Command, opts *pipelineOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.sort, "sort", "", "sort criterion, see 'basketctl units'")
	flags.StringVar(&opts.currency, "currency", "gbp", "currency of price and unit price bounds")
	flags.Float64Var(&opts.priceMin, "price-min", 0, "exclusive lower price bound")
	flags.Float64Var(&opts.priceMax, "price-max", 1000, "exclusive upper price bound")
	flags.Float64Var(&opts.unitPriceMin, "unit-price-min", 0, "exclusive lower unit price bound")
	flags.Float64Var(&opts.unitPriceMax, "unit-price-max", 10, "exclusive upper unit price bound")
	flags.StringVar(&opts.perUnit, "per-unit", "kg", "unit the unit price bounds are per")
	flags.Float64Var(&opts.quantityMin, "quantity-min", 0, "inclusive lower quantity bound")
	flags.Float64Var(&opts.quantityMax, "quantity-max", 10, "inclusive upper quantity bound")
	flags.StringVar(&opts.quantityUnit, "quantity-unit", "kg", "unit of the quantity bounds")
	flags.StringSliceVar(&opts.kinds, "kinds", nil, "accepted unit kinds (weight, volume, other)")
	flags.StringVar(&opts.contains, "contains", "", "case-sensitive description substring")
}

// buildPipeline creates a pipeline and enables each filter whose flags
// were set on the command line
func buildPipeline(cmd *cobra.Command, opts pipelineOptions) (*usecase.Pipeline, error) {
	p, err := usecase.NewPipeline(usecase.DefaultFilterDefaults())
	if err != nil {
		return nil, err
	}

	criterion, err := usecase.ParseSortCriterion(opts.sort)
	if err != nil {
		return nil, err
	}
	if err := p.SetSort(criterion); err != nil {
		return nil, err
	}

	changed := func(names ...string) bool {
		for _, name := range names {
			if cmd.Flags().Changed(name) {
				return true
			}
		}
		return false
	}

	currency, err := domain.ParseCurrency(opts.currency)
	if err != nil {
		return nil, err
	}

	if changed("price-min", "price-max") {
		low := domain.NewPrice(opts.priceMin, currency)
		high := domain.NewPrice(opts.priceMax, currency)
		if err := p.ConfigurePrice(low, high); err != nil {
			return nil, err
		}
		if err := p.SetEnabled(usecase.FilterPrice, true); err != nil {
			return nil, err
		}
	}

	if changed("unit-price-min", "unit-price-max", "per-unit") {
		unit, err := domain.ParseUnit(opts.perUnit)
		if err != nil {
			return nil, err
		}
		low := domain.UnitPrice{Price: domain.NewPrice(opts.unitPriceMin, currency), PerUnit: unit}
		high := domain.UnitPrice{Price: domain.NewPrice(opts.unitPriceMax, currency), PerUnit: unit}
		if err := p.ConfigureUnitPrice(low, high); err != nil {
			return nil, err
		}
		if err := p.SetEnabled(usecase.FilterUnitPrice, true); err != nil {
			return nil, err
		}
	}

	if changed("quantity-min", "quantity-max", "quantity-unit") {
		unit, err := domain.ParseUnit(opts.quantityUnit)
		if err != nil {
			return nil, err
		}
		low := domain.NewQuantity(opts.quantityMin, unit)
		high := domain.NewQuantity(opts.quantityMax, unit)
		if err := p.ConfigureQuantity(low, high); err != nil {
			return nil, err
		}
		if err := p.SetEnabled(usecase.FilterQuantity, true); err != nil {
			return nil, err
		}
	}

	if changed("kinds") {
		kinds := make([]domain.UnitKind, 0, len(opts.kinds))
		for _, name := range opts.kinds {
			kind, err := domain.ParseUnitKind(name)
			if err != nil {
				return nil, err
			}
			kinds = append(kinds, kind)
		}
		p.ConfigureUnitKinds(kinds...)
		if err := p.SetEnabled(usecase.FilterUnitKind, true); err != nil {
			return nil, err
		}
	}

	if changed("contains") {
		p.ConfigureDescription(opts.contains)
		if err := p.SetEnabled(usecase.FilterDescription, true); err != nil {
			return nil, err
		}
	}

	return p, nil
}
