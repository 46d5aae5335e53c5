package http

import (
	"github.com/basketlens/backend/internal/domain"
	"github.com/basketlens/backend/internal/usecase"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateSessionRequest represents the session creation request body
type CreateSessionRequest struct {
	Query   string     `json:"query"`
	Sources []string   `json:"sources"`
	Batches []RawBatch `json:"batches"`
}

// RawBatch carries retailer payloads the client already fetched
type RawBatch struct {
	Source  string             `json:"source" binding:"required"`
	Records []domain.RawRecord `json:"records"`
}

func (r CreateSessionRequest) toUsecase() (usecase.CreateSessionRequest, error) {
	request := usecase.CreateSessionRequest{Query: r.Query}
	for _, name := range r.Sources {
		source, err := domain.ParseSource(name)
		if err != nil {
			return usecase.CreateSessionRequest{}, err
		}
		request.Sources = append(request.Sources, source)
	}
	for _, batch := range r.Batches {
		source, err := domain.ParseSource(batch.Source)
		if err != nil {
			return usecase.CreateSessionRequest{}, err
		}
		request.Batches = append(request.Batches, usecase.RawBatch{Source: source, Records: batch.Records})
	}
	return request, nil
}

// SortRequest sets the sort criterion. An empty string clears it.
type SortRequest struct {
	Sort string `json:"sort"`
}

// EnabledRequest sets a filter flag
type EnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// DescriptionRequest configures the description filter
type DescriptionRequest struct {
	Substring string `json:"substring"`
	Enabled   *bool  `json:"enabled"`
}

// UnitKindRequest replaces the unit kind filter's accept set
type UnitKindRequest struct {
	Kinds   []string `json:"kinds"`
	Enabled *bool    `json:"enabled"`
}

func (r UnitKindRequest) kinds() ([]domain.UnitKind, error) {
	kinds := make([]domain.UnitKind, 0, len(r.Kinds))
	for _, name := range r.Kinds {
		kind, err := domain.ParseUnitKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// PriceBound is an amount in a currency, e.g. {"amount": 2.5, "currency": "gbp"}
type PriceBound struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency" binding:"required"`
}

func (b PriceBound) toDomain() (domain.Price, error) {
	currency, err := domain.ParseCurrency(b.Currency)
	if err != nil {
		return domain.Price{}, err
	}
	return domain.NewPrice(b.Amount, currency), nil
}

// UnitPriceBound is a price per unit, e.g. {"amount": 3, "currency": "gbp", "perUnit": "kg"}
type UnitPriceBound struct {
	PriceBound
	PerUnit string `json:"perUnit" binding:"required"`
}

func (b UnitPriceBound) toDomain() (domain.UnitPrice, error) {
	price, err := b.PriceBound.toDomain()
	if err != nil {
		return domain.UnitPrice{}, err
	}
	unit, err := domain.ParseUnit(b.PerUnit)
	if err != nil {
		return domain.UnitPrice{}, err
	}
	return domain.UnitPrice{Price: price, PerUnit: unit}, nil
}

// QuantityBound is an amount of a unit, e.g. {"amount": 500, "unit": "g"}
type QuantityBound struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit" binding:"required"`
}

func (b QuantityBound) toDomain() (domain.Quantity, error) {
	unit, err := domain.ParseUnit(b.Unit)
	if err != nil {
		return domain.Quantity{}, err
	}
	return domain.NewQuantity(b.Amount, unit), nil
}

// PriceRangeRequest configures the price filter
type PriceRangeRequest struct {
	Low     PriceBound `json:"low"`
	High    PriceBound `json:"high"`
	Enabled *bool      `json:"enabled"`
}

func (r PriceRangeRequest) toUsecase() (usecase.RangeRequest[domain.Price], error) {
	low, err := r.Low.toDomain()
	if err != nil {
		return usecase.RangeRequest[domain.Price]{}, err
	}
	high, err := r.High.toDomain()
	if err != nil {
		return usecase.RangeRequest[domain.Price]{}, err
	}
	return usecase.RangeRequest[domain.Price]{Low: low, High: high, Enabled: r.Enabled}, nil
}

// UnitPriceRangeRequest configures the unit price filter
type UnitPriceRangeRequest struct {
	Low     UnitPriceBound `json:"low"`
	High    UnitPriceBound `json:"high"`
	Enabled *bool          `json:"enabled"`
}

func (r UnitPriceRangeRequest) toUsecase() (usecase.RangeRequest[domain.UnitPrice], error) {
	low, err := r.Low.toDomain()
	if err != nil {
		return usecase.RangeRequest[domain.UnitPrice]{}, err
	}
	high, err := r.High.toDomain()
	if err != nil {
		return usecase.RangeRequest[domain.UnitPrice]{}, err
	}
	return usecase.RangeRequest[domain.UnitPrice]{Low: low, High: high, Enabled: r.Enabled}, nil
}

// QuantityRangeRequest configures the quantity filter
type QuantityRangeRequest struct {
	Low     QuantityBound `json:"low"`
	High    QuantityBound `json:"high"`
	Enabled *bool         `json:"enabled"`
}

func (r QuantityRangeRequest) toUsecase() (usecase.RangeRequest[domain.Quantity], error) {
	low, err := r.Low.toDomain()
	if err != nil {
		return usecase.RangeRequest[domain.Quantity]{}, err
	}
	high, err := r.High.toDomain()
	if err != nil {
		return usecase.RangeRequest[domain.Quantity]{}, err
	}
	return usecase.RangeRequest[domain.Quantity]{Low: low, High: high, Enabled: r.Enabled}, nil
}
