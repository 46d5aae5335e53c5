package domain

import "errors"

var (
	// ErrUnknownCurrency is returned when a currency is missing from the exchange-rate table
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrUnknownUnit is returned when a unit symbol cannot be resolved
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrUnknownUnitKind is returned when a unit kind name cannot be resolved
	ErrUnknownUnitKind = errors.New("unknown unit kind")

	// ErrUnknownSortCriterion is returned for a sort criterion outside the closed set
	ErrUnknownSortCriterion = errors.New("unknown sort criterion")

	// ErrUnknownFilter is returned when a filter name does not match a pipeline filter
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrMismatchedUnitPriceBounds is returned when unit price bounds are per incomparable units
	ErrMismatchedUnitPriceBounds = errors.New("unit price bounds have mismatched units")

	// ErrMismatchedQuantityBounds is returned when quantity bounds are of different unit kinds
	ErrMismatchedQuantityBounds = errors.New("quantity bounds have mismatched unit kinds")

	// ErrDivideByZero is returned when a price is divided by zero
	ErrDivideByZero = errors.New("price divided by zero")

	// ErrUnparseableField is returned when a raw quantity or price string cannot be read
	ErrUnparseableField = errors.New("unparseable field")

	// ErrUnknownSource is returned for a retailer outside the supported set
	ErrUnknownSource = errors.New("unknown source")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrSessionNotFound is returned when a session id has no live session
	ErrSessionNotFound = errors.New("session not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrRetailerAPIFailure is returned when a retailer search request fails
	ErrRetailerAPIFailure = errors.New("retailer API request failed")
)

// IsConfigurationError reports whether err is a caller mistake rather than bad data
// or an upstream failure.
func IsConfigurationError(err error) bool {
	for _, target := range []error{
		ErrUnknownCurrency,
		ErrUnknownUnit,
		ErrUnknownUnitKind,
		ErrUnknownSortCriterion,
		ErrUnknownFilter,
		ErrMismatchedUnitPriceBounds,
		ErrMismatchedQuantityBounds,
		ErrUnknownSource,
		ErrInvalidRequest,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
