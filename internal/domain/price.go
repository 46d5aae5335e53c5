package domain

import "fmt"

// Price is an amount in a currency. Operations return new values.
type Price struct {
	Amount   float64  `json:"amount"`
	Currency Currency `json:"currency"`
}

// NewPrice creates a price
func NewPrice(amount float64, currency Currency) Price {
	return Price{Amount: amount, Currency: currency}
}

// ConvertTo returns the price expressed in another currency
func (p Price) ConvertTo(currency Currency) (Price, error) {
	rate, err := ExchangeRate(p.Currency, currency)
	if err != nil {
		return Price{}, err
	}
	return Price{Amount: p.Amount * rate, Currency: currency}, nil
}

// Add returns p + rhs in p's currency
func (p Price) Add(rhs Price) (Price, error) {
	rhs, err := rhs.ConvertTo(p.Currency)
	if err != nil {
		return Price{}, err
	}
	return Price{Amount: p.Amount + rhs.Amount, Currency: p.Currency}, nil
}

// Sub returns p - rhs in p's currency
func (p Price) Sub(rhs Price) (Price, error) {
	rhs, err := rhs.ConvertTo(p.Currency)
	if err != nil {
		return Price{}, err
	}
	return Price{Amount: p.Amount - rhs.Amount, Currency: p.Currency}, nil
}

// Mul scales the price. There is deliberately no Price x Price product.
func (p Price) Mul(factor float64) Price {
	return Price{Amount: p.Amount * factor, Currency: p.Currency}
}

// Div divides the price by a scalar
func (p Price) Div(divisor float64) (Price, error) {
	if divisor == 0 {
		return Price{}, ErrDivideByZero
	}
	return Price{Amount: p.Amount / divisor, Currency: p.Currency}, nil
}

func (p Price) String() string {
	return fmt.Sprintf("%.2f %s", p.Amount, p.Currency)
}

// UnitPrice is a price per one unit of measure
type UnitPrice struct {
	Price
	PerUnit Unit `json:"perUnit"`
	// Fallback is set when the quantity had no usable amount and the raw
	// price was used as is
	Fallback bool `json:"fallback,omitempty"`
}

// CalculateUnitPrice divides price by the quantity expressed in SI units.
// A zero SI amount falls back to the raw price per the quantity's own unit.
func CalculateUnitPrice(price Price, quantity Quantity) UnitPrice {
	si := quantity.ToSI()
	if si.Amount == 0 {
		return UnitPrice{Price: price, PerUnit: quantity.Unit, Fallback: true}
	}
	return UnitPrice{
		Price:   Price{Amount: price.Amount / si.Amount, Currency: price.Currency},
		PerUnit: si.Unit,
	}
}

// ConvertTo returns the unit price in another currency, keeping the unit
func (u UnitPrice) ConvertTo(currency Currency) (UnitPrice, error) {
	converted, err := u.Price.ConvertTo(currency)
	if err != nil {
		return UnitPrice{}, err
	}
	return UnitPrice{Price: converted, PerUnit: u.PerUnit, Fallback: u.Fallback}, nil
}

func (u UnitPrice) String() string {
	return fmt.Sprintf("%s per %s", u.Price, u.PerUnit)
}
