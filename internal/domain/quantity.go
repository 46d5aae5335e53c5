package domain

import "fmt"

// Quantity is an amount of a unit
type Quantity struct {
	Amount float64 `json:"amount"`
	Unit   Unit    `json:"unit"`
	// Note holds the raw source text the quantity was read from
	Note string `json:"note,omitempty"`
}

// NewQuantity creates a quantity
func NewQuantity(amount float64, unit Unit) Quantity {
	return Quantity{Amount: amount, Unit: unit}
}

// ConvertTo returns the quantity in unit. Incompatible units return q unchanged;
// callers must check the resulting unit before relying on it.
func (q Quantity) ConvertTo(unit Unit) Quantity {
	factor, ok := ConversionFactor(q.Unit, unit)
	if !ok {
		return q
	}
	return Quantity{Amount: q.Amount * factor, Unit: unit, Note: q.Note}
}

// ToSI converts weights to kg and volumes to l. Other kinds are returned unchanged.
func (q Quantity) ToSI() Quantity {
	return q.ConvertTo(q.Unit.SIUnit())
}

// Kind is the kind of the quantity's unit
func (q Quantity) Kind() UnitKind {
	return q.Unit.Kind()
}

func (q Quantity) String() string {
	if q.Unit == UnitNull && q.Note != "" {
		return fmt.Sprintf("%g %s (%s)", q.Amount, q.Unit, q.Note)
	}
	return fmt.Sprintf("%g %s", q.Amount, q.Unit)
}
