package domain

import (
	"fmt"
	"strings"
)

// UnitKind classifies units for compatibility checks.
// The declaration order is the grouping order used by quantity sorts.
type UnitKind int

const (
	UnitKindWeight UnitKind = iota
	UnitKindVolume
	UnitKindOther
)

var unitKindNames = map[UnitKind]string{
	UnitKindWeight: "weight",
	UnitKindVolume: "volume",
	UnitKindOther:  "other",
}

// UnitKinds returns every kind in grouping order
func UnitKinds() []UnitKind {
	return []UnitKind{UnitKindWeight, UnitKindVolume, UnitKindOther}
}

// ParseUnitKind resolves "weight", "volume" or "other"
func ParseUnitKind(s string) (UnitKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for kind, kindName := range unitKindNames {
		if kindName == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownUnitKind, s)
}

func (k UnitKind) String() string {
	if name, ok := unitKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("UnitKind(%d)", int(k))
}

func (k UnitKind) MarshalText() ([]byte, error) {
	if _, ok := unitKindNames[k]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownUnitKind, int(k))
	}
	return []byte(k.String()), nil
}

func (k *UnitKind) UnmarshalText(text []byte) error {
	parsed, err := ParseUnitKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Unit is a physical unit of measurement. The zero value is UnitNull,
// the "quantity present but uninterpretable" marker.
type Unit int

const (
	UnitNull Unit = iota
	UnitEach
	UnitPieces
	UnitKG
	UnitKGTypical
	UnitG
	UnitL
	UnitML
	UnitCL
)

type unitInfo struct {
	symbol string
	kind   UnitKind
	// scale is the number of this unit in one SI unit of its kind (0 for Other)
	scale float64
}

var units = map[Unit]unitInfo{
	UnitNull:      {symbol: "n/a", kind: UnitKindOther},
	UnitEach:      {symbol: "ea", kind: UnitKindOther},
	UnitPieces:    {symbol: "pcs", kind: UnitKindOther},
	UnitKG:        {symbol: "kg", kind: UnitKindWeight, scale: 1},
	UnitKGTypical: {symbol: "kg (typ)", kind: UnitKindWeight, scale: 1},
	UnitG:         {symbol: "g", kind: UnitKindWeight, scale: 1000},
	UnitL:         {symbol: "l", kind: UnitKindVolume, scale: 1},
	UnitML:        {symbol: "ml", kind: UnitKindVolume, scale: 1000},
	UnitCL:        {symbol: "cl", kind: UnitKindVolume, scale: 100},
}

// Units returns every unit in declaration order
func Units() []Unit {
	return []Unit{UnitNull, UnitEach, UnitPieces, UnitKG, UnitKGTypical, UnitG, UnitL, UnitML, UnitCL}
}

// ParseUnit resolves a unit by its symbol, ignoring case
func ParseUnit(s string) (Unit, error) {
	symbol := strings.ToLower(strings.TrimSpace(s))
	for _, u := range Units() {
		if units[u].symbol == symbol {
			return u, nil
		}
	}
	return UnitNull, fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

// Kind returns the unit kind. Unknown units are Other.
func (u Unit) Kind() UnitKind {
	if info, ok := units[u]; ok {
		return info.kind
	}
	return UnitKindOther
}

// Symbol returns the lowercase symbol, e.g. "kg"
func (u Unit) Symbol() string {
	if info, ok := units[u]; ok {
		return info.symbol
	}
	return units[UnitNull].symbol
}

func (u Unit) String() string {
	return strings.ToUpper(u.Symbol())
}

// SIUnit returns the reference unit of the unit's kind, or the unit itself for Other
func (u Unit) SIUnit() Unit {
	switch u.Kind() {
	case UnitKindWeight:
		return UnitKG
	case UnitKindVolume:
		return UnitL
	default:
		return u
	}
}

func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.Symbol()), nil
}

func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// AreCompatible reports whether a quantity in a can be converted to b:
// both units share a kind and that kind is not Other
func AreCompatible(a, b Unit) bool {
	kind := a.Kind()
	return kind == b.Kind() && kind != UnitKindOther
}

// ConversionFactor returns f such that an amount in a times f is the amount in b.
// ok is false when the units are incompatible.
func ConversionFactor(a, b Unit) (factor float64, ok bool) {
	if !AreCompatible(a, b) {
		return 0, false
	}
	return units[b].scale / units[a].scale, true
}
