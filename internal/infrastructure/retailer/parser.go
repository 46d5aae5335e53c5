package retailer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/basketlens/backend/internal/domain"
)

// Package-level compiled regex patterns
var (
	// quantityTokenPattern splits "6x300g" into "6", "x", "300", "g"
	quantityTokenPattern = regexp.MustCompile(`\d*\.?\d+|\D+`)

	// priceAmountPattern finds the first decimal number in a price label,
	// thousands separators included
	priceAmountPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?|\.\d+`)
)

// UnitTable maps a retailer's unit tokens to units
type UnitTable map[string]domain.Unit

// Lookup resolves a token, ignoring case and surrounding space.
// Unmapped tokens resolve to UnitNull.
func (t UnitTable) Lookup(token string) domain.Unit {
	if unit, ok := t[strings.ToLower(strings.TrimSpace(token))]; ok {
		return unit
	}
	return domain.UnitNull
}

// ParseQuantity reads a loosely formatted size string such as "6x300g",
// "1.5kg" or "Typical weight 0.3kg".
//
// The amount is the first number, multiplied by the second when the two are
// separated by an "x". The unit is the token that follows the amount; an
// unmapped or missing unit yields UnitNull rather than an error. A string with
// no number at all is ErrUnparseableField.
func ParseQuantity(text string, table UnitTable) (domain.Quantity, error) {
	var tokens []string
	for _, tok := range quantityTokenPattern.FindAllString(text, -1) {
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, tok)
		}
	}

	first := -1
	var amount float64
	for i, tok := range tokens {
		if v, ok := parseNumberToken(tok); ok {
			first, amount = i, v
			break
		}
	}
	if first < 0 {
		return domain.Quantity{}, fmt.Errorf("%w: no amount in %q", domain.ErrUnparseableField, text)
	}

	prefix := strings.ToLower(strings.Join(tokens[:first], " "))
	rest := tokens[first+1:]

	if len(rest) >= 2 && strings.EqualFold(rest[0], "x") {
		if multiplier, ok := parseNumberToken(rest[1]); ok {
			amount *= multiplier
			rest = rest[2:]
		}
	}

	unit := domain.UnitNull
	if len(rest) > 0 {
		unit = table.Lookup(rest[0])
	}
	if unit == domain.UnitKG && strings.Contains(prefix, "typical") {
		unit = domain.UnitKGTypical
	}

	return domain.Quantity{Amount: amount, Unit: unit, Note: text}, nil
}

// parseNumberToken parses a numeric run. Words such as "Nan" or "Inf" that
// strconv would accept are not numbers here.
func parseNumberToken(tok string) (float64, bool) {
	if tok == "" || !strings.ContainsAny(tok[:1], "0123456789.") {
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParsePriceText reads a shelf price label such as "£1.50" or "75p"
func ParsePriceText(text string, currency domain.Currency) (domain.Price, error) {
	label := strings.TrimSpace(text)
	match := priceAmountPattern.FindString(label)
	if match == "" {
		return domain.Price{}, fmt.Errorf("%w: no amount in price %q", domain.ErrUnparseableField, text)
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return domain.Price{}, fmt.Errorf("%w: %v", domain.ErrUnparseableField, err)
	}

	// pence labels carry no currency symbol
	if strings.HasSuffix(strings.ToLower(label), "p") && !strings.ContainsAny(label, "£$") {
		amount /= 100
	}

	return domain.NewPrice(amount, currency), nil
}
