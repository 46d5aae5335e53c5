package retailer

import (
	"fmt"
	"strings"

	"github.com/basketlens/backend/internal/domain"
)

// waitroseUnits maps the unit suffixes Waitrose uses in its size field
var waitroseUnits = UnitTable{
	"litre":  domain.UnitL,
	"litres": domain.UnitL,
	"l":      domain.UnitL,
	"ml":     domain.UnitML,
	"cl":     domain.UnitCL,
	"kg":     domain.UnitKG,
	"g":      domain.UnitG,
	"s":      domain.UnitPieces,
}

// waitroseTypicalWeightUOM is the unit of measure code for kilograms in typicalWeight
const waitroseTypicalWeightUOM = "KGM"

// WaitroseAdapter normalizes entries of a Waitrose "componentsAndProducts" list
type WaitroseAdapter struct{}

func (WaitroseAdapter) Source() domain.Source { return domain.SourceWaitrose }

func (a WaitroseAdapter) Normalize(raw domain.RawRecord) domain.Item {
	valid := true

	description, ok := lookupString(raw, "searchProduct", "name")
	if !ok {
		valid = false
	}

	price, ok := a.price(raw)
	if !ok {
		price = defaultPrice()
		valid = false
	}

	thumbnail, _ := lookupString(raw, "searchProduct", "thumbnail")

	return domain.NewItem(domain.SourceWaitrose, description, price, a.quantity(raw), thumbnail, valid)
}

func (WaitroseAdapter) price(raw domain.RawRecord) (domain.Price, bool) {
	amount, ok := lookupFloat(raw, "searchProduct", "currentSaleUnitPrice", "price", "amount")
	if !ok {
		return domain.Price{}, false
	}
	currency := domain.CurrencyGBP
	if code, ok := lookupString(raw, "searchProduct", "currentSaleUnitPrice", "price", "currencyCode"); ok {
		parsed, err := domain.ParseCurrency(code)
		if err != nil {
			return domain.Price{}, false
		}
		currency = parsed
	}
	return domain.NewPrice(amount, currency), true
}

// quantity reads the size field, then typicalWeight, then falls back to an
// unknown quantity noted with whatever raw text was available
func (WaitroseAdapter) quantity(raw domain.RawRecord) domain.Quantity {
	if size, ok := lookupString(raw, "searchProduct", "size"); ok {
		if q, err := ParseQuantity(size, waitroseUnits); err == nil {
			return q
		}
	}

	if typical, ok := lookupMap(raw, "searchProduct", "typicalWeight"); ok {
		note := fmt.Sprintf("typical weight %v", typical)
		amount, amountOK := lookupFloat(typical, "amount")
		uom, _ := lookupString(typical, "uom")
		if amountOK && strings.EqualFold(uom, waitroseTypicalWeightUOM) {
			return domain.Quantity{Amount: amount, Unit: domain.UnitKGTypical, Note: note}
		}
		return unknownQuantity(note)
	}

	if def, ok := lookup(raw, "searchProduct", "defaultQuantity"); ok {
		return unknownQuantity(fmt.Sprintf("default quantity %v", def))
	}

	size, _ := lookupString(raw, "searchProduct", "size")
	return unknownQuantity(size)
}
