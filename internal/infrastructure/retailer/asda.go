package retailer

import (
	"fmt"

	"github.com/basketlens/backend/internal/domain"
)

// asdaUnits maps the unit suffixes Asda uses in extended_item_info.weight
var asdaUnits = UnitTable{
	"l":  domain.UnitL,
	"ml": domain.UnitML,
	"cl": domain.UnitCL,
	"kg": domain.UnitKG,
	"g":  domain.UnitG,
	"pk": domain.UnitPieces,
}

const asdaThumbnailURL = "https://ui.assets-asda.com/dm/asdagroceries/%s?$ProdList$=&fmt=webp&qlt=50"

// AsdaAdapter normalizes entries of an Asda search "items" list
type AsdaAdapter struct{}

func (AsdaAdapter) Source() domain.Source { return domain.SourceAsda }

func (AsdaAdapter) Normalize(raw domain.RawRecord) domain.Item {
	valid := true

	description, ok := lookupString(raw, "item", "name")
	if !ok {
		valid = false
	}

	price := defaultPrice()
	if label, ok := lookupString(raw, "price", "price_info", "price"); ok {
		if parsed, err := ParsePriceText(label, domain.CurrencyGBP); err == nil {
			price = parsed
		} else {
			valid = false
		}
	} else {
		valid = false
	}

	quantity := unknownQuantity("")
	if weight, ok := lookupString(raw, "item", "extended_item_info", "weight"); ok {
		if q, err := ParseQuantity(weight, asdaUnits); err == nil {
			quantity = q
		} else {
			quantity = unknownQuantity(weight)
		}
	}

	thumbnail := ""
	if upc, ok := lookupString(raw, "item", "upc_numbers", "0"); ok && upc != "" {
		thumbnail = fmt.Sprintf(asdaThumbnailURL, upc)
	}

	return domain.NewItem(domain.SourceAsda, description, price, quantity, thumbnail, valid)
}
