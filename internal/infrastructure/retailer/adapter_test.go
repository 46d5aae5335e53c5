package retailer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basketlens/backend/internal/domain"
)

func decodeRecord(t *testing.T, body string) domain.RawRecord {
	t.Helper()
	var raw domain.RawRecord
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestWaitroseAdapter_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantValid bool
		wantDesc  string
		wantPrice float64
		wantQty   domain.Quantity
		wantThumb string
	}{
		{
			name: "complete record with size",
			body: `{"searchProduct": {"name": "Essential Semi Skimmed Milk", "size": "4 pints",
				"currentSaleUnitPrice": {"price": {"amount": 1.45, "currencyCode": "GBP"}},
				"thumbnail": "https://example.test/milk.jpg"}}`,
			wantValid: true,
			wantDesc:  "Essential Semi Skimmed Milk",
			wantPrice: 1.45,
			wantQty:   domain.Quantity{Amount: 4, Unit: domain.UnitNull, Note: "4 pints"},
			wantThumb: "https://example.test/milk.jpg",
		},
		{
			name: "multipack size",
			body: `{"searchProduct": {"name": "Crisps", "size": "6x25g",
				"currentSaleUnitPrice": {"price": {"amount": 2}}}}`,
			wantValid: true,
			wantDesc:  "Crisps",
			wantPrice: 2,
			wantQty:   domain.Quantity{Amount: 150, Unit: domain.UnitG, Note: "6x25g"},
		},
		{
			name: "loose produce with typical weight",
			body: `{"searchProduct": {"name": "Loose Carrots",
				"currentSaleUnitPrice": {"price": {"amount": 0.21}},
				"typicalWeight": {"amount": 0.3, "uom": "KGM"}}}`,
			wantValid: true,
			wantDesc:  "Loose Carrots",
			wantPrice: 0.21,
			wantQty:   domain.Quantity{Amount: 0.3, Unit: domain.UnitKGTypical},
		},
		{
			name:      "missing name",
			body:      `{"searchProduct": {"size": "500g", "currentSaleUnitPrice": {"price": {"amount": 1}}}}`,
			wantValid: false,
			wantPrice: 1,
			wantQty:   domain.Quantity{Amount: 500, Unit: domain.UnitG, Note: "500g"},
		},
		{
			name:      "missing price",
			body:      `{"searchProduct": {"name": "Mystery", "size": "1kg"}}`,
			wantValid: false,
			wantDesc:  "Mystery",
			wantPrice: 0,
			wantQty:   domain.Quantity{Amount: 1, Unit: domain.UnitKG, Note: "1kg"},
		},
	}

	adapter := WaitroseAdapter{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := adapter.Normalize(decodeRecord(t, tt.body))

			assert.Equal(t, domain.SourceWaitrose, item.Source)
			assert.Equal(t, tt.wantValid, item.Valid)
			assert.Equal(t, tt.wantDesc, item.Description)
			assert.InDelta(t, tt.wantPrice, item.Price.Amount, 1e-9)
			assert.Equal(t, domain.CurrencyGBP, item.Price.Currency)
			assert.InDelta(t, tt.wantQty.Amount, item.Quantity.Amount, 1e-9)
			assert.Equal(t, tt.wantQty.Unit, item.Quantity.Unit)
			if tt.wantQty.Note != "" {
				assert.Equal(t, tt.wantQty.Note, item.Quantity.Note)
			}
			assert.Equal(t, tt.wantThumb, item.Thumbnail)
		})
	}
}

func TestWaitroseAdapter_QuantityFallbacks(t *testing.T) {
	t.Run("typical weight in another unit keeps the raw text", func(t *testing.T) {
		item := WaitroseAdapter{}.Normalize(decodeRecord(t, `{"searchProduct": {"name": "Melon",
			"currentSaleUnitPrice": {"price": {"amount": 1.5}},
			"typicalWeight": {"amount": 1, "uom": "EA"}}}`))

		assert.True(t, item.Valid)
		assert.Equal(t, domain.UnitNull, item.Quantity.Unit)
		assert.Equal(t, 1.0, item.Quantity.Amount)
		assert.Contains(t, item.Quantity.Note, "typical weight")
	})

	t.Run("default quantity is only noted", func(t *testing.T) {
		item := WaitroseAdapter{}.Normalize(decodeRecord(t, `{"searchProduct": {"name": "Lemon",
			"currentSaleUnitPrice": {"price": {"amount": 0.3}},
			"defaultQuantity": {"amount": 1, "uom": "C62"}}}`))

		assert.True(t, item.Valid)
		assert.Equal(t, domain.UnitNull, item.Quantity.Unit)
		assert.Contains(t, item.Quantity.Note, "default quantity")
	})

	t.Run("nothing to go on", func(t *testing.T) {
		item := WaitroseAdapter{}.Normalize(decodeRecord(t, `{"searchProduct": {"name": "Gift card",
			"currentSaleUnitPrice": {"price": {"amount": 10}}}}`))

		assert.True(t, item.Valid)
		assert.Equal(t, domain.Quantity{Amount: 1, Unit: domain.UnitNull}, item.Quantity)
	})
}

func TestAsdaAdapter_Normalize(t *testing.T) {
	t.Run("complete record", func(t *testing.T) {
		item := AsdaAdapter{}.Normalize(decodeRecord(t, `{
			"item": {"name": "ASDA Baked Beans", "upc_numbers": ["5051413052406"],
				"extended_item_info": {"weight": "4x410g"}},
			"price": {"price_info": {"price": "£1.50"}}}`))

		assert.True(t, item.Valid)
		assert.Equal(t, domain.SourceAsda, item.Source)
		assert.Equal(t, "ASDA Baked Beans", item.Description)
		assert.InDelta(t, 1.50, item.Price.Amount, 1e-9)
		assert.InDelta(t, 1640, item.Quantity.Amount, 1e-9)
		assert.Equal(t, domain.UnitG, item.Quantity.Unit)
		assert.Equal(t,
			"https://ui.assets-asda.com/dm/asdagroceries/5051413052406?$ProdList$=&fmt=webp&qlt=50",
			item.Thumbnail)
	})

	t.Run("unreadable price marks the item invalid", func(t *testing.T) {
		item := AsdaAdapter{}.Normalize(decodeRecord(t, `{
			"item": {"name": "Bread", "extended_item_info": {"weight": "800g"}},
			"price": {"price_info": {"price": "n/a"}}}`))

		assert.False(t, item.Valid)
		assert.Equal(t, 0.0, item.Price.Amount)
		assert.Empty(t, item.Thumbnail)
	})

	t.Run("unparseable weight keeps the item valid", func(t *testing.T) {
		item := AsdaAdapter{}.Normalize(decodeRecord(t, `{
			"item": {"name": "Bananas", "extended_item_info": {"weight": "each"}},
			"price": {"price_info": {"price": "£0.15"}}}`))

		assert.True(t, item.Valid)
		assert.Equal(t, domain.UnitNull, item.Quantity.Unit)
		assert.Equal(t, "each", item.Quantity.Note)
	})
}

func TestNormalizeBatch(t *testing.T) {
	raws := []domain.RawRecord{
		decodeRecord(t, `{"searchProduct": {"name": "A", "currentSaleUnitPrice": {"price": {"amount": 1}}}}`),
		decodeRecord(t, `{"searchProduct": {}}`),
	}

	items, err := NormalizeBatch(domain.SourceWaitrose, raws)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Description)
	assert.True(t, items[0].Valid)
	assert.False(t, items[1].Valid)
	assert.NotEqual(t, items[0].ID, items[1].ID)

	_, err = NormalizeBatch(domain.Source("tesco"), raws)
	assert.ErrorIs(t, err, domain.ErrUnknownSource)
}
