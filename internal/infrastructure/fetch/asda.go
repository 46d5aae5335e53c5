package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/basketlens/backend/internal/domain"
)

const (
	asdaSearchPath = "/api/bff/graphql"
	asdaStoreID    = "4565"
	asdaOrigin     = "gi"
)

type asdaPayload struct {
	FilterQuery        []string `json:"filter_query"`
	Cacheable          bool     `json:"cacheable"`
	Keyword            string   `json:"keyword"`
	PersonalisedSearch bool     `json:"personalised_search"`
	TagPastPurchases   bool     `json:"tag_past_purchases"`
	PageMetaInfo       bool     `json:"page_meta_info"`
}

type asdaVariables struct {
	StoreID       string      `json:"store_id"`
	Type          string      `json:"type"`
	PageSize      int         `json:"page_size"`
	Page          int         `json:"page"`
	RequestOrigin string      `json:"request_origin"`
	Payload       asdaPayload `json:"payload"`
}

type asdaRequest struct {
	RequestOrigin string        `json:"requestorigin"`
	Contract      string        `json:"contract"`
	Variables     asdaVariables `json:"variables"`
}

type asdaZone struct {
	Configs struct {
		TotalRecords int `json:"total_records"`
		Products     *struct {
			Items []domain.RawRecord `json:"items"`
		} `json:"products"`
	} `json:"configs"`
}

type asdaResponse struct {
	Data struct {
		TempoCMSContent struct {
			Zones []asdaZone `json:"zones"`
		} `json:"tempo_cms_content"`
	} `json:"data"`
}

// products returns the first zone carrying a product list. The search
// results are normally the second zone.
func (r *asdaResponse) products() (*asdaZone, bool) {
	for i := range r.Data.TempoCMSContent.Zones {
		if zone := &r.Data.TempoCMSContent.Zones[i]; zone.Configs.Products != nil {
			return zone, true
		}
	}
	return nil, false
}

// AsdaClient searches groceries.asda.com. One request returns every result
// up to the page size.
type AsdaClient struct {
	*client
	pageSize int
	maxItems int
}

var _ domain.RawSearcher = (*AsdaClient)(nil)

// NewAsdaClient creates a new Asda search client
func NewAsdaClient(config ClientConfig, logger zerolog.Logger) *AsdaClient {
	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}
	maxItems := config.MaxItems
	if maxItems <= 0 {
		maxItems = pageSize
	}

	return &AsdaClient{
		client:   newClient(config, logger.With().Str("component", "asda_client").Logger()),
		pageSize: pageSize,
		maxItems: maxItems,
	}
}

func (c *AsdaClient) Source() domain.Source { return domain.SourceAsda }

func (c *AsdaClient) SearchRaw(ctx context.Context, term string) ([]domain.RawRecord, error) {
	req := asdaRequest{
		RequestOrigin: asdaOrigin,
		Contract:      "web/cms/search",
		Variables: asdaVariables{
			StoreID:       asdaStoreID,
			Type:          "search",
			PageSize:      c.pageSize,
			Page:          1,
			RequestOrigin: asdaOrigin,
			Payload: asdaPayload{
				FilterQuery:        []string{},
				Cacheable:          true,
				Keyword:            term,
				PersonalisedSearch: false,
				TagPastPurchases:   true,
				PageMetaInfo:       true,
			},
		},
	}
	headers := map[string]string{"Request-Origin": asdaOrigin}

	var resp asdaResponse
	if err := c.postJSON(ctx, strings.TrimRight(c.baseURL, "/")+asdaSearchPath, headers, req, &resp); err != nil {
		return nil, err
	}

	zone, ok := resp.products()
	if !ok {
		return nil, fmt.Errorf("%w: no product zone in response", domain.ErrRetailerAPIFailure)
	}

	records := zone.Configs.Products.Items
	if len(records) > c.maxItems {
		records = records[:c.maxItems]
	}

	c.logger.Info().
		Str("term", term).
		Int("total_records", zone.Configs.TotalRecords).
		Int("records", len(records)).
		Msg("search complete")
	return records, nil
}
