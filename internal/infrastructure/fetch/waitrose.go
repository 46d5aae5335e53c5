package fetch

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/basketlens/backend/internal/domain"
)

const (
	waitroseSearchPath = "/api/content-prod/v2/cms/publish/productcontent/search/-1?clientType=WEB_APP"

	// WaitroseMaxPageSize is the largest page the search API serves
	WaitroseMaxPageSize = 128
)

type waitroseQueryParams struct {
	Size          int      `json:"size"`
	SearchTerm    string   `json:"searchTerm"`
	SortBy        string   `json:"sortBy"`
	SearchTags    []string `json:"searchTags"`
	FilterTags    []string `json:"filterTags"`
	OrderID       string   `json:"orderId"`
	CategoryLevel int      `json:"categoryLevel"`
	Start         int      `json:"start"`
}

type waitroseRequest struct {
	CustomerSearchRequest struct {
		QueryParams waitroseQueryParams `json:"queryParams"`
	} `json:"customerSearchRequest"`
}

type waitroseResponse struct {
	TotalMatches          int                `json:"totalMatches"`
	ComponentsAndProducts []domain.RawRecord `json:"componentsAndProducts"`
}

// WaitroseClient searches waitrose.com
type WaitroseClient struct {
	*client
	pageSize int
	maxItems int
}

var _ domain.RawSearcher = (*WaitroseClient)(nil)

// NewWaitroseClient creates a new Waitrose search client
func NewWaitroseClient(config ClientConfig, logger zerolog.Logger) *WaitroseClient {
	pageSize := config.PageSize
	if pageSize <= 0 || pageSize > WaitroseMaxPageSize {
		pageSize = WaitroseMaxPageSize
	}
	maxItems := config.MaxItems
	if maxItems <= 0 {
		maxItems = 5000
	}

	return &WaitroseClient{
		client:   newClient(config, logger.With().Str("component", "waitrose_client").Logger()),
		pageSize: pageSize,
		maxItems: maxItems,
	}
}

func (c *WaitroseClient) Source() domain.Source { return domain.SourceWaitrose }

// SearchRaw pages through the search results until maxItems products or the
// reported total has been collected. Pages start at 1.
func (c *WaitroseClient) SearchRaw(ctx context.Context, term string) ([]domain.RawRecord, error) {
	var records []domain.RawRecord
	total := -1

	for page := 0; ; page++ {
		remaining := c.maxItems - len(records)
		size := min(c.pageSize, remaining)
		start := 1 + c.pageSize*page

		resp, err := c.searchPage(ctx, term, start, size)
		if err != nil {
			return nil, err
		}
		if total < 0 {
			total = resp.TotalMatches
		}
		records = append(records, resp.ComponentsAndProducts...)

		if len(resp.ComponentsAndProducts) < size || len(records) >= min(total, c.maxItems) {
			break
		}
	}

	if len(records) > c.maxItems {
		records = records[:c.maxItems]
	}

	c.logger.Info().
		Str("term", term).
		Int("total_matches", total).
		Int("records", len(records)).
		Msg("search complete")
	return records, nil
}

func (c *WaitroseClient) searchPage(ctx context.Context, term string, start, size int) (*waitroseResponse, error) {
	var req waitroseRequest
	req.CustomerSearchRequest.QueryParams = waitroseQueryParams{
		Size:          size,
		SearchTerm:    term,
		SortBy:        "RELEVANCE",
		SearchTags:    []string{},
		FilterTags:    []string{},
		OrderID:       "0",
		CategoryLevel: 1,
		Start:         start,
	}

	headers := map[string]string{"Authorization": "Bearer unauthenticated"}

	var resp waitroseResponse
	if err := c.postJSON(ctx, strings.TrimRight(c.baseURL, "/")+waitroseSearchPath, headers, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
