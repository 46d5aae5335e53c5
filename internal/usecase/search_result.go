package usecase

import (
	"github.com/basketlens/backend/internal/domain"
)

// SearchResult holds the items fetched for one query and memoizes the view
// derived from them. The fetched list is never reordered or modified.
//
// Invalid items take no part in sorting or filtering; they are kept apart in
// Unrecognized. A SearchResult is not safe for concurrent use.
type SearchResult struct {
	query        string
	initial      []domain.Item
	valid        []domain.Item
	unrecognized []domain.Item

	sorted struct {
		ok        bool
		criterion SortCriterion
		items     []domain.Item
	}
	displayed struct {
		ok       bool
		pipeline *Pipeline
		revision uint64
		items    []domain.Item
	}
}

// NewSearchResult copies items, in fetch order
func NewSearchResult(query string, items []domain.Item) *SearchResult {
	initial := append([]domain.Item(nil), items...)
	valid, unrecognized := domain.PartitionByValidity(initial)
	return &SearchResult{
		query:        query,
		initial:      initial,
		valid:        valid,
		unrecognized: unrecognized,
	}
}

func (r *SearchResult) Query() string { return r.query }

// Initial returns a copy of every fetched item in fetch order
func (r *SearchResult) Initial() []domain.Item {
	return append([]domain.Item(nil), r.initial...)
}

// Unrecognized returns a copy of the items that could not be parsed, in fetch order
func (r *SearchResult) Unrecognized() []domain.Item {
	return append([]domain.Item(nil), r.unrecognized...)
}

// Len is the number of fetched items, valid or not
func (r *SearchResult) Len() int { return len(r.initial) }

// ValidLen is the number of items that take part in the displayed view
func (r *SearchResult) ValidLen() int { return len(r.valid) }

// SortedView returns the valid items ordered by the pipeline's sort criterion
func (r *SearchResult) SortedView(p *Pipeline) ([]domain.Item, error) {
	sorted, err := r.sortedFor(p.Sort())
	if err != nil {
		return nil, err
	}
	return append([]domain.Item(nil), sorted...), nil
}

// DisplayedView returns filter(sort(valid items)) for the pipeline's current
// configuration. The result is recomputed only when the pipeline or its
// revision differs from the previous call.
func (r *SearchResult) DisplayedView(p *Pipeline) ([]domain.Item, error) {
	d := &r.displayed
	if d.ok && d.pipeline == p && d.revision == p.Revision() {
		return append([]domain.Item(nil), d.items...), nil
	}

	sorted, err := r.sortedFor(p.Sort())
	if err != nil {
		return nil, err
	}

	d.items = p.Filter(sorted)
	d.pipeline = p
	d.revision = p.Revision()
	d.ok = true

	return append([]domain.Item(nil), d.items...), nil
}

func (r *SearchResult) sortedFor(criterion SortCriterion) ([]domain.Item, error) {
	s := &r.sorted
	if s.ok && s.criterion == criterion {
		return s.items, nil
	}
	items, err := SortItems(r.valid, criterion)
	if err != nil {
		return nil, err
	}
	s.items = items
	s.criterion = criterion
	s.ok = true
	return items, nil
}
