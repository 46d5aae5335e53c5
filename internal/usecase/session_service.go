package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/basketlens/backend/internal/domain"
	"github.com/basketlens/backend/internal/infrastructure/retailer"
)

// SessionServiceConfig holds configuration for the session service
type SessionServiceConfig struct {
	SessionTTL time.Duration
	Filters    FilterDefaults
}

// Session is one query's fetched items plus the pipeline the caller is
// tuning. All access goes through SessionService, which holds mu for the
// duration of every operation.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	result   *SearchResult
	pipeline *Pipeline
}

// RawBatch is a list of raw payloads supplied by the caller for one retailer
type RawBatch struct {
	Source  domain.Source
	Records []domain.RawRecord
}

// CreateSessionRequest starts a session from live searches, supplied raw
// payloads, or both. Items keep the order of Batches followed by Sources.
type CreateSessionRequest struct {
	Query   string
	Sources []domain.Source
	Batches []RawBatch
}

// RangeRequest sets a bounded filter. A nil Enabled keeps the current flag.
type RangeRequest[T any] struct {
	Low     T
	High    T
	Enabled *bool
}

// View is what a caller sees of a session after every operation
type View struct {
	SessionID    string           `json:"sessionId"`
	Query        string           `json:"query"`
	Pipeline     PipelineSnapshot `json:"pipeline"`
	Items        []domain.Item    `json:"items"`
	Unrecognized []domain.Item    `json:"unrecognized"`
	Counts       ViewCounts       `json:"counts"`
}

type ViewCounts struct {
	Fetched      int `json:"fetched"`
	Valid        int `json:"valid"`
	Displayed    int `json:"displayed"`
	Unrecognized int `json:"unrecognized"`
}

// SessionService owns search sessions: it builds them from retailer
// payloads, stores them and applies pipeline changes under the session lock
type SessionService struct {
	store     domain.CacheRepository[*Session]
	searchers map[domain.Source]domain.RawSearcher
	ttl       time.Duration
	defaults  FilterDefaults
	logger    zerolog.Logger
}

// NewSessionService creates a new session service with dependencies
func NewSessionService(
	store domain.CacheRepository[*Session],
	searchers []domain.RawSearcher,
	config SessionServiceConfig,
	logger zerolog.Logger,
) (*SessionService, error) {
	ttl := config.SessionTTL
	if ttl == 0 {
		ttl = 2 * time.Hour
	}

	// fail at startup rather than on the first session
	if _, err := NewPipeline(config.Filters); err != nil {
		return nil, err
	}

	bySource := make(map[domain.Source]domain.RawSearcher, len(searchers))
	for _, s := range searchers {
		bySource[s.Source()] = s
	}

	return &SessionService{
		store:     store,
		searchers: bySource,
		ttl:       ttl,
		defaults:  config.Filters,
		logger:    logger.With().Str("component", "session_service").Logger(),
	}, nil
}

// CreateSession normalizes the supplied batches, searches the requested
// retailers and stores a new session with a default pipeline
func (s *SessionService) CreateSession(ctx context.Context, request CreateSessionRequest) (*View, error) {
	query := strings.TrimSpace(request.Query)
	if len(request.Sources) == 0 && len(request.Batches) == 0 {
		return nil, fmt.Errorf("%w: no sources or batches", domain.ErrInvalidRequest)
	}
	if len(request.Sources) > 0 && query == "" {
		return nil, fmt.Errorf("%w: query is required to search retailers", domain.ErrInvalidRequest)
	}

	var items []domain.Item
	for _, batch := range request.Batches {
		normalized, err := retailer.NormalizeBatch(batch.Source, batch.Records)
		if err != nil {
			return nil, err
		}
		items = append(items, normalized...)
	}

	fetched, err := s.search(ctx, query, request.Sources)
	if err != nil {
		return nil, err
	}
	items = append(items, fetched...)

	pipeline, err := NewPipeline(s.defaults)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		result:    NewSearchResult(query, items),
		pipeline:  pipeline,
	}
	if err := s.store.Set(ctx, session.ID, session, s.ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.logger.Info().
		Str("session_id", session.ID).
		Str("query", query).
		Int("items", session.result.Len()).
		Int("unrecognized", len(session.result.Unrecognized())).
		Msg("session created")

	session.mu.Lock()
	defer session.mu.Unlock()
	return s.view(session)
}

// search queries every requested retailer concurrently and returns the
// normalized items in request order
func (s *SessionService) search(ctx context.Context, query string, sources []domain.Source) ([]domain.Item, error) {
	searchers := make([]domain.RawSearcher, len(sources))
	for i, source := range sources {
		searcher, ok := s.searchers[source]
		if !ok {
			return nil, fmt.Errorf("%w: no searcher configured for %q", domain.ErrUnknownSource, string(source))
		}
		searchers[i] = searcher
	}

	results := make([][]domain.Item, len(searchers))
	errs := make([]error, len(searchers))

	var wg sync.WaitGroup
	for i, searcher := range searchers {
		wg.Add(1)
		go func(i int, searcher domain.RawSearcher) {
			defer wg.Done()

			start := time.Now()
			raws, err := searcher.SearchRaw(ctx, query)
			if err != nil {
				if !errors.Is(err, domain.ErrRetailerAPIFailure) {
					err = fmt.Errorf("%w: %v", domain.ErrRetailerAPIFailure, err)
				}
				errs[i] = fmt.Errorf("search %s: %w", searcher.Source(), err)
				return
			}
			results[i], errs[i] = retailer.NormalizeBatch(searcher.Source(), raws)

			s.logger.Debug().
				Str("source", string(searcher.Source())).
				Str("query", query).
				Int("records", len(raws)).
				Dur("elapsed", time.Since(start)).
				Msg("retailer search complete")
		}(i, searcher)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("retailer search failed")
		return nil, err
	}

	var items []domain.Item
	for _, r := range results {
		items = append(items, r...)
	}
	return items, nil
}

// View returns the session's current view
func (s *SessionService) View(ctx context.Context, id string) (*View, error) {
	return s.withSession(ctx, id, func(*Pipeline) error { return nil })
}

// SetSort selects the sort criterion
func (s *SessionService) SetSort(ctx context.Context, id string, criterion SortCriterion) (*View, error) {
	return s.withSession(ctx, id, func(p *Pipeline) error {
		return p.SetSort(criterion)
	})
}

// ConfigurePriceFilter replaces the price bounds
func (s *SessionService) ConfigurePriceFilter(ctx context.Context, id string, request RangeRequest[domain.Price]) (*View, error) {
	return s.withSession(ctx, id, func(p *Pipeline) error {
		if err := p.ConfigurePrice(request.Low, request.High); err != nil {
			return err
		}
		return setEnabled(p, FilterPrice, request.Enabled)
	})
}

// ConfigureUnitPriceFilter replaces the unit price bounds
func (s *SessionService) ConfigureUnitPriceFilter(ctx context.Context, id string, request RangeRequest[domain.UnitPrice]) (*View, error) {
	return s.withSession(ctx, id, func(p *Pipeline) error {
		if err := p.ConfigureUnitPrice(request.Low, request.High); err != nil {
			return err
		}
		return setEnabled(p, FilterUnitPrice, request.Enabled)
	})
}

// ConfigureQuantityFilter replaces the quantity bounds
func (s *SessionService) ConfigureQuantityFilter(ctx context.Context, id string, request RangeRequest[domain.Quantity]) (*View, error) {
	return s.withSession(ctx, id, func(p *Pipeline) error {
		if err := p.ConfigureQuantity(request.Low, request.High); err != nil {
			return err
		}
		return setEnabled(p, FilterQuantity, request.Enabled)
	})
}

// ConfigureDescriptionFilter replaces the description substring
func (s *SessionService) ConfigureDescriptionFilter(ctx context.Context, id string, substring string, enabled *bool) (*View, error) {
	return s.withSession(ctx, id, func(p *Pipeline) error {
		p.ConfigureDescription(substring)
		return setEnabled(p, FilterDescription, enabled)
	})
}

// ConfigureUnitKindFilter replaces the unit kind filter's accept set
func (s *SessionService) ConfigureUnitKindFilter(ctx context.Context, id string, kinds []domain.UnitKind, enabled *bool) (*View, error) {
	return s.withSession(ctx, id, func(p *Pipeline) error {
		p.ConfigureUnitKinds(kinds...)
		return setEnabled(p, FilterUnitKind, enabled)
	})
}

// SetFilterEnabled switches one filter on or off
func (s *SessionService) SetFilterEnabled(ctx context.Context, id string, name FilterName, enabled bool) (*View, error) {
	return s.withSession(ctx, id, func(p *Pipeline) error {
		return p.SetEnabled(name, enabled)
	})
}

// ToggleFilter flips one filter's enabled flag
func (s *SessionService) ToggleFilter(ctx context.Context, id string, name FilterName) (*View, error) {
	return s.withSession(ctx, id, func(p *Pipeline) error {
		_, err := p.Toggle(name)
		return err
	})
}

// ToggleUnitKind adds or removes a kind from the unit kind filter's accept set
func (s *SessionService) ToggleUnitKind(ctx context.Context, id string, kind domain.UnitKind) (*View, error) {
	return s.withSession(ctx, id, func(p *Pipeline) error {
		p.ToggleUnitKind(kind)
		return nil
	})
}

// ResetFilters restores the default sort and filters
func (s *SessionService) ResetFilters(ctx context.Context, id string) (*View, error) {
	return s.withSession(ctx, id, func(p *Pipeline) error {
		p.Reset()
		return nil
	})
}

// DeleteSession removes a session. Deleting an unknown session is ErrSessionNotFound.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("session_id", id).Msg("session deleted")
	return nil
}

// withSession runs mutate under the session lock and returns the resulting
// view. Every access extends the session's lifetime.
func (s *SessionService) withSession(ctx context.Context, id string, mutate func(*Pipeline) error) (*View, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	before := session.pipeline.Revision()
	if err := mutate(session.pipeline); err != nil {
		return nil, err
	}
	if session.pipeline.Revision() != before {
		s.logger.Debug().
			Str("session_id", id).
			Uint64("revision", session.pipeline.Revision()).
			Msg("pipeline updated")
	}

	if err := s.store.Set(ctx, id, session, s.ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return s.view(session)
}

// view must be called with session.mu held
func (s *SessionService) view(session *Session) (*View, error) {
	displayed, err := session.result.DisplayedView(session.pipeline)
	if err != nil {
		return nil, err
	}
	unrecognized := session.result.Unrecognized()
	if displayed == nil {
		displayed = []domain.Item{}
	}
	if unrecognized == nil {
		unrecognized = []domain.Item{}
	}

	return &View{
		SessionID:    session.ID,
		Query:        session.result.Query(),
		Pipeline:     session.pipeline.Snapshot(),
		Items:        displayed,
		Unrecognized: unrecognized,
		Counts: ViewCounts{
			Fetched:      session.result.Len(),
			Valid:        session.result.ValidLen(),
			Displayed:    len(displayed),
			Unrecognized: len(unrecognized),
		},
	}, nil
}

func setEnabled(p *Pipeline, name FilterName, enabled *bool) error {
	if enabled == nil {
		return nil
	}
	return p.SetEnabled(name, *enabled)
}
