package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/basketlens/backend/internal/domain"
	"github.com/basketlens/backend/internal/observability"
	"github.com/basketlens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	sessions *usecase.SessionService
	logger   zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(sessions *usecase.SessionService, logger zerolog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		logger:   logger.With().Str("component", "http_handler").Logger(),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "basketlens-backend",
		"version": "1.0.0",
	})
}

// Metadata lists the values the other endpoints accept
func (h *Handler) Metadata(c *gin.Context) {
	units := make([]gin.H, 0, len(domain.Units()))
	for _, u := range domain.Units() {
		units = append(units, gin.H{"symbol": u.Symbol(), "kind": u.Kind().String()})
	}
	c.JSON(http.StatusOK, gin.H{
		"sources":      domain.Sources(),
		"currencies":   domain.Currencies(),
		"units":        units,
		"unitKinds":    domain.UnitKinds(),
		"sortCriteria": usecase.SortCriteria(),
		"filters":      usecase.FilterNames(),
	})
}

// CreateSession handles POST /api/v1/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	request, err := req.toUsecase()
	if err != nil {
		h.respondError(c, err)
		return
	}

	view, err := h.sessions.CreateSession(c.Request.Context(), request)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetSession handles GET /api/v1/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	view, err := h.sessions.View(c.Request.Context(), c.Param("id"))
	h.respondView(c, view, err)
}

// DeleteSession handles DELETE /api/v1/sessions/:id
func (h *Handler) DeleteSession(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	if err := h.sessions.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetSort handles PUT /api/v1/sessions/:id/sort
func (h *Handler) SetSort(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	criterion, err := usecase.ParseSortCriterion(req.Sort)
	if err != nil {
		h.respondError(c, err)
		return
	}

	view, err := h.sessions.SetSort(c.Request.Context(), c.Param("id"), criterion)
	h.respondView(c, view, err)
}

// ConfigureFilter handles PUT /api/v1/sessions/:id/filters/:filter and
// dispatches on the filter name
func (h *Handler) ConfigureFilter(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	name, err := usecase.ParseFilterName(c.Param("filter"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	switch name {
	case usecase.FilterPrice:
		h.configurePriceFilter(c)
	case usecase.FilterUnitPrice:
		h.configureUnitPriceFilter(c)
	case usecase.FilterQuantity:
		h.configureQuantityFilter(c)
	case usecase.FilterUnitKind:
		h.configureUnitKindFilter(c)
	case usecase.FilterDescription:
		h.configureDescriptionFilter(c)
	}
}

func (h *Handler) configurePriceFilter(c *gin.Context) {
	var req PriceRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	request, err := req.toUsecase()
	if err != nil {
		h.respondError(c, err)
		return
	}

	view, err := h.sessions.ConfigurePriceFilter(c.Request.Context(), c.Param("id"), request)
	h.respondView(c, view, err)
}

func (h *Handler) configureUnitPriceFilter(c *gin.Context) {
	var req UnitPriceRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	request, err := req.toUsecase()
	if err != nil {
		h.respondError(c, err)
		return
	}

	view, err := h.sessions.ConfigureUnitPriceFilter(c.Request.Context(), c.Param("id"), request)
	h.respondView(c, view, err)
}

func (h *Handler) configureQuantityFilter(c *gin.Context) {
	var req QuantityRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	request, err := req.toUsecase()
	if err != nil {
		h.respondError(c, err)
		return
	}

	view, err := h.sessions.ConfigureQuantityFilter(c.Request.Context(), c.Param("id"), request)
	h.respondView(c, view, err)
}

func (h *Handler) configureDescriptionFilter(c *gin.Context) {
	var req DescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	view, err := h.sessions.ConfigureDescriptionFilter(c.Request.Context(), c.Param("id"), req.Substring, req.Enabled)
	h.respondView(c, view, err)
}

func (h *Handler) configureUnitKindFilter(c *gin.Context) {
	var req UnitKindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	kinds, err := req.kinds()
	if err != nil {
		h.respondError(c, err)
		return
	}

	view, err := h.sessions.ConfigureUnitKindFilter(c.Request.Context(), c.Param("id"), kinds, req.Enabled)
	h.respondView(c, view, err)
}

// SetFilterEnabled handles PUT /api/v1/sessions/:id/filters/:filter/enabled
func (h *Handler) SetFilterEnabled(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	name, err := usecase.ParseFilterName(c.Param("filter"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req EnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	view, err := h.sessions.SetFilterEnabled(c.Request.Context(), c.Param("id"), name, *req.Enabled)
	h.respondView(c, view, err)
}

// ToggleFilter handles POST /api/v1/sessions/:id/filters/:filter/toggle
func (h *Handler) ToggleFilter(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	name, err := usecase.ParseFilterName(c.Param("filter"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	view, err := h.sessions.ToggleFilter(c.Request.Context(), c.Param("id"), name)
	h.respondView(c, view, err)
}

// ToggleUnitKind handles POST /api/v1/sessions/:id/unit-kinds/:kind/toggle
func (h *Handler) ToggleUnitKind(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	kind, err := domain.ParseUnitKind(c.Param("kind"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	view, err := h.sessions.ToggleUnitKind(c.Request.Context(), c.Param("id"), kind)
	h.respondView(c, view, err)
}

// ResetFilters handles DELETE /api/v1/sessions/:id/filters
func (h *Handler) ResetFilters(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	view, err := h.sessions.ResetFilters(c.Request.Context(), c.Param("id"))
	h.respondView(c, view, err)
}

// ready writes 503 when the handler was built without a session service
func (h *Handler) ready(c *gin.Context) bool {
	if h.sessions == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "session service not configured"})
		return false
	}
	return true
}

func (h *Handler) respondView(c *gin.Context, view *usecase.View, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
}

// respondError maps domain errors to status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	logger := observability.WithRequestID(c.Request.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	} else {
		logger.Debug().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("request rejected")
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case domain.IsConfigurationError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRetailerAPIFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
