package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/example42/pabawi-backend/internal/core/domain"
	apperrors "github.com/example42/pabawi-backend/internal/core/errors"
	"github.com/example42/pabawi-backend/internal/core/ports"
)

// HistoryHandler exposes run-history aggregation over HTTP.
type HistoryHandler struct {
	historySvc   ports.HistoryService
	errorHandler *ErrorHandler
	logger       *slog.Logger
	defaultDays  int
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historySvc ports.HistoryService, errorHandler *ErrorHandler, logger *slog.Logger, defaultDays int) *HistoryHandler {
	if defaultDays < 0 {
		defaultDays = 7
	}
	return &HistoryHandler{
		historySvc:   historySvc,
		errorHandler: errorHandler,
		logger:       logger,
		defaultDays:  defaultDays,
	}
}

// RegisterRoutes registers history routes on the given router
func (h *HistoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/history", h.HandleAggregatedHistory)
	r.Get("/nodes", h.HandleListNodes)
	r.Get("/nodes/{nodeID}/history", h.HandleNodeHistory)
}

// HandleAggregatedHistory returns the fleet-wide bucket series.
// GET /api/v1/history?days=N
func (h *HistoryHandler) HandleAggregatedHistory(w http.ResponseWriter, r *http.Request) {
	days, err := h.parseDays(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	buckets, err := h.historySvc.GetAggregatedHistory(r.Context(), days)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteSuccess(w, buckets)
}

// HandleNodeHistory returns one node's bucket series plus summary.
// GET /api/v1/nodes/{nodeID}/history?days=N
func (h *HistoryHandler) HandleNodeHistory(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	if nodeID == "" {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(apperrors.ErrNodeIDRequired, "node id is required"))
		return
	}

	days, err := h.parseDays(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	history, err := h.historySvc.GetNodeHistory(r.Context(), nodeID, days)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteSuccess(w, history)
}

// HandleListNodes returns the provider's node inventory.
// GET /api/v1/nodes
func (h *HistoryHandler) HandleListNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.historySvc.ListNodes(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, ListResponse[domain.Node]{
		Data:  nodes,
		Count: len(nodes),
	})
}

// parseDays reads the days query parameter. Absent means the configured
// default; negative or malformed values are rejected before the engine
// is invoked.
func (h *HistoryHandler) parseDays(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return h.defaultDays, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0, apperrors.NewBadRequestError(apperrors.ErrInvalidDays, "days must be a non-negative integer")
	}
	return days, nil
}
