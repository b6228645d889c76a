package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example42/pabawi-backend/internal/core/domain"
	apperrors "github.com/example42/pabawi-backend/internal/core/errors"
	"github.com/example42/pabawi-backend/internal/core/ports"
)

// JournalHandler exposes the per-node activity journal over HTTP.
type JournalHandler struct {
	journalSvc   ports.JournalService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(journalSvc ports.JournalService, errorHandler *ErrorHandler, logger *slog.Logger) *JournalHandler {
	return &JournalHandler{
		journalSvc:   journalSvc,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// RegisterRoutes registers journal routes on the given router
func (h *JournalHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleRecord)
	r.Get("/stats", h.HandleStats)
	r.Delete("/", h.HandlePrune)
}

// recordRequest is the POST body for recording a journal entry.
type recordRequest struct {
	NodeID   string `json:"nodeId"`
	Category string `json:"category"`
	Action   string `json:"action"`
	Status   string `json:"status"`
	Detail   string `json:"detail"`
}

// HandleRecord appends a journal entry.
// POST /api/v1/journal
func (h *JournalHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "invalid request body"))
		return
	}

	entry, err := h.journalSvc.Record(r.Context(), ports.RecordEntryParams{
		NodeID:   req.NodeID,
		Category: domain.JournalCategory(req.Category),
		Action:   req.Action,
		Status:   domain.JournalStatus(req.Status),
		Detail:   req.Detail,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteCreated(w, entry)
}

// HandleList returns journal entries matching the query filters.
// GET /api/v1/journal?node=&category=&status=&since=&until=&limit=&offset=
func (h *JournalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseJournalFilter(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	entries, err := h.journalSvc.List(r.Context(), filter)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, ListResponse[*domain.JournalEntry]{
		Data:  entries,
		Count: len(entries),
	})
}

// HandleStats returns journal statistics, optionally scoped to one node.
// GET /api/v1/journal/stats?node=
func (h *JournalHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.journalSvc.Stats(r.Context(), r.URL.Query().Get("node"))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteSuccess(w, stats)
}

// HandlePrune removes entries older than the given retention period.
// DELETE /api/v1/journal?older_than=720h
func (h *JournalHandler) HandlePrune(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("older_than")
	olderThan, err := time.ParseDuration(raw)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(apperrors.ErrInvalidDuration, "older_than must be a duration such as 720h"))
		return
	}

	removed, err := h.journalSvc.Prune(r.Context(), olderThan)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteSuccess(w, map[string]int64{"removed": removed})
}

func parseJournalFilter(r *http.Request) (domain.JournalFilter, error) {
	q := r.URL.Query()
	filter := domain.JournalFilter{
		NodeID:   q.Get("node"),
		Category: domain.JournalCategory(q.Get("category")),
		Status:   domain.JournalStatus(q.Get("status")),
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, apperrors.NewBadRequestError(err, "limit must be an integer")
		}
		filter.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return filter, apperrors.NewBadRequestError(err, "offset must be an integer")
		}
		filter.Offset = offset
	}
	if raw := q.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, apperrors.NewBadRequestError(err, "since must be an RFC3339 timestamp")
		}
		filter.Since = &since
	}
	if raw := q.Get("until"); raw != "" {
		until, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, apperrors.NewBadRequestError(err, "until must be an RFC3339 timestamp")
		}
		filter.Until = &until
	}

	return filter, nil
}
