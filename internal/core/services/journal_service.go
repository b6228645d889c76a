package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/example42/pabawi-backend/internal/core/domain"
	apperrors "github.com/example42/pabawi-backend/internal/core/errors"
	"github.com/example42/pabawi-backend/internal/core/ports"
)

const (
	defaultJournalPageSize = 50
	maxJournalPageSize     = 500
)

// JournalService implements the append-only per-node activity journal.
// It has no data dependency on the run-history aggregation engine.
type JournalService struct {
	repo   ports.JournalRepository
	logger *slog.Logger
}

var _ ports.JournalService = (*JournalService)(nil)

// NewJournalService creates a new journal service
func NewJournalService(repo ports.JournalRepository, logger *slog.Logger) ports.JournalService {
	return &JournalService{repo: repo, logger: logger}
}

// Record validates and appends a journal entry.
func (s *JournalService) Record(ctx context.Context, params ports.RecordEntryParams) (*domain.JournalEntry, error) {
	entry, err := domain.NewJournalEntry(params.NodeID, params.Category, params.Action, params.Status, params.Detail)
	if err != nil {
		return nil, err // Validation errors are returned here
	}
	return s.repo.Create(ctx, entry)
}

// List returns journal entries matching the filter, newest first.
func (s *JournalService) List(ctx context.Context, filter domain.JournalFilter) ([]*domain.JournalEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultJournalPageSize
	}
	if filter.Limit > maxJournalPageSize {
		filter.Limit = maxJournalPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

// Stats summarizes journal activity, optionally scoped to one node.
func (s *JournalService) Stats(ctx context.Context, nodeID string) (*domain.JournalStats, error) {
	return s.repo.Stats(ctx, nodeID)
}

// Prune removes entries older than the given retention period and
// returns how many were removed.
func (s *JournalService) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, apperrors.ErrInvalidDuration
	}

	cutoff := time.Now().UTC().Add(-olderThan)
	removed, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	s.logger.Info("journal pruned",
		"component", "journal",
		"cutoff", cutoff,
		"removed", removed,
	)
	return removed, nil
}
