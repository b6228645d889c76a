package ports

import (
	"context"
	"time"

	"github.com/example42/pabawi-backend/internal/core/domain"
)

// ReportProvider is the query contract over the fleet's run history.
// Implementations own their transport, pagination and timeout policy;
// the aggregation engine only consumes these queries.
type ReportProvider interface {
	// GetNodeReports returns the most recent limit reports for a node.
	// Order is not guaranteed; consumers must not assume sorting.
	GetNodeReports(ctx context.Context, nodeID string, limit int) ([]domain.FullReport, error)

	// GetNodeReportCountsByDateAndStatus returns pre-aggregated
	// (date, status, count) triples for one node over [start, end].
	GetNodeReportCountsByDateAndStatus(ctx context.Context, nodeID string, start, end domain.CalendarDate) ([]domain.StatusCount, error)

	// GetReportCountsByDateAndStatus is the fleet-wide variant.
	GetReportCountsByDateAndStatus(ctx context.Context, start, end domain.CalendarDate) ([]domain.StatusCount, error)

	// GetNodes returns the node inventory known to the provider.
	GetNodes(ctx context.Context) ([]domain.Node, error)

	// Ping verifies provider connectivity for readiness checks.
	Ping(ctx context.Context) error
}

// JournalRepository persists append-only per-node activity entries.
type JournalRepository interface {
	Create(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error)
	List(ctx context.Context, filter domain.JournalFilter) ([]*domain.JournalEntry, error)
	Stats(ctx context.Context, nodeID string) (*domain.JournalStats, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
