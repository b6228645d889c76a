package ports

import (
	"context"
	"time"

	"github.com/example42/pabawi-backend/internal/core/domain"
)

// HistoryService aggregates run history for a single node or the fleet.
// Results are recomputed on every call and reflect only what the report
// provider currently returns.
type HistoryService interface {
	// GetNodeHistory returns a gapless days+1 bucket series ending today
	// plus summary statistics. days must be non-negative.
	GetNodeHistory(ctx context.Context, nodeID string, days int) (*domain.NodeHistory, error)

	// GetAggregatedHistory is the fleet-wide variant: buckets only, no
	// summary and no recent-report sample.
	GetAggregatedHistory(ctx context.Context, days int) ([]domain.DayBucket, error)

	// ListNodes passes through the provider's node inventory.
	ListNodes(ctx context.Context) ([]domain.Node, error)
}

// RecordEntryParams carries input for recording a journal entry.
type RecordEntryParams struct {
	NodeID   string
	Category domain.JournalCategory
	Action   string
	Status   domain.JournalStatus
	Detail   string
}

// JournalService manages the append-only per-node activity journal.
type JournalService interface {
	Record(ctx context.Context, params RecordEntryParams) (*domain.JournalEntry, error)
	List(ctx context.Context, filter domain.JournalFilter) ([]*domain.JournalEntry, error)
	Stats(ctx context.Context, nodeID string) (*domain.JournalStats, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}
