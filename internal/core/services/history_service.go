package services

import (
	"context"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example42/pabawi-backend/internal/core/domain"
	"github.com/example42/pabawi-backend/internal/core/ports"
)

const (
	// DefaultHistoryDays is the look-back window used when the caller
	// omits one.
	DefaultHistoryDays = 7

	// DefaultRecentSample bounds the full-report sample used for
	// duration and last-run signals. It is independent of the requested
	// day window: the sample reflects current state, not the viewed
	// range.
	DefaultRecentSample = 10
)

// HistoryService implements run-history aggregation over the report
// provider. It holds no state between calls; every result is built fresh
// from provider data.
type HistoryService struct {
	provider     ports.ReportProvider
	logger       *slog.Logger
	recentSample int
}

var _ ports.HistoryService = (*HistoryService)(nil)

// NewHistoryService creates a new history service. recentSample <= 0
// falls back to DefaultRecentSample.
func NewHistoryService(provider ports.ReportProvider, logger *slog.Logger, recentSample int) ports.HistoryService {
	if recentSample <= 0 {
		recentSample = DefaultRecentSample
	}
	return &HistoryService{
		provider:     provider,
		logger:       logger,
		recentSample: recentSample,
	}
}

// GetNodeHistory returns the bucketed run history and summary for one node.
// The count query and the recent-report sample have no data dependency on
// each other and are issued concurrently. A failure of either is logged
// once and propagated; there is no partial result.
func (s *HistoryService) GetNodeHistory(ctx context.Context, nodeID string, days int) (*domain.NodeHistory, error) {
	dates := buildRange(days)
	start, end := dates[0], dates[len(dates)-1]

	var (
		counts []domain.StatusCount
		recent []domain.FullReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.provider.GetNodeReportCountsByDateAndStatus(gctx, nodeID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.provider.GetNodeReports(gctx, nodeID, s.recentSample)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to query node run history",
			"component", "history",
			"node_id", nodeID,
			"error", err,
		)
		return nil, err
	}

	buckets := mergeCounts(dates, counts)
	return &domain.NodeHistory{
		NodeID:  nodeID,
		History: buckets,
		Summary: summarize(buckets, recent),
	}, nil
}

// GetAggregatedHistory returns the fleet-wide bucket series. No summary:
// fleet-wide duration statistics are out of scope.
func (s *HistoryService) GetAggregatedHistory(ctx context.Context, days int) ([]domain.DayBucket, error) {
	dates := buildRange(days)
	start, end := dates[0], dates[len(dates)-1]

	counts, err := s.provider.GetReportCountsByDateAndStatus(ctx, start, end)
	if err != nil {
		s.logger.Error("failed to query aggregated run history",
			"component", "history",
			"error", err,
		)
		return nil, err
	}

	return mergeCounts(dates, counts), nil
}

// ListNodes passes through the provider's node inventory.
func (s *HistoryService) ListNodes(ctx context.Context) ([]domain.Node, error) {
	nodes, err := s.provider.GetNodes(ctx)
	if err != nil {
		s.logger.Error("failed to query node inventory",
			"component", "history",
			"error", err,
		)
		return nil, err
	}
	return nodes, nil
}

// buildRange produces the days+1 ascending calendar dates ending today.
// "Today" is the wall-clock date at call time, so output is
// time-dependent by design.
func buildRange(days int) []domain.CalendarDate {
	now := time.Now()
	dates := make([]domain.CalendarDate, days+1)
	for i := range dates {
		dates[i] = domain.DateOf(now.AddDate(0, 0, i-days))
	}
	return dates
}

// mergeCounts maps sparse status counts onto the date range, one
// zero-initialized bucket per day. Accumulation is additive: duplicate
// (date, status) triples sum rather than overwrite. Dates outside the
// range and unmodeled statuses are dropped. Output order follows the
// input range regardless of counts order.
func mergeCounts(dates []domain.CalendarDate, counts []domain.StatusCount) []domain.DayBucket {
	buckets := make([]domain.DayBucket, len(dates))
	byDate := make(map[domain.CalendarDate]*domain.DayBucket, len(dates))
	for i, d := range dates {
		buckets[i] = domain.DayBucket{Date: d}
		byDate[d] = &buckets[i]
	}

	for _, c := range counts {
		b, ok := byDate[c.Date]
		if !ok {
			continue
		}
		switch c.Status {
		case domain.RunStatusUnchanged:
			b.Unchanged += c.Count
			// The only writer of Success: it mirrors unchanged runs, not
			// unchanged+changed. Kept as observed upstream.
			b.Success += c.Count
		case domain.RunStatusChanged:
			b.Changed += c.Count
		case domain.RunStatusFailed:
			b.Failed += c.Count
		}
	}

	return buckets
}

// summarize derives rate and duration statistics from the bucketed counts
// and the bounded recent-report sample. Empty inputs produce defined
// zero/now defaults, never errors.
func summarize(buckets []domain.DayBucket, recent []domain.FullReport) domain.RunSummary {
	var total, succeeded int64
	for _, b := range buckets {
		total += b.Unchanged + b.Changed + b.Failed
		// Success rate counts changed runs as successful, unlike the
		// per-bucket Success field.
		succeeded += b.Unchanged + b.Changed
	}

	var successRate float64
	if total > 0 {
		successRate = round2(100 * float64(succeeded) / float64(total))
	}

	var avgDuration float64
	if len(recent) > 0 {
		var sum float64
		for _, r := range recent {
			sum += r.EndTime.Sub(r.StartTime).Seconds()
		}
		avgDuration = round2(sum / float64(len(recent)))
	}

	// The sample carries no order guarantee, so scan for the maximum.
	lastRun := time.Now().UTC()
	if len(recent) > 0 {
		lastRun = recent[0].ProducerTimestamp
		for _, r := range recent[1:] {
			if r.ProducerTimestamp.After(lastRun) {
				lastRun = r.ProducerTimestamp
			}
		}
	}

	return domain.RunSummary{
		TotalRuns:   total,
		SuccessRate: successRate,
		AvgDuration: avgDuration,
		LastRun:     lastRun.Format(time.RFC3339),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
