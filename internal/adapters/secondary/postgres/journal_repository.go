package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example42/pabawi-backend/internal/core/domain"
	"github.com/example42/pabawi-backend/internal/core/ports"
)

// JournalRepository is the secondary adapter for journal persistence.
type JournalRepository struct {
	pool *pgxpool.Pool
}

var _ ports.JournalRepository = (*JournalRepository)(nil)

// NewJournalRepository creates a new journal repository.
func NewJournalRepository(pool *pgxpool.Pool) ports.JournalRepository {
	return &JournalRepository{pool: pool}
}

// Create persists a new journal entry.
func (r *JournalRepository) Create(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error) {
	const query = `
INSERT INTO journal_entries (id, node_id, category, action, status, detail, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, node_id, category, action, status, detail, created_at
`

	row := r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.NodeID,
		string(entry.Category),
		entry.Action,
		string(entry.Status),
		entry.Detail,
		entry.CreatedAt,
	)

	return scanEntry(row)
}

// List retrieves entries matching the filter, newest first.
func (r *JournalRepository) List(ctx context.Context, filter domain.JournalFilter) ([]*domain.JournalEntry, error) {
	var (
		conditions []string
		args       []any
	)

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, clause+"$"+strconv.Itoa(len(args)))
	}

	if filter.NodeID != "" {
		addCondition("node_id = ", filter.NodeID)
	}
	if filter.Category != "" {
		addCondition("category = ", string(filter.Category))
	}
	if filter.Status != "" {
		addCondition("status = ", string(filter.Status))
	}
	if filter.Since != nil {
		addCondition("created_at >= ", *filter.Since)
	}
	if filter.Until != nil {
		addCondition("created_at <= ", *filter.Until)
	}

	query := "SELECT id, node_id, category, action, status, detail, created_at FROM journal_entries"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	args = append(args, filter.Limit)
	query += " LIMIT $" + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.JournalEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Stats summarizes journal activity, optionally scoped to one node.
// An empty nodeID covers the whole journal.
func (r *JournalRepository) Stats(ctx context.Context, nodeID string) (*domain.JournalStats, error) {
	const query = `
SELECT category, status, COUNT(*), MIN(created_at), MAX(created_at)
FROM journal_entries
WHERE ($1 = '' OR node_id = $1)
GROUP BY category, status
`

	rows, err := r.pool.Query(ctx, query, nodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &domain.JournalStats{
		ByCategory: make(map[domain.JournalCategory]int64),
		ByStatus:   make(map[domain.JournalStatus]int64),
	}

	for rows.Next() {
		var (
			category string
			status   string
			count    int64
			first    time.Time
			last     time.Time
		)
		if err := rows.Scan(&category, &status, &count, &first, &last); err != nil {
			return nil, err
		}

		stats.Total += count
		stats.ByCategory[domain.JournalCategory(category)] += count
		stats.ByStatus[domain.JournalStatus(status)] += count

		if stats.FirstActivity == nil || first.Before(*stats.FirstActivity) {
			stats.FirstActivity = &first
		}
		if stats.LastActivity == nil || last.After(*stats.LastActivity) {
			stats.LastActivity = &last
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// DeleteOlderThan removes entries created before the cutoff and returns
// how many rows were removed.
func (r *JournalRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM journal_entries WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.JournalEntry, error) {
	var (
		entry    domain.JournalEntry
		category string
		status   string
	)
	if err := row.Scan(&entry.ID, &entry.NodeID, &category, &entry.Action, &status, &entry.Detail, &entry.CreatedAt); err != nil {
		return nil, err
	}
	entry.Category = domain.JournalCategory(category)
	entry.Status = domain.JournalStatus(status)
	return &entry, nil
}
