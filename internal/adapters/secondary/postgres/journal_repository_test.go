package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example42/pabawi-backend/internal/core/domain"
)

func mustEntry(t *testing.T, nodeID string, category domain.JournalCategory, action string, status domain.JournalStatus) *domain.JournalEntry {
	t.Helper()
	entry, err := domain.NewJournalEntry(nodeID, category, action, status, "")
	require.NoError(t, err)
	return entry
}

func TestJournalRepository_CreateAndList(t *testing.T) {
	truncateJournal(t)
	ctx := context.Background()
	repo := NewJournalRepository(testPool)

	created, err := repo.Create(ctx, mustEntry(t, "web01", domain.CategoryCommand, "puppet agent -t", domain.JournalStatusSuccess))
	require.NoError(t, err)
	assert.Equal(t, "web01", created.NodeID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = repo.Create(ctx, mustEntry(t, "db01", domain.CategoryPackage, "install postgresql", domain.JournalStatusFailure))
	require.NoError(t, err)

	t.Run("unfiltered returns everything newest first", func(t *testing.T) {
		entries, err := repo.List(ctx, domain.JournalFilter{Limit: 10})
		require.NoError(t, err)
		require.Len(t, entries, 2)
	})

	t.Run("filters by node", func(t *testing.T) {
		entries, err := repo.List(ctx, domain.JournalFilter{NodeID: "web01", Limit: 10})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "puppet agent -t", entries[0].Action)
	})

	t.Run("filters by category and status", func(t *testing.T) {
		entries, err := repo.List(ctx, domain.JournalFilter{
			Category: domain.CategoryPackage,
			Status:   domain.JournalStatusFailure,
			Limit:    10,
		})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "db01", entries[0].NodeID)
	})

	t.Run("respects limit and offset", func(t *testing.T) {
		page1, err := repo.List(ctx, domain.JournalFilter{Limit: 1})
		require.NoError(t, err)
		page2, err := repo.List(ctx, domain.JournalFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page1, 1)
		require.Len(t, page2, 1)
		assert.NotEqual(t, page1[0].ID, page2[0].ID)
	})
}

func TestJournalRepository_ListTimeWindow(t *testing.T) {
	truncateJournal(t)
	ctx := context.Background()
	repo := NewJournalRepository(testPool)

	old := mustEntry(t, "web01", domain.CategoryTask, "facts gather", domain.JournalStatusSuccess)
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	_, err := repo.Create(ctx, old)
	require.NoError(t, err)

	_, err = repo.Create(ctx, mustEntry(t, "web01", domain.CategoryTask, "facts gather", domain.JournalStatusSuccess))
	require.NoError(t, err)

	since := time.Now().UTC().Add(-time.Hour)
	entries, err := repo.List(ctx, domain.JournalFilter{Since: &since, Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	until := time.Now().UTC().Add(-24 * time.Hour)
	entries, err = repo.List(ctx, domain.JournalFilter{Until: &until, Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestJournalRepository_Stats(t *testing.T) {
	truncateJournal(t)
	ctx := context.Background()
	repo := NewJournalRepository(testPool)

	_, err := repo.Create(ctx, mustEntry(t, "web01", domain.CategoryCommand, "uptime", domain.JournalStatusSuccess))
	require.NoError(t, err)
	_, err = repo.Create(ctx, mustEntry(t, "web01", domain.CategoryCommand, "df -h", domain.JournalStatusFailure))
	require.NoError(t, err)
	_, err = repo.Create(ctx, mustEntry(t, "db01", domain.CategoryService, "restart postgresql", domain.JournalStatusSuccess))
	require.NoError(t, err)

	t.Run("fleet-wide", func(t *testing.T) {
		stats, err := repo.Stats(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.Total)
		assert.Equal(t, int64(2), stats.ByCategory[domain.CategoryCommand])
		assert.Equal(t, int64(2), stats.ByStatus[domain.JournalStatusSuccess])
		require.NotNil(t, stats.FirstActivity)
		require.NotNil(t, stats.LastActivity)
		assert.False(t, stats.LastActivity.Before(*stats.FirstActivity))
	})

	t.Run("scoped to node", func(t *testing.T) {
		stats, err := repo.Stats(ctx, "db01")
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Total)
		assert.Equal(t, int64(1), stats.ByCategory[domain.CategoryService])
	})

	t.Run("empty journal", func(t *testing.T) {
		stats, err := repo.Stats(ctx, "unknown-node")
		require.NoError(t, err)
		assert.Zero(t, stats.Total)
		assert.Nil(t, stats.FirstActivity)
	})
}

func TestJournalRepository_DeleteOlderThan(t *testing.T) {
	truncateJournal(t)
	ctx := context.Background()
	repo := NewJournalRepository(testPool)

	old := mustEntry(t, "web01", domain.CategoryFile, "deploy config", domain.JournalStatusSuccess)
	old.CreatedAt = time.Now().UTC().Add(-30 * 24 * time.Hour)
	_, err := repo.Create(ctx, old)
	require.NoError(t, err)

	_, err = repo.Create(ctx, mustEntry(t, "web01", domain.CategoryFile, "deploy config", domain.JournalStatusSuccess))
	require.NoError(t, err)

	removed, err := repo.DeleteOlderThan(ctx, time.Now().UTC().Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	remaining, err := repo.List(ctx, domain.JournalFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
}
