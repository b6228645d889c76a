package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/example42/pabawi-backend/internal/core/domain"
	apperrors "github.com/example42/pabawi-backend/internal/core/errors"
	"github.com/example42/pabawi-backend/internal/core/mocks"
	"github.com/example42/pabawi-backend/internal/core/ports"
	"github.com/example42/pabawi-backend/internal/core/services"
)

func TestJournalService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := mocks.NewMockJournalRepository()
		logger, _ := newTestLogger()
		svc := services.NewJournalService(repo, logger)

		repo.On("Create", ctx, mock.AnythingOfType("*domain.JournalEntry")).
			Return(&domain.JournalEntry{NodeID: "web01", Category: domain.CategoryCommand, Action: "uptime", Status: domain.JournalStatusSuccess}, nil)

		entry, err := svc.Record(ctx, ports.RecordEntryParams{
			NodeID:   "web01",
			Category: domain.CategoryCommand,
			Action:   "uptime",
			Status:   domain.JournalStatusSuccess,
		})

		require.NoError(t, err)
		assert.Equal(t, "web01", entry.NodeID)
		repo.AssertExpectations(t)
	})

	t.Run("validation error skips persistence", func(t *testing.T) {
		repo := mocks.NewMockJournalRepository()
		logger, _ := newTestLogger()
		svc := services.NewJournalService(repo, logger)

		_, err := svc.Record(ctx, ports.RecordEntryParams{
			NodeID:   "",
			Category: domain.CategoryCommand,
			Action:   "uptime",
		})

		assert.ErrorIs(t, err, domain.ErrJournalNodeRequired)
		repo.AssertNotCalled(t, "Create")
	})
}

func TestJournalService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("applies default and maximum page size", func(t *testing.T) {
		repo := mocks.NewMockJournalRepository()
		logger, _ := newTestLogger()
		svc := services.NewJournalService(repo, logger)

		repo.On("List", ctx, mock.MatchedBy(func(f domain.JournalFilter) bool {
			return f.Limit == 50 && f.Offset == 0
		})).Return([]*domain.JournalEntry{}, nil).Once()

		_, err := svc.List(ctx, domain.JournalFilter{})
		require.NoError(t, err)

		repo.On("List", ctx, mock.MatchedBy(func(f domain.JournalFilter) bool {
			return f.Limit == 500
		})).Return([]*domain.JournalEntry{}, nil).Once()

		_, err = svc.List(ctx, domain.JournalFilter{Limit: 10000})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestJournalService_Prune(t *testing.T) {
	ctx := context.Background()

	t.Run("removes entries older than retention", func(t *testing.T) {
		repo := mocks.NewMockJournalRepository()
		logger, _ := newTestLogger()
		svc := services.NewJournalService(repo, logger)

		retention := 30 * 24 * time.Hour
		repo.On("DeleteOlderThan", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
			return time.Since(cutoff) >= retention && time.Since(cutoff) < retention+time.Minute
		})).Return(int64(12), nil)

		removed, err := svc.Prune(ctx, retention)
		require.NoError(t, err)
		assert.Equal(t, int64(12), removed)
	})

	t.Run("rejects non-positive retention", func(t *testing.T) {
		repo := mocks.NewMockJournalRepository()
		logger, _ := newTestLogger()
		svc := services.NewJournalService(repo, logger)

		_, err := svc.Prune(ctx, 0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidDuration)
		repo.AssertNotCalled(t, "DeleteOlderThan")
	})
}
