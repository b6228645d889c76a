package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/example42/pabawi-backend/internal/core/domain"
	"github.com/example42/pabawi-backend/internal/core/ports"
)

// MockReportProvider is a mock implementation of ports.ReportProvider
type MockReportProvider struct {
	mock.Mock
}

func NewMockReportProvider() *MockReportProvider {
	return &MockReportProvider{}
}

func (m *MockReportProvider) GetNodeReports(ctx context.Context, nodeID string, limit int) ([]domain.FullReport, error) {
	args := m.Called(ctx, nodeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FullReport), args.Error(1)
}

func (m *MockReportProvider) GetNodeReportCountsByDateAndStatus(ctx context.Context, nodeID string, start, end domain.CalendarDate) ([]domain.StatusCount, error) {
	args := m.Called(ctx, nodeID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusCount), args.Error(1)
}

func (m *MockReportProvider) GetReportCountsByDateAndStatus(ctx context.Context, start, end domain.CalendarDate) ([]domain.StatusCount, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusCount), args.Error(1)
}

func (m *MockReportProvider) GetNodes(ctx context.Context) ([]domain.Node, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Node), args.Error(1)
}

func (m *MockReportProvider) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockJournalRepository is a mock implementation of ports.JournalRepository
type MockJournalRepository struct {
	mock.Mock
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{}
}

func (m *MockJournalRepository) Create(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) List(ctx context.Context, filter domain.JournalFilter) ([]*domain.JournalEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) Stats(ctx context.Context, nodeID string) (*domain.JournalStats, error) {
	args := m.Called(ctx, nodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalStats), args.Error(1)
}

func (m *MockJournalRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockHistoryService is a mock implementation of ports.HistoryService
type MockHistoryService struct {
	mock.Mock
}

func NewMockHistoryService() *MockHistoryService {
	return &MockHistoryService{}
}

func (m *MockHistoryService) GetNodeHistory(ctx context.Context, nodeID string, days int) (*domain.NodeHistory, error) {
	args := m.Called(ctx, nodeID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NodeHistory), args.Error(1)
}

func (m *MockHistoryService) GetAggregatedHistory(ctx context.Context, days int) ([]domain.DayBucket, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DayBucket), args.Error(1)
}

func (m *MockHistoryService) ListNodes(ctx context.Context) ([]domain.Node, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Node), args.Error(1)
}

// MockJournalService is a mock implementation of ports.JournalService
type MockJournalService struct {
	mock.Mock
}

func NewMockJournalService() *MockJournalService {
	return &MockJournalService{}
}

func (m *MockJournalService) Record(ctx context.Context, params ports.RecordEntryParams) (*domain.JournalEntry, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) List(ctx context.Context, filter domain.JournalFilter) ([]*domain.JournalEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) Stats(ctx context.Context, nodeID string) (*domain.JournalStats, error) {
	args := m.Called(ctx, nodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalStats), args.Error(1)
}

func (m *MockJournalService) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}
