package http_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/example42/pabawi-backend/internal/adapters/primary/http"
	"github.com/example42/pabawi-backend/internal/core/domain"
	apperrors "github.com/example42/pabawi-backend/internal/core/errors"
	"github.com/example42/pabawi-backend/internal/core/mocks"
)

func newHistoryRouter(svc *mocks.MockHistoryService) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := httpAdapter.NewHistoryHandler(svc, httpAdapter.NewErrorHandler(logger), logger, 7)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestHistoryHandler_HandleNodeHistory(t *testing.T) {
	t.Run("returns node history", func(t *testing.T) {
		svc := mocks.NewMockHistoryService()
		svc.On("GetNodeHistory", mock.Anything, "web01.example.com", 3).
			Return(&domain.NodeHistory{
				NodeID: "web01.example.com",
				History: []domain.DayBucket{
					{Date: "2024-05-01", Success: 2, Unchanged: 2},
				},
				Summary: domain.RunSummary{TotalRuns: 2, SuccessRate: 100, LastRun: time.Now().UTC().Format(time.RFC3339)},
			}, nil)

		req := httptest.NewRequest(http.MethodGet, "/nodes/web01.example.com/history?days=3", nil)
		rec := httptest.NewRecorder()
		newHistoryRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data domain.NodeHistory `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "web01.example.com", body.Data.NodeID)
		assert.Len(t, body.Data.History, 1)
		svc.AssertExpectations(t)
	})

	t.Run("defaults days when omitted", func(t *testing.T) {
		svc := mocks.NewMockHistoryService()
		svc.On("GetNodeHistory", mock.Anything, "web01", 7).
			Return(&domain.NodeHistory{NodeID: "web01"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/nodes/web01/history", nil)
		rec := httptest.NewRecorder()
		newHistoryRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("rejects negative days before the engine runs", func(t *testing.T) {
		svc := mocks.NewMockHistoryService()

		req := httptest.NewRequest(http.MethodGet, "/nodes/web01/history?days=-1", nil)
		rec := httptest.NewRecorder()
		newHistoryRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "GetNodeHistory")
	})

	t.Run("rejects malformed days", func(t *testing.T) {
		svc := mocks.NewMockHistoryService()

		req := httptest.NewRequest(http.MethodGet, "/nodes/web01/history?days=week", nil)
		rec := httptest.NewRecorder()
		newHistoryRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "GetNodeHistory")
	})

	t.Run("maps upstream failure to 502", func(t *testing.T) {
		svc := mocks.NewMockHistoryService()
		svc.On("GetNodeHistory", mock.Anything, "web01", 7).
			Return(nil, apperrors.NewUpstreamError(errors.New("puppetdb unreachable")))

		req := httptest.NewRequest(http.MethodGet, "/nodes/web01/history", nil)
		rec := httptest.NewRecorder()
		newHistoryRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestHistoryHandler_HandleAggregatedHistory(t *testing.T) {
	t.Run("returns fleet buckets without summary", func(t *testing.T) {
		svc := mocks.NewMockHistoryService()
		svc.On("GetAggregatedHistory", mock.Anything, 0).
			Return([]domain.DayBucket{{Date: "2024-05-01", Failed: 1}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/history?days=0", nil)
		rec := httptest.NewRecorder()
		newHistoryRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data []domain.DayBucket `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, int64(1), body.Data[0].Failed)
	})
}

func TestHistoryHandler_HandleListNodes(t *testing.T) {
	svc := mocks.NewMockHistoryService()
	svc.On("ListNodes", mock.Anything).
		Return([]domain.Node{{ID: "web01"}, {ID: "db01"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/nodes", nil)
	rec := httptest.NewRecorder()
	newHistoryRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data  []domain.Node `json:"data"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
}
