// Package puppetdb implements the report provider port against the
// PuppetDB query API (/pdb/query/v4).
package puppetdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/example42/pabawi-backend/internal/core/domain"
	apperrors "github.com/example42/pabawi-backend/internal/core/errors"
	"github.com/example42/pabawi-backend/internal/core/ports"
)

// dateGroupFormat is PuppetDB's to_string pattern for day truncation.
const dateGroupFormat = "YYYY-MM-DD"

// Client queries PuppetDB over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

var _ ports.ReportProvider = (*Client)(nil)

// NewClient creates a PuppetDB client. The timeout bounds every query;
// the aggregation engine itself performs no I/O.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// reportRow is one row of a /reports query.
type reportRow struct {
	Certname          string `json:"certname"`
	Status            string `json:"status"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	ProducerTimestamp string `json:"producer_timestamp"`
}

// countRow is one row of a grouped count query. PuppetDB names the
// computed date column after the to_string function.
type countRow struct {
	Count  int64  `json:"count"`
	Status string `json:"status"`
	Date   string `json:"to_string"`
}

// nodeRow is one row of a /nodes query.
type nodeRow struct {
	Certname           string  `json:"certname"`
	ReportTimestamp    *string `json:"report_timestamp"`
	LatestReportStatus *string `json:"latest_report_status"`
}

// GetNodeReports returns the most recent limit reports for a node.
// PuppetDB is asked for descending producer_timestamp order, but callers
// must not rely on it; the port contract guarantees no ordering.
func (c *Client) GetNodeReports(ctx context.Context, nodeID string, limit int) ([]domain.FullReport, error) {
	query := []any{"=", "certname", nodeID}
	params := url.Values{}
	params.Set("order_by", `[{"field":"producer_timestamp","order":"desc"}]`)
	params.Set("limit", fmt.Sprintf("%d", limit))

	var rows []reportRow
	if err := c.query(ctx, "/pdb/query/v4/reports", query, params, &rows); err != nil {
		return nil, err
	}

	reports := make([]domain.FullReport, 0, len(rows))
	for _, row := range rows {
		report, err := row.toDomain()
		if err != nil {
			return nil, apperrors.NewUpstreamError(err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// GetNodeReportCountsByDateAndStatus returns (date, status, count)
// triples for one node. Days without runs produce no triple.
func (c *Client) GetNodeReportCountsByDateAndStatus(ctx context.Context, nodeID string, start, end domain.CalendarDate) ([]domain.StatusCount, error) {
	filter := []any{"and",
		[]any{"=", "certname", nodeID},
		[]any{">=", "producer_timestamp", dayStart(start)},
		[]any{"<=", "producer_timestamp", dayEnd(end)},
	}
	return c.queryCounts(ctx, filter)
}

// GetReportCountsByDateAndStatus is the fleet-wide count query.
func (c *Client) GetReportCountsByDateAndStatus(ctx context.Context, start, end domain.CalendarDate) ([]domain.StatusCount, error) {
	filter := []any{"and",
		[]any{">=", "producer_timestamp", dayStart(start)},
		[]any{"<=", "producer_timestamp", dayEnd(end)},
	}
	return c.queryCounts(ctx, filter)
}

func (c *Client) queryCounts(ctx context.Context, filter []any) ([]domain.StatusCount, error) {
	dateColumn := []any{"function", "to_string", "producer_timestamp", dateGroupFormat}
	query := []any{"extract",
		[]any{[]any{"function", "count"}, "status", dateColumn},
		filter,
		[]any{"group_by", "status", dateColumn},
	}

	var rows []countRow
	if err := c.query(ctx, "/pdb/query/v4/reports", query, nil, &rows); err != nil {
		return nil, err
	}

	counts := make([]domain.StatusCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, domain.StatusCount{
			Date:   domain.CalendarDate(row.Date),
			Status: domain.RunStatus(row.Status),
			Count:  row.Count,
		})
	}
	return counts, nil
}

// GetNodes returns the node inventory.
func (c *Client) GetNodes(ctx context.Context) ([]domain.Node, error) {
	var rows []nodeRow
	if err := c.query(ctx, "/pdb/query/v4/nodes", nil, nil, &rows); err != nil {
		return nil, err
	}

	nodes := make([]domain.Node, 0, len(rows))
	for _, row := range rows {
		node := domain.Node{ID: row.Certname}
		if row.LatestReportStatus != nil {
			node.LatestReportStatus = domain.RunStatus(*row.LatestReportStatus)
		}
		if row.ReportTimestamp != nil {
			ts, err := time.Parse(time.RFC3339, *row.ReportTimestamp)
			if err != nil {
				return nil, apperrors.NewUpstreamError(err)
			}
			node.ReportTimestamp = &ts
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Ping verifies connectivity for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pdb/meta/v1/version", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewUpstreamError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apperrors.NewUpstreamError(fmt.Errorf("version endpoint returned %d", resp.StatusCode))
	}
	return nil
}

// query issues a GET against a query endpoint and decodes the row set.
// A nil query fetches the endpoint unfiltered.
func (c *Client) query(ctx context.Context, path string, query any, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	if query != nil {
		encoded, err := json.Marshal(query)
		if err != nil {
			return err
		}
		params.Set("query", string(encoded))
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("puppetdb query",
		"component", "puppetdb",
		"path", path,
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewUpstreamError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return apperrors.NewUpstreamError(fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewUpstreamError(err)
	}
	return nil
}

func (r reportRow) toDomain() (domain.FullReport, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return domain.FullReport{}, fmt.Errorf("parsing start_time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return domain.FullReport{}, fmt.Errorf("parsing end_time: %w", err)
	}
	produced, err := time.Parse(time.RFC3339, r.ProducerTimestamp)
	if err != nil {
		return domain.FullReport{}, fmt.Errorf("parsing producer_timestamp: %w", err)
	}
	return domain.FullReport{
		NodeID:            r.Certname,
		Status:            domain.RunStatus(r.Status),
		StartTime:         start,
		EndTime:           end,
		ProducerTimestamp: produced,
	}, nil
}

func dayStart(d domain.CalendarDate) string {
	return d.String() + "T00:00:00Z"
}

func dayEnd(d domain.CalendarDate) string {
	return d.String() + "T23:59:59Z"
}
