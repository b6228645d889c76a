package domain

import "time"

// CalendarDate is a date truncated to day granularity in YYYY-MM-DD form.
// It never carries a time-of-day component.
type CalendarDate string

// calendarDateLayout is the canonical wire format for CalendarDate.
const calendarDateLayout = "2006-01-02"

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) CalendarDate {
	return CalendarDate(t.Format(calendarDateLayout))
}

func (d CalendarDate) String() string {
	return string(d)
}

// RunStatus is the outcome of a single run as reported by the upstream
// report provider. Statuses outside this set (e.g. PuppetDB "skipped")
// are unmodeled input and are never folded into one of these three.
type RunStatus string

const (
	RunStatusUnchanged RunStatus = "unchanged"
	RunStatusChanged   RunStatus = "changed"
	RunStatusFailed    RunStatus = "failed"
)

// StatusCount is a pre-aggregated (date, status, count) triple from the
// report provider. Multiple triples may share a date; the provider makes
// no guarantee of at most one triple per (date, status) pair.
type StatusCount struct {
	Date   CalendarDate
	Status RunStatus
	Count  int64
}

// DayBucket aggregates run counts for one calendar day. Success mirrors
// Unchanged only, not Unchanged+Changed; the headline success rate uses a
// different definition (see RunSummary). Both are kept as observed because
// unifying them would change dashboard numbers.
type DayBucket struct {
	Date      CalendarDate `json:"date"`
	Success   int64        `json:"success"`
	Failed    int64        `json:"failed"`
	Changed   int64        `json:"changed"`
	Unchanged int64        `json:"unchanged"`
}

// FullReport is one complete run record. Only a small bounded sample of
// the most recent reports is ever fetched; they feed the duration and
// last-activity signals that count data cannot provide.
type FullReport struct {
	NodeID            string
	Status            RunStatus
	StartTime         time.Time
	EndTime           time.Time
	ProducerTimestamp time.Time
}

// RunSummary holds derived statistics over a node's bucketed history and
// recent-report sample. SuccessRate counts unchanged+changed runs as
// successful. LastRun is always a valid RFC3339 timestamp.
type RunSummary struct {
	TotalRuns   int64   `json:"totalRuns"`
	SuccessRate float64 `json:"successRate"`
	AvgDuration float64 `json:"avgDuration"`
	LastRun     string  `json:"lastRun"`
}

// NodeHistory is the per-node query result: a gapless ascending bucket
// series plus summary statistics. Recomputed on every call, never cached.
type NodeHistory struct {
	NodeID  string      `json:"nodeId"`
	History []DayBucket `json:"history"`
	Summary RunSummary  `json:"summary"`
}

// Node is one managed node as known to the report provider.
type Node struct {
	ID                 string     `json:"id"`
	LatestReportStatus RunStatus  `json:"latestReportStatus,omitempty"`
	ReportTimestamp    *time.Time `json:"reportTimestamp,omitempty"`
}
