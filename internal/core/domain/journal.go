package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Pre-defined errors for journal validation.
var (
	ErrJournalNodeRequired   = errors.New("node id is required")
	ErrJournalActionRequired = errors.New("action is required")
	ErrInvalidCategory       = errors.New("invalid journal category")
	ErrInvalidJournalStatus  = errors.New("invalid journal status")
)

// JournalCategory classifies what kind of activity an entry records.
type JournalCategory string

const (
	CategoryCommand JournalCategory = "command"
	CategoryPackage JournalCategory = "package"
	CategoryTask    JournalCategory = "task"
	CategoryService JournalCategory = "service"
	CategoryFile    JournalCategory = "file"
)

// JournalStatus is the outcome of a journaled activity.
type JournalStatus string

const (
	JournalStatusSuccess JournalStatus = "success"
	JournalStatusFailure JournalStatus = "failure"
	JournalStatusPending JournalStatus = "pending"
)

// JournalEntry is one append-only per-node activity record. The journal
// has no data dependency on the run-history aggregation engine.
type JournalEntry struct {
	ID        uuid.UUID       `json:"id"`
	NodeID    string          `json:"nodeId"`
	Category  JournalCategory `json:"category"`
	Action    string          `json:"action"`
	Status    JournalStatus   `json:"status"`
	Detail    string          `json:"detail,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewJournalEntry is a factory function to create a valid entry.
func NewJournalEntry(nodeID string, category JournalCategory, action string, status JournalStatus, detail string) (*JournalEntry, error) {
	if nodeID == "" {
		return nil, ErrJournalNodeRequired
	}
	if action == "" {
		return nil, ErrJournalActionRequired
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	if status == "" {
		status = JournalStatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidJournalStatus
	}

	return &JournalEntry{
		ID:        uuid.New(),
		NodeID:    nodeID,
		Category:  category,
		Action:    action,
		Status:    status,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Valid reports whether the category is one of the modeled categories.
func (c JournalCategory) Valid() bool {
	switch c {
	case CategoryCommand, CategoryPackage, CategoryTask, CategoryService, CategoryFile:
		return true
	}
	return false
}

// Valid reports whether the status is one of the modeled statuses.
func (s JournalStatus) Valid() bool {
	switch s {
	case JournalStatusSuccess, JournalStatusFailure, JournalStatusPending:
		return true
	}
	return false
}

// JournalFilter narrows a journal listing. Zero values mean "no filter".
type JournalFilter struct {
	NodeID   string
	Category JournalCategory
	Status   JournalStatus
	Since    *time.Time
	Until    *time.Time
	Limit    int
	Offset   int
}

// JournalStats summarizes journal activity, optionally scoped to a node.
type JournalStats struct {
	Total         int64                     `json:"total"`
	ByCategory    map[JournalCategory]int64 `json:"byCategory"`
	ByStatus      map[JournalStatus]int64   `json:"byStatus"`
	FirstActivity *time.Time                `json:"firstActivity,omitempty"`
	LastActivity  *time.Time                `json:"lastActivity,omitempty"`
}
