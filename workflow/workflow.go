package workflow

import (
	"encoding/json"
	"time"

	"github.com/xraph/formbridge/id"
)

// Status represents the lifecycle state of a workflow.
type Status string

const (
	// StatusCreated means the workflow exists but no step has run yet.
	StatusCreated Status = "created"
	// StatusInProgress means at least one step has been recorded.
	StatusInProgress Status = "in_progress"
	// StatusCompleted means the workflow finished successfully.
	StatusCompleted Status = "completed"
	// StatusFailed means the workflow failed terminally.
	StatusFailed Status = "failed"
)

// Valid reports whether s is one of the defined workflow statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusInProgress, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Workflow is one tracked multi-step business operation.
//
// SessionID is a weak reference: the workflow records which session it runs
// under but does not own it, and the session outliving or predating the
// workflow is fine. History is append-only; entries are never reordered or
// deleted.
type Workflow struct {
	ID         id.WorkflowID  `json:"id"`
	SessionID  id.SessionID   `json:"session_id,omitzero"`
	Goal       string         `json:"goal"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Status     Status         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	History    []HistoryEntry `json:"history,omitempty"`
}

// HistoryEntry is one recorded step of a workflow. Seq is assigned by the
// store and strictly increases in append order within one workflow.
type HistoryEntry struct {
	Seq     int             `json:"seq"`
	Step    string          `json:"step"`
	Success bool            `json:"success"`
	Detail  string          `json:"detail,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	At      time.Time       `json:"at"`
}
