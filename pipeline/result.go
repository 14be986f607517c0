package pipeline

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/xraph/formbridge/form"
	"github.com/xraph/formbridge/id"
)

// CreateResult is the aggregated outcome of one create-record call.
type CreateResult struct {
	Success      bool                `json:"success"`
	PageContext  id.PageContext      `json:"page_context"`
	PageID       string              `json:"page_id"`
	Record       json.RawMessage     `json:"record,omitempty"`
	Saved        bool                `json:"saved"`
	SetFields    []string            `json:"set_fields"`
	FailedFields []form.FieldFailure `json:"failed_fields,omitempty"`
	Message      string              `json:"message"`
}

// UpdateResult is the aggregated outcome of one update-record call.
type UpdateResult struct {
	Success       bool                `json:"success"`
	PageContext   id.PageContext      `json:"page_context"`
	PageID        string              `json:"page_id"`
	Record        json.RawMessage     `json:"record,omitempty"`
	Saved         bool                `json:"saved"`
	UpdatedFields []string            `json:"updated_fields"`
	FailedFields  []form.FieldFailure `json:"failed_fields,omitempty"`
	Message       string              `json:"message"`
}

// StepError is the orchestration-level error for unexpected runtime faults
// inside a pipeline. Collaborator errors are never wrapped in a StepError —
// they propagate unchanged — so a StepError always means the pipeline
// itself, not a remote step, misbehaved.
type StepError struct {
	// Op names the operation ("create_record", "update_record").
	Op string
	// PageID is the page the operation targeted.
	PageID string
	// Fields are the requested field names, for context.
	Fields []string
	// Err is the underlying cause.
	Err error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("formbridge: %s on page %s (fields %v): %v", e.Op, e.PageID, e.Fields, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// sortedNames returns the field names of f in deterministic order.
func sortedNames(f form.Fields) []string {
	names := f.Names()
	sort.Strings(names)
	return names
}
