package form

import (
	"context"
	"encoding/json"

	"github.com/xraph/formbridge/id"
)

// Fields is a field-name → value mapping for a single write request.
type Fields map[string]FieldValue

// FieldValue is one requested field assignment. Control optionally names a
// specific UI control when the field name alone is ambiguous on the page.
type FieldValue struct {
	Value   any    `json:"value"`
	Control string `json:"control,omitempty"`
}

// Value wraps a plain value into a FieldValue with no control override.
func Value(v any) FieldValue { return FieldValue{Value: v} }

// Names returns the field names of the mapping in unspecified order.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	return names
}

// ResolveRequest asks the resolver to open or locate a page.
type ResolveRequest struct {
	PageID string `json:"page_id"`
}

// ResolveResult carries the composite handle to the opened page.
type ResolveResult struct {
	PageContext id.PageContext `json:"page_context"`
}

// ActionRequest invokes a named action on an open page.
// SessionID is optional; some actions resolve it server-side.
type ActionRequest struct {
	PageID    string       `json:"page_id"`
	SessionID id.SessionID `json:"session_id,omitzero"`
	Action    Action       `json:"action"`
}

// ActionResult reports the outcome of an action invocation.
type ActionResult struct {
	Executed bool   `json:"executed"`
	Message  string `json:"message,omitempty"`
}

// WriteRequest asks the field writer to apply a set of field assignments to
// the open record. Exactly one of PageContext or PageID identifies the
// target; the create path passes PageID+SessionID, the update path passes
// the full PageContext.
type WriteRequest struct {
	PageContext id.PageContext `json:"page_context,omitzero"`
	PageID      string         `json:"page_id,omitempty"`
	SessionID   id.SessionID   `json:"session_id,omitzero"`
	Fields      Fields         `json:"fields"`

	// StopOnError aborts the write at the first failing field. Fields not
	// yet attempted then appear in neither UpdatedFields nor FailedFields.
	// When false every field is attempted and the two lists partition the
	// request exactly.
	StopOnError bool `json:"stop_on_error"`

	// ImmediateValidation asks the writer to validate each field as it is
	// set rather than deferring validation to save time.
	ImmediateValidation bool `json:"immediate_validation"`
}

// FieldFailure describes one field the writer could not set.
type FieldFailure struct {
	Field string `json:"field"`
	Value any    `json:"value,omitempty"`
	Error string `json:"error"`
}

// WriteResult aggregates the per-field outcomes of one write invocation.
type WriteResult struct {
	Success       bool            `json:"success"`
	PageContext   id.PageContext  `json:"page_context,omitzero"`
	Record        json.RawMessage `json:"record,omitempty"`
	Saved         bool            `json:"saved"`
	UpdatedFields []string        `json:"updated_fields,omitempty"`
	FailedFields  []FieldFailure  `json:"failed_fields,omitempty"`
	Message       string          `json:"message,omitempty"`
}

// Resolver opens or locates a page and returns its composite page context.
type Resolver interface {
	Resolve(ctx context.Context, req ResolveRequest) (*ResolveResult, error)
}

// ActionInvoker executes a named action (New/Edit/Save) on an open page.
type ActionInvoker interface {
	Invoke(ctx context.Context, req ActionRequest) (*ActionResult, error)
}

// FieldWriter applies a field mapping to an open record under one of the
// two documented failure policies.
type FieldWriter interface {
	Write(ctx context.Context, req WriteRequest) (*WriteResult, error)
}
