package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xraph/formbridge"
	"github.com/xraph/formbridge/id"
	"github.com/xraph/formbridge/session"
)

// SessionResolver resolves session IDs during workflow creation.
// *session.Registry satisfies it; the interface keeps the registry testable
// without standing up a full session subsystem.
type SessionResolver interface {
	Get(ctx context.Context, sessionID id.SessionID) (*session.Session, error)
}

// CreateParams are the inputs for creating a workflow context.
type CreateParams struct {
	// SessionID links the workflow to an existing session. When set it must
	// resolve; the registry never creates sessions itself — the caller does
	// that first when no session is supplied.
	SessionID id.SessionID

	// Goal is the free-text name of the business operation. Required.
	Goal string

	// Parameters is an opaque key/value mapping stored with the workflow.
	Parameters map[string]any
}

// Registry is the workflow state registry. It validates and creates
// workflow contexts, resolves them, and appends step history.
//
// One Registry instance per process is the intended shape; it is safe for
// concurrent use as long as its Store is.
type Registry struct {
	store    Store
	sessions SessionResolver
}

// NewRegistry creates a workflow registry backed by the given store.
// sessions validates supplied session IDs on Create.
func NewRegistry(store Store, sessions SessionResolver) *Registry {
	return &Registry{store: store, sessions: sessions}
}

// Create validates params and persists a new workflow context with
// StatusCreated and an empty history.
//
// An empty goal or an unresolvable session ID fails before anything is
// stored.
func (r *Registry) Create(ctx context.Context, params CreateParams) (*Workflow, error) {
	if strings.TrimSpace(params.Goal) == "" {
		return nil, formbridge.ErrEmptyGoal
	}

	if !params.SessionID.IsNil() {
		if _, err := r.sessions.Get(ctx, params.SessionID); err != nil {
			return nil, fmt.Errorf("workflow create: session %s: %w", params.SessionID, err)
		}
	}

	wf := &Workflow{
		ID:         id.NewWorkflowID(),
		SessionID:  params.SessionID,
		Goal:       params.Goal,
		Parameters: params.Parameters,
		Status:     StatusCreated,
		CreatedAt:  time.Now().UTC(),
	}

	if err := r.store.CreateWorkflow(ctx, wf); err != nil {
		return nil, fmt.Errorf("create workflow %q: %w", params.Goal, err)
	}

	return wf, nil
}

// Get resolves a workflow by ID, history included.
func (r *Registry) Get(ctx context.Context, workflowID id.WorkflowID) (*Workflow, error) {
	return r.store.GetWorkflow(ctx, workflowID)
}

// AppendHistory appends one step record to the workflow's history and
// returns the stored entry with its sequence number assigned. The append is
// atomic per workflow; order is preserved.
func (r *Registry) AppendHistory(ctx context.Context, workflowID id.WorkflowID, entry HistoryEntry) (*HistoryEntry, error) {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	return r.store.AppendHistory(ctx, workflowID, entry)
}

// SetStatus moves the workflow to the given status.
func (r *Registry) SetStatus(ctx context.Context, workflowID id.WorkflowID, status Status) error {
	if !status.Valid() {
		return formbridge.ErrInvalidStatus
	}
	return r.store.UpdateWorkflowStatus(ctx, workflowID, status)
}

// List returns workflows matching the given options.
func (r *Registry) List(ctx context.Context, opts ListOpts) ([]*Workflow, error) {
	return r.store.ListWorkflows(ctx, opts)
}

// Store returns the underlying workflow store.
func (r *Registry) Store() Store { return r.store }
