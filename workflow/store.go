package workflow

import (
	"context"

	"github.com/xraph/formbridge/id"
)

// ListOpts controls pagination for workflow list queries.
type ListOpts struct {
	// Limit is the maximum number of workflows to return. Zero means no limit.
	Limit int
	// Offset is the number of workflows to skip.
	Offset int
	// Status filters by workflow status. Empty means all statuses.
	Status Status
}

// Store defines the persistence contract for workflows.
type Store interface {
	// CreateWorkflow persists a new workflow context.
	CreateWorkflow(ctx context.Context, wf *Workflow) error

	// GetWorkflow retrieves a workflow by ID, including its full history in
	// append order. Returns formbridge.ErrWorkflowNotFound for unknown IDs.
	GetWorkflow(ctx context.Context, workflowID id.WorkflowID) (*Workflow, error)

	// UpdateWorkflowStatus sets the status of an existing workflow.
	UpdateWorkflowStatus(ctx context.Context, workflowID id.WorkflowID, status Status) error

	// AppendHistory atomically appends one entry to a workflow's history,
	// assigning the next sequence number. Appends to the same workflow are
	// serialized; distinct workflows may be appended to concurrently.
	AppendHistory(ctx context.Context, workflowID id.WorkflowID, entry HistoryEntry) (*HistoryEntry, error)

	// ListWorkflows returns workflows matching the given options.
	ListWorkflows(ctx context.Context, opts ListOpts) ([]*Workflow, error)
}
