package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xraph/formbridge"
	"github.com/xraph/formbridge/id"
	mw "github.com/xraph/formbridge/middleware"
	"github.com/xraph/formbridge/workflow"
)

// StartWorkflowRequest are the inputs for the start-workflow operation.
type StartWorkflowRequest struct {
	// Goal is the free-text name of the business operation. Required.
	Goal string

	// Parameters is an opaque key/value mapping stored with the workflow.
	Parameters map[string]any

	// SessionID attaches the workflow to an existing session. When nil/zero
	// a new session is created as a side effect of this call.
	SessionID id.SessionID
}

// StartWorkflowResult describes the created workflow context.
type StartWorkflowResult struct {
	WorkflowID id.WorkflowID   `json:"workflow_id"`
	SessionID  id.SessionID    `json:"session_id"`
	Goal       string          `json:"goal"`
	Status     workflow.Status `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	Message    string          `json:"message"`
}

// StartWorkflow creates a workflow context, attaching it to the supplied
// session or to a freshly created one.
//
// A supplied but unresolvable session ID fails with a validation error and
// creates nothing. When no session is supplied, exactly one new session is
// created and its ID is returned alongside the workflow.
func (eng *Engine) StartWorkflow(ctx context.Context, req StartWorkflowRequest) (*StartWorkflowResult, error) {
	call := &mw.Call{Op: "start_workflow"}

	var res *StartWorkflowResult
	err := eng.chain(ctx, call, func(ctx context.Context) error {
		var execErr error
		res, execErr = eng.startWorkflow(ctx, req)
		return execErr
	})
	return res, err
}

func (eng *Engine) startWorkflow(ctx context.Context, req StartWorkflowRequest) (*StartWorkflowResult, error) {
	if strings.TrimSpace(req.Goal) == "" {
		return nil, formbridge.ErrEmptyGoal
	}

	sessionID := req.SessionID

	// Validate a supplied session before creating anything; only create a
	// fresh session once the request is known to be otherwise viable.
	if !sessionID.IsNil() {
		if _, err := eng.sessions.Get(ctx, sessionID); err != nil {
			return nil, fmt.Errorf("start_workflow: session %s: %w", sessionID, err)
		}
	} else {
		s, err := eng.sessions.Create(ctx)
		if err != nil {
			return nil, fmt.Errorf("start_workflow: %w", err)
		}
		sessionID = s.ID
	}

	wf, err := eng.flows.Create(ctx, workflow.CreateParams{
		SessionID:  sessionID,
		Goal:       req.Goal,
		Parameters: req.Parameters,
	})
	if err != nil {
		return nil, err
	}

	return &StartWorkflowResult{
		WorkflowID: wf.ID,
		SessionID:  sessionID,
		Goal:       wf.Goal,
		Status:     wf.Status,
		CreatedAt:  wf.CreatedAt,
		Message:    fmt.Sprintf("workflow %q started on session %s", wf.Goal, sessionID),
	}, nil
}
