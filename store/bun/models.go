package bunstore

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"

	"github.com/xraph/formbridge/id"
	"github.com/xraph/formbridge/session"
	"github.com/xraph/formbridge/workflow"
)

type sessionModel struct {
	bun.BaseModel `bun:"table:formbridge_sessions"`

	ID        string    `bun:"id,pk"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

func sessionToModel(s *session.Session) *sessionModel {
	return &sessionModel{
		ID:        s.ID.String(),
		CreatedAt: s.CreatedAt.UTC(),
	}
}

func (m *sessionModel) toSession() (*session.Session, error) {
	sID, err := id.ParseSessionID(m.ID)
	if err != nil {
		return nil, err
	}
	return &session.Session{ID: sID, CreatedAt: m.CreatedAt}, nil
}

type workflowModel struct {
	bun.BaseModel `bun:"table:formbridge_workflows"`

	ID         string          `bun:"id,pk"`
	SessionID  string          `bun:"session_id,nullzero"`
	Goal       string          `bun:"goal,notnull"`
	Parameters json.RawMessage `bun:"parameters,type:jsonb"`
	Status     string          `bun:"status,notnull"`
	CreatedAt  time.Time       `bun:"created_at,notnull"`
}

func workflowToModel(wf *workflow.Workflow) (*workflowModel, error) {
	params := json.RawMessage("{}")
	if wf.Parameters != nil {
		data, err := json.Marshal(wf.Parameters)
		if err != nil {
			return nil, err
		}
		params = data
	}

	return &workflowModel{
		ID:         wf.ID.String(),
		SessionID:  wf.SessionID.String(),
		Goal:       wf.Goal,
		Parameters: params,
		Status:     string(wf.Status),
		CreatedAt:  wf.CreatedAt.UTC(),
	}, nil
}

func (m *workflowModel) toWorkflow() (*workflow.Workflow, error) {
	wID, err := id.ParseWorkflowID(m.ID)
	if err != nil {
		return nil, err
	}

	wf := &workflow.Workflow{
		ID:        wID,
		Goal:      m.Goal,
		Status:    workflow.Status(m.Status),
		CreatedAt: m.CreatedAt,
	}

	if m.SessionID != "" {
		sID, sErr := id.ParseSessionID(m.SessionID)
		if sErr != nil {
			return nil, sErr
		}
		wf.SessionID = sID
	}

	if len(m.Parameters) > 0 && string(m.Parameters) != "{}" {
		if err := json.Unmarshal(m.Parameters, &wf.Parameters); err != nil {
			return nil, err
		}
	}

	return wf, nil
}

type historyModel struct {
	bun.BaseModel `bun:"table:formbridge_workflow_history"`

	WorkflowID string          `bun:"workflow_id,pk"`
	Seq        int             `bun:"seq,pk"`
	Step       string          `bun:"step,notnull"`
	Success    bool            `bun:"success,notnull"`
	Detail     string          `bun:"detail,nullzero"`
	Data       json.RawMessage `bun:"data,type:jsonb,nullzero"`
	At         time.Time       `bun:"at,notnull"`
}

func historyToModel(workflowID string, entry workflow.HistoryEntry) *historyModel {
	return &historyModel{
		WorkflowID: workflowID,
		Seq:        entry.Seq,
		Step:       entry.Step,
		Success:    entry.Success,
		Detail:     entry.Detail,
		Data:       entry.Data,
		At:         entry.At.UTC(),
	}
}

func (m *historyModel) toEntry() workflow.HistoryEntry {
	return workflow.HistoryEntry{
		Seq:     m.Seq,
		Step:    m.Step,
		Success: m.Success,
		Detail:  m.Detail,
		Data:    m.Data,
		At:      m.At,
	}
}
