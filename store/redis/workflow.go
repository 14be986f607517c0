package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/xraph/formbridge"
	"github.com/xraph/formbridge/id"
	"github.com/xraph/formbridge/workflow"
)

// CreateWorkflow persists a new workflow context.
func (s *Store) CreateWorkflow(ctx context.Context, wf *workflow.Workflow) error {
	wID := wf.ID.String()
	key := workflowKey(wID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("formbridge/redis: create workflow exists: %w", err)
	}
	if exists > 0 {
		return formbridge.ErrWorkflowAlreadyExists
	}

	m, err := workflowToMap(wf)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, m)
	pipe.SAdd(ctx, workflowIDsKey, wID)
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("formbridge/redis: create workflow: %w", err)
	}
	return nil
}

// GetWorkflow retrieves a workflow by ID, history included.
func (s *Store) GetWorkflow(ctx context.Context, workflowID id.WorkflowID) (*workflow.Workflow, error) {
	wID := workflowID.String()

	vals, err := s.client.HGetAll(ctx, workflowKey(wID)).Result()
	if err != nil {
		return nil, fmt.Errorf("formbridge/redis: get workflow: %w", err)
	}
	if len(vals) == 0 {
		return nil, formbridge.ErrWorkflowNotFound
	}

	wf, err := mapToWorkflow(vals)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.LRange(ctx, historyKey(wID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("formbridge/redis: get workflow history: %w", err)
	}
	for i, item := range raw {
		var entry workflow.HistoryEntry
		if unmarshalErr := json.Unmarshal([]byte(item), &entry); unmarshalErr != nil {
			return nil, fmt.Errorf("formbridge/redis: decode history entry: %w", unmarshalErr)
		}
		// Sequence is the list position; RPUSH fixed it at append time.
		entry.Seq = i + 1
		wf.History = append(wf.History, entry)
	}

	return wf, nil
}

// UpdateWorkflowStatus sets the status of an existing workflow.
func (s *Store) UpdateWorkflowStatus(ctx context.Context, workflowID id.WorkflowID, status workflow.Status) error {
	key := workflowKey(workflowID.String())

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("formbridge/redis: update workflow exists: %w", err)
	}
	if exists == 0 {
		return formbridge.ErrWorkflowNotFound
	}

	if _, err = s.client.HSet(ctx, key, "status", string(status)).Result(); err != nil {
		return fmt.Errorf("formbridge/redis: update workflow status: %w", err)
	}
	return nil
}

// AppendHistory appends one entry to the workflow's history list. RPUSH is
// atomic per key, which serializes appends to the same workflow and
// preserves order; the returned list length is the entry's sequence number.
func (s *Store) AppendHistory(ctx context.Context, workflowID id.WorkflowID, entry workflow.HistoryEntry) (*workflow.HistoryEntry, error) {
	wID := workflowID.String()

	exists, err := s.client.Exists(ctx, workflowKey(wID)).Result()
	if err != nil {
		return nil, fmt.Errorf("formbridge/redis: append history exists: %w", err)
	}
	if exists == 0 {
		return nil, formbridge.ErrWorkflowNotFound
	}

	entry.Seq = 0 // stored without seq; position defines it
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("formbridge/redis: encode history entry: %w", err)
	}

	length, err := s.client.RPush(ctx, historyKey(wID), data).Result()
	if err != nil {
		return nil, fmt.Errorf("formbridge/redis: append history: %w", err)
	}

	entry.Seq = int(length)
	return &entry, nil
}

// ListWorkflows returns workflows matching the given options, ordered by
// creation time. History is not populated; use GetWorkflow for the full
// context.
func (s *Store) ListWorkflows(ctx context.Context, opts workflow.ListOpts) ([]*workflow.Workflow, error) {
	ids, err := s.client.SMembers(ctx, workflowIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("formbridge/redis: list workflows smembers: %w", err)
	}

	var out []*workflow.Workflow
	for _, wID := range ids {
		vals, getErr := s.client.HGetAll(ctx, workflowKey(wID)).Result()
		if getErr != nil || len(vals) == 0 {
			continue
		}
		wf, convErr := mapToWorkflow(vals)
		if convErr != nil {
			continue
		}
		if opts.Status != "" && wf.Status != opts.Status {
			continue
		}
		out = append(out, wf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func workflowToMap(wf *workflow.Workflow) (map[string]any, error) {
	params := "{}"
	if wf.Parameters != nil {
		data, err := json.Marshal(wf.Parameters)
		if err != nil {
			return nil, fmt.Errorf("formbridge/redis: encode workflow parameters: %w", err)
		}
		params = string(data)
	}

	return map[string]any{
		"id":         wf.ID.String(),
		"session_id": wf.SessionID.String(),
		"goal":       wf.Goal,
		"parameters": params,
		"status":     string(wf.Status),
		"created_at": wf.CreatedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

func mapToWorkflow(vals map[string]string) (*workflow.Workflow, error) {
	wID, err := id.ParseWorkflowID(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("formbridge/redis: parse workflow id %q: %w", vals["id"], err)
	}

	wf := &workflow.Workflow{
		ID:     wID,
		Goal:   vals["goal"],
		Status: workflow.Status(vals["status"]),
	}

	if sID := vals["session_id"]; sID != "" {
		parsed, sErr := id.ParseSessionID(sID)
		if sErr != nil {
			return nil, fmt.Errorf("formbridge/redis: parse workflow session id %q: %w", sID, sErr)
		}
		wf.SessionID = parsed
	}

	if createdAt, tErr := time.Parse(time.RFC3339Nano, vals["created_at"]); tErr == nil {
		wf.CreatedAt = createdAt
	}

	if params := vals["parameters"]; params != "" && params != "{}" {
		if unmarshalErr := json.Unmarshal([]byte(params), &wf.Parameters); unmarshalErr != nil {
			return nil, fmt.Errorf("formbridge/redis: decode workflow parameters: %w", unmarshalErr)
		}
	}

	return wf, nil
}
