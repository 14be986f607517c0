package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/xraph/formbridge"
	"github.com/xraph/formbridge/id"
	"github.com/xraph/formbridge/workflow"
)

// CreateWorkflow persists a new workflow context.
func (s *Store) CreateWorkflow(ctx context.Context, wf *workflow.Workflow) error {
	model, err := workflowToModel(wf)
	if err != nil {
		return fmt.Errorf("formbridge/bun: encode workflow: %w", err)
	}

	_, err = s.db.NewInsert().
		Model(model).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return formbridge.ErrWorkflowAlreadyExists
		}
		return fmt.Errorf("formbridge/bun: create workflow: %w", err)
	}
	return nil
}

// GetWorkflow retrieves a workflow by ID, history included.
func (s *Store) GetWorkflow(ctx context.Context, workflowID id.WorkflowID) (*workflow.Workflow, error) {
	model := new(workflowModel)
	err := s.db.NewSelect().
		Model(model).
		Where("id = ?", workflowID.String()).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, formbridge.ErrWorkflowNotFound
		}
		return nil, fmt.Errorf("formbridge/bun: get workflow: %w", err)
	}

	wf, err := model.toWorkflow()
	if err != nil {
		return nil, err
	}

	var entries []historyModel
	err = s.db.NewSelect().
		Model(&entries).
		Where("workflow_id = ?", workflowID.String()).
		Order("seq ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("formbridge/bun: get workflow history: %w", err)
	}
	for i := range entries {
		wf.History = append(wf.History, entries[i].toEntry())
	}

	return wf, nil
}

// UpdateWorkflowStatus sets the status of an existing workflow.
func (s *Store) UpdateWorkflowStatus(ctx context.Context, workflowID id.WorkflowID, status workflow.Status) error {
	res, err := s.db.NewUpdate().
		Model((*workflowModel)(nil)).
		Set("status = ?", string(status)).
		Where("id = ?", workflowID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("formbridge/bun: update workflow status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("formbridge/bun: update workflow status rows: %w", err)
	}
	if affected == 0 {
		return formbridge.ErrWorkflowNotFound
	}
	return nil
}

// AppendHistory appends one entry to a workflow's history. The workflow row
// is locked for the duration of the transaction, which serializes sequence
// assignment per workflow while distinct workflows append concurrently.
func (s *Store) AppendHistory(ctx context.Context, workflowID id.WorkflowID, entry workflow.HistoryEntry) (*workflow.HistoryEntry, error) {
	wID := workflowID.String()

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var locked workflowModel
		lockErr := tx.NewSelect().
			Model(&locked).
			Where("id = ?", wID).
			For("UPDATE").
			Scan(ctx)
		if lockErr != nil {
			if errors.Is(lockErr, sql.ErrNoRows) {
				return formbridge.ErrWorkflowNotFound
			}
			return fmt.Errorf("formbridge/bun: lock workflow: %w", lockErr)
		}

		var maxSeq sql.NullInt64
		seqErr := tx.NewSelect().
			Model((*historyModel)(nil)).
			ColumnExpr("MAX(seq)").
			Where("workflow_id = ?", wID).
			Scan(ctx, &maxSeq)
		if seqErr != nil {
			return fmt.Errorf("formbridge/bun: next history seq: %w", seqErr)
		}
		entry.Seq = int(maxSeq.Int64) + 1

		_, insErr := tx.NewInsert().
			Model(historyToModel(wID, entry)).
			Exec(ctx)
		if insErr != nil {
			return fmt.Errorf("formbridge/bun: append history: %w", insErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// ListWorkflows returns workflows matching the given options, ordered by
// creation time. History is not populated; use GetWorkflow for the full
// context.
func (s *Store) ListWorkflows(ctx context.Context, opts workflow.ListOpts) ([]*workflow.Workflow, error) {
	var models []workflowModel
	q := s.db.NewSelect().
		Model(&models).
		Order("created_at ASC")
	if opts.Status != "" {
		q = q.Where("status = ?", string(opts.Status))
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("formbridge/bun: list workflows: %w", err)
	}

	out := make([]*workflow.Workflow, 0, len(models))
	for i := range models {
		wf, convErr := models[i].toWorkflow()
		if convErr != nil {
			return nil, convErr
		}
		out = append(out, wf)
	}
	return out, nil
}
