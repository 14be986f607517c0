package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xraph/formbridge"
	"github.com/xraph/formbridge/id"
	"github.com/xraph/formbridge/session"
	"github.com/xraph/formbridge/workflow"
)

func newSession() *session.Session {
	return &session.Session{ID: id.NewSessionID(), CreatedAt: time.Now().UTC()}
}

func newWorkflow() *workflow.Workflow {
	return &workflow.Workflow{
		ID:        id.NewWorkflowID(),
		Goal:      "test goal",
		Status:    workflow.StatusCreated,
		CreatedAt: time.Now().UTC(),
	}
}

func TestLifecycle(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	if err := s.Migrate(ctx); err != nil {
		t.Errorf("Migrate: %v", err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestSessionCRUD(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	sess := newSession()
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.CreateSession(ctx, sess); !errors.Is(err, formbridge.ErrSessionAlreadyExists) {
		t.Errorf("duplicate create: got %v, want ErrSessionAlreadyExists", err)
	}

	got, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.ID != sess.ID {
		t.Errorf("got %s, want %s", got.ID, sess.ID)
	}

	if _, err := s.GetSession(ctx, id.NewSessionID()); !errors.Is(err, formbridge.ErrSessionNotFound) {
		t.Errorf("unknown get: got %v, want ErrSessionNotFound", err)
	}
}

func TestGetSessionReturnsCopy(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	sess := newSession()
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	got.CreatedAt = time.Time{}

	again, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if again.CreatedAt.IsZero() {
		t.Error("mutating a returned session must not affect the stored one")
	}
}

func TestWorkflowCRUD(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	wf := newWorkflow()
	if err := s.CreateWorkflow(ctx, wf); err != nil {
		t.Fatalf("CreateWorkflow: %v", err)
	}
	if err := s.CreateWorkflow(ctx, wf); !errors.Is(err, formbridge.ErrWorkflowAlreadyExists) {
		t.Errorf("duplicate create: got %v, want ErrWorkflowAlreadyExists", err)
	}

	if err := s.UpdateWorkflowStatus(ctx, wf.ID, workflow.StatusFailed); err != nil {
		t.Fatalf("UpdateWorkflowStatus: %v", err)
	}
	got, err := s.GetWorkflow(ctx, wf.ID)
	if err != nil {
		t.Fatalf("GetWorkflow: %v", err)
	}
	if got.Status != workflow.StatusFailed {
		t.Errorf("Status = %s, want failed", got.Status)
	}

	if err := s.UpdateWorkflowStatus(ctx, id.NewWorkflowID(), workflow.StatusFailed); !errors.Is(err, formbridge.ErrWorkflowNotFound) {
		t.Errorf("unknown update: got %v, want ErrWorkflowNotFound", err)
	}
}

func TestGetWorkflowReturnsDeepCopy(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	wf := newWorkflow()
	wf.Parameters = map[string]any{"page": "21"}
	if err := s.CreateWorkflow(ctx, wf); err != nil {
		t.Fatalf("CreateWorkflow: %v", err)
	}
	if _, err := s.AppendHistory(ctx, wf.ID, workflow.HistoryEntry{Step: "one"}); err != nil {
		t.Fatalf("AppendHistory: %v", err)
	}

	got, err := s.GetWorkflow(ctx, wf.ID)
	if err != nil {
		t.Fatalf("GetWorkflow: %v", err)
	}
	got.History[0].Step = "tampered"
	got.Parameters["page"] = "999"

	again, err := s.GetWorkflow(ctx, wf.ID)
	if err != nil {
		t.Fatalf("GetWorkflow: %v", err)
	}
	if again.History[0].Step != "one" {
		t.Error("mutating returned history must not affect the stored workflow")
	}
	if again.Parameters["page"] != "21" {
		t.Error("mutating returned parameters must not affect the stored workflow")
	}
}

func TestAppendHistorySequencing(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	wf := newWorkflow()
	if err := s.CreateWorkflow(ctx, wf); err != nil {
		t.Fatalf("CreateWorkflow: %v", err)
	}

	for i := 1; i <= 3; i++ {
		entry, err := s.AppendHistory(ctx, wf.ID, workflow.HistoryEntry{Step: "step"})
		if err != nil {
			t.Fatalf("AppendHistory %d: %v", i, err)
		}
		if entry.Seq != i {
			t.Errorf("Seq = %d, want %d", entry.Seq, i)
		}
	}

	if _, err := s.AppendHistory(ctx, id.NewWorkflowID(), workflow.HistoryEntry{Step: "x"}); !errors.Is(err, formbridge.ErrWorkflowNotFound) {
		t.Errorf("unknown append: got %v, want ErrWorkflowNotFound", err)
	}
}

func TestAppendHistoryConcurrent(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	wf := newWorkflow()
	if err := s.CreateWorkflow(ctx, wf); err != nil {
		t.Fatalf("CreateWorkflow: %v", err)
	}

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			if _, err := s.AppendHistory(ctx, wf.ID, workflow.HistoryEntry{Step: "step"}); err != nil {
				t.Errorf("AppendHistory: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.GetWorkflow(ctx, wf.ID)
	if err != nil {
		t.Fatalf("GetWorkflow: %v", err)
	}
	if len(got.History) != n {
		t.Fatalf("got %d entries, want %d", len(got.History), n)
	}
	for i, entry := range got.History {
		if entry.Seq != i+1 {
			t.Errorf("entry %d has Seq %d, want %d", i, entry.Seq, i+1)
		}
	}
}

func TestListWorkflows(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	var first *workflow.Workflow
	for i := range 5 {
		wf := newWorkflow()
		wf.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Millisecond)
		if err := s.CreateWorkflow(ctx, wf); err != nil {
			t.Fatalf("CreateWorkflow %d: %v", i, err)
		}
		if i == 0 {
			first = wf
		}
	}
	if err := s.UpdateWorkflowStatus(ctx, first.ID, workflow.StatusCompleted); err != nil {
		t.Fatalf("UpdateWorkflowStatus: %v", err)
	}

	all, err := s.ListWorkflows(ctx, workflow.ListOpts{})
	if err != nil {
		t.Fatalf("ListWorkflows: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("got %d workflows, want 5", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.Before(all[i-1].CreatedAt) {
			t.Error("workflows not ordered by creation time")
		}
	}

	completed, err := s.ListWorkflows(ctx, workflow.ListOpts{Status: workflow.StatusCompleted})
	if err != nil {
		t.Fatalf("ListWorkflows completed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != first.ID {
		t.Errorf("status filter returned %d workflows", len(completed))
	}

	page, err := s.ListWorkflows(ctx, workflow.ListOpts{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("ListWorkflows paged: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("got %d workflows with limit/offset, want 1", len(page))
	}

	empty, err := s.ListWorkflows(ctx, workflow.ListOpts{Offset: 10})
	if err != nil {
		t.Fatalf("ListWorkflows offset past end: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %d workflows past the end, want 0", len(empty))
	}
}
