package engine_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/xraph/formbridge"
	"github.com/xraph/formbridge/engine"
	"github.com/xraph/formbridge/form"
	"github.com/xraph/formbridge/id"
	"github.com/xraph/formbridge/pipeline"
	"github.com/xraph/formbridge/store/memory"
	"github.com/xraph/formbridge/workflow"
)

// fakeForm is a minimal in-memory form system implementing all three
// collaborator interfaces.
type fakeForm struct {
	mu         sync.Mutex
	resolveErr error
	writeErr   error
	writeRes   *form.WriteResult
	actions    []form.Action
}

func (f *fakeForm) Resolve(_ context.Context, req form.ResolveRequest) (*form.ResolveResult, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return &form.ResolveResult{PageContext: id.NewPageContext(id.NewSessionID(), req.PageID)}, nil
}

func (f *fakeForm) Invoke(_ context.Context, req form.ActionRequest) (*form.ActionResult, error) {
	f.mu.Lock()
	f.actions = append(f.actions, req.Action)
	f.mu.Unlock()
	return &form.ActionResult{Executed: true}, nil
}

func (f *fakeForm) Write(_ context.Context, req form.WriteRequest) (*form.WriteResult, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	if f.writeRes != nil {
		return f.writeRes, nil
	}
	names := req.Fields.Names()
	return &form.WriteResult{Success: true, Saved: true, UpdatedFields: names}, nil
}

func newTestEngine(t *testing.T, ff *fakeForm, bridgeOpts ...formbridge.Option) *engine.Engine {
	t.Helper()

	opts := append([]formbridge.Option{
		formbridge.WithStore(memory.New()),
		formbridge.WithLogger(slog.New(slog.DiscardHandler)),
	}, bridgeOpts...)

	b, err := formbridge.New(opts...)
	if err != nil {
		t.Fatalf("formbridge.New: %v", err)
	}

	eng, err := engine.Build(b,
		engine.WithResolver(ff),
		engine.WithActionInvoker(ff),
		engine.WithFieldWriter(ff),
	)
	if err != nil {
		t.Fatalf("engine.Build: %v", err)
	}
	return eng
}

func TestBuildRequiresStore(t *testing.T) {
	t.Parallel()

	b, err := formbridge.New()
	if err != nil {
		t.Fatalf("formbridge.New: %v", err)
	}

	ff := &fakeForm{}
	_, err = engine.Build(b,
		engine.WithResolver(ff),
		engine.WithActionInvoker(ff),
		engine.WithFieldWriter(ff),
	)
	if !errors.Is(err, formbridge.ErrNoStore) {
		t.Errorf("got %v, want ErrNoStore", err)
	}
}

func TestBuildRequiresCollaborators(t *testing.T) {
	t.Parallel()

	ff := &fakeForm{}
	cases := []struct {
		name string
		opts []engine.Option
		want error
	}{
		{"no resolver", []engine.Option{engine.WithActionInvoker(ff), engine.WithFieldWriter(ff)}, formbridge.ErrNoResolver},
		{"no invoker", []engine.Option{engine.WithResolver(ff), engine.WithFieldWriter(ff)}, formbridge.ErrNoActionInvoker},
		{"no writer", []engine.Option{engine.WithResolver(ff), engine.WithActionInvoker(ff)}, formbridge.ErrNoFieldWriter},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			b, err := formbridge.New(formbridge.WithStore(memory.New()))
			if err != nil {
				t.Fatalf("formbridge.New: %v", err)
			}
			if _, err := engine.Build(b, tc.opts...); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreateRecord(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, &fakeForm{})

	res, err := eng.CreateRecord(context.Background(), pipeline.CreateRequest{
		PageID: "21",
		Fields: form.Fields{"Name": form.Value("Acme")},
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if !res.Success {
		t.Error("Success should be true")
	}
	if res.PageID != "21" {
		t.Errorf("PageID = %q, want 21", res.PageID)
	}
}

func TestUpdateRecord(t *testing.T) {
	t.Parallel()

	ff := &fakeForm{}
	eng := newTestEngine(t, ff)

	res, err := eng.UpdateRecord(context.Background(), pipeline.UpdateRequest{
		PageID: "22",
		Fields: form.Fields{"City": form.Value("Oslo")},
	})
	if err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}
	if !res.Success {
		t.Error("Success should be true")
	}
	if !res.Saved {
		t.Error("Saved should be true with default flags")
	}
}

func TestStartWorkflowCreatesSession(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, &fakeForm{})
	ctx := context.Background()

	res, err := eng.StartWorkflow(ctx, engine.StartWorkflowRequest{
		Goal:       "create customer",
		Parameters: map[string]any{"page": "21"},
	})
	if err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}
	if res.WorkflowID.IsNil() {
		t.Error("WorkflowID should be set")
	}
	if res.SessionID.IsNil() {
		t.Error("a fresh session should be created when none is supplied")
	}
	if res.Status != workflow.StatusCreated {
		t.Errorf("Status = %s, want created", res.Status)
	}

	// Exactly one session exists.
	sessions, err := eng.Sessions().List(ctx)
	if err != nil {
		t.Fatalf("List sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("got %d sessions, want 1", len(sessions))
	}
}

func TestStartWorkflowReusesSession(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, &fakeForm{})
	ctx := context.Background()

	sess, err := eng.Sessions().Create(ctx)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	res, err := eng.StartWorkflow(ctx, engine.StartWorkflowRequest{
		Goal:      "update customer",
		SessionID: sess.ID,
	})
	if err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}
	if res.SessionID != sess.ID {
		t.Errorf("SessionID = %s, want %s", res.SessionID, sess.ID)
	}

	sessions, err := eng.Sessions().List(ctx)
	if err != nil {
		t.Fatalf("List sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("got %d sessions, want 1 (no extra session created)", len(sessions))
	}
}

func TestStartWorkflowEmptyGoal(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, &fakeForm{})
	ctx := context.Background()

	_, err := eng.StartWorkflow(ctx, engine.StartWorkflowRequest{Goal: "  "})
	if !errors.Is(err, formbridge.ErrEmptyGoal) {
		t.Errorf("got %v, want ErrEmptyGoal", err)
	}

	// Validation failure must not leave a session behind.
	sessions, listErr := eng.Sessions().List(ctx)
	if listErr != nil {
		t.Fatalf("List sessions: %v", listErr)
	}
	if len(sessions) != 0 {
		t.Errorf("got %d sessions after failed start, want 0", len(sessions))
	}
}

func TestStartWorkflowUnknownSession(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, &fakeForm{})
	ctx := context.Background()

	_, err := eng.StartWorkflow(ctx, engine.StartWorkflowRequest{
		Goal:      "update customer",
		SessionID: id.NewSessionID(),
	})
	if !errors.Is(err, formbridge.ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}

	flows, listErr := eng.Workflows().List(ctx, workflow.ListOpts{})
	if listErr != nil {
		t.Fatalf("List workflows: %v", listErr)
	}
	if len(flows) != 0 {
		t.Errorf("got %d workflows after failed start, want 0", len(flows))
	}
}

func TestStartWorkflowConcurrentUnique(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, &fakeForm{})
	ctx := context.Background()

	const n = 20
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[id.WorkflowID]bool)
	)
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			res, err := eng.StartWorkflow(ctx, engine.StartWorkflowRequest{Goal: "parallel"})
			if err != nil {
				t.Errorf("StartWorkflow: %v", err)
				return
			}
			mu.Lock()
			ids[res.WorkflowID] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(ids) != n {
		t.Errorf("got %d distinct workflow IDs, want %d", len(ids), n)
	}
}

func TestRecordOperationTracksWorkflow(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, &fakeForm{})
	ctx := context.Background()

	started, err := eng.StartWorkflow(ctx, engine.StartWorkflowRequest{Goal: "create then update"})
	if err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}

	_, err = eng.CreateRecord(ctx, pipeline.CreateRequest{
		PageID: "21",
		Fields: form.Fields{"Name": form.Value("Acme")},
	}, engine.WithWorkflow(started.WorkflowID))
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	_, err = eng.UpdateRecord(ctx, pipeline.UpdateRequest{
		PageID: "21",
		Fields: form.Fields{"City": form.Value("Oslo")},
	}, engine.WithWorkflow(started.WorkflowID))
	if err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}

	wf, err := eng.Workflows().Get(ctx, started.WorkflowID)
	if err != nil {
		t.Fatalf("Get workflow: %v", err)
	}
	if len(wf.History) != 2 {
		t.Fatalf("got %d history entries, want 2", len(wf.History))
	}
	if wf.History[0].Step != "create_record" || wf.History[1].Step != "update_record" {
		t.Errorf("history steps = %s, %s", wf.History[0].Step, wf.History[1].Step)
	}
	if !wf.History[0].Success {
		t.Error("create step should be recorded as successful")
	}
	if wf.Status != workflow.StatusInProgress {
		t.Errorf("Status = %s, want in_progress after first tracked step", wf.Status)
	}
}

func TestRecordOperationTracksFailure(t *testing.T) {
	t.Parallel()

	ff := &fakeForm{resolveErr: errors.New("page missing")}
	eng := newTestEngine(t, ff)
	ctx := context.Background()

	started, err := eng.StartWorkflow(ctx, engine.StartWorkflowRequest{Goal: "doomed"})
	if err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}

	_, err = eng.CreateRecord(ctx, pipeline.CreateRequest{
		PageID: "999",
		Fields: form.Fields{"Name": form.Value("x")},
	}, engine.WithWorkflow(started.WorkflowID))
	if err == nil {
		t.Fatal("CreateRecord should fail when resolve fails")
	}

	wf, getErr := eng.Workflows().Get(ctx, started.WorkflowID)
	if getErr != nil {
		t.Fatalf("Get workflow: %v", getErr)
	}
	if len(wf.History) != 1 {
		t.Fatalf("got %d history entries, want 1", len(wf.History))
	}
	if wf.History[0].Success {
		t.Error("failed step should be recorded as unsuccessful")
	}
}
