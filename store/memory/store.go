package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/xraph/formbridge"
	"github.com/xraph/formbridge/id"
	"github.com/xraph/formbridge/session"
	"github.com/xraph/formbridge/workflow"
)

// Ensure Store implements store.Store at compile time.
// We can't import store here (import cycle), so we verify each subsystem.
var (
	_ session.Store  = (*Store)(nil)
	_ workflow.Store = (*Store)(nil)
)

// Store is a fully in-memory implementation of store.Store.
// Safe for concurrent access. Registries backed by it hold state for the
// process lifetime; nothing expires automatically.
type Store struct {
	mu sync.RWMutex

	sessions  map[string]*session.Session
	workflows map[string]*workflow.Workflow
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		sessions:  make(map[string]*session.Session),
		workflows: make(map[string]*workflow.Workflow),
	}
}

// ──────────────────────────────────────────────────
// Lifecycle — Migrate / Ping / Close
// ──────────────────────────────────────────────────

// Migrate is a no-op for the memory store.
func (m *Store) Migrate(_ context.Context) error { return nil }

// Ping always succeeds for the memory store.
func (m *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (m *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Session Store
// ──────────────────────────────────────────────────

// CreateSession persists a new session.
func (m *Store) CreateSession(_ context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := s.ID.String()
	if _, exists := m.sessions[key]; exists {
		return formbridge.ErrSessionAlreadyExists
	}
	cp := *s
	m.sessions[key] = &cp
	return nil
}

// GetSession retrieves a session by ID.
func (m *Store) GetSession(_ context.Context, sessionID id.SessionID) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID.String()]
	if !ok {
		return nil, formbridge.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

// ListSessions returns all sessions ordered by creation time.
func (m *Store) ListSessions(_ context.Context) ([]*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*session.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ──────────────────────────────────────────────────
// Workflow Store
// ──────────────────────────────────────────────────

// CreateWorkflow persists a new workflow context.
func (m *Store) CreateWorkflow(_ context.Context, wf *workflow.Workflow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := wf.ID.String()
	if _, exists := m.workflows[key]; exists {
		return formbridge.ErrWorkflowAlreadyExists
	}
	m.workflows[key] = copyWorkflow(wf)
	return nil
}

// GetWorkflow retrieves a workflow by ID with its full history.
func (m *Store) GetWorkflow(_ context.Context, workflowID id.WorkflowID) (*workflow.Workflow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wf, ok := m.workflows[workflowID.String()]
	if !ok {
		return nil, formbridge.ErrWorkflowNotFound
	}
	return copyWorkflow(wf), nil
}

// UpdateWorkflowStatus sets the status of an existing workflow.
func (m *Store) UpdateWorkflowStatus(_ context.Context, workflowID id.WorkflowID, status workflow.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	wf, ok := m.workflows[workflowID.String()]
	if !ok {
		return formbridge.ErrWorkflowNotFound
	}
	wf.Status = status
	return nil
}

// AppendHistory atomically appends one entry, assigning the next sequence
// number. The store mutex serializes appends to the same workflow; entries
// are never reordered or deleted.
func (m *Store) AppendHistory(_ context.Context, workflowID id.WorkflowID, entry workflow.HistoryEntry) (*workflow.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wf, ok := m.workflows[workflowID.String()]
	if !ok {
		return nil, formbridge.ErrWorkflowNotFound
	}

	entry.Seq = len(wf.History) + 1
	wf.History = append(wf.History, entry)

	cp := entry
	return &cp, nil
}

// ListWorkflows returns workflows matching the given options, ordered by
// creation time.
func (m *Store) ListWorkflows(_ context.Context, opts workflow.ListOpts) ([]*workflow.Workflow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*workflow.Workflow
	for _, wf := range m.workflows {
		if opts.Status != "" && wf.Status != opts.Status {
			continue
		}
		out = append(out, copyWorkflow(wf))
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

// copyWorkflow deep-copies a workflow so callers never share the stored
// history slice or parameter map.
func copyWorkflow(wf *workflow.Workflow) *workflow.Workflow {
	cp := *wf
	if wf.History != nil {
		cp.History = make([]workflow.HistoryEntry, len(wf.History))
		copy(cp.History, wf.History)
	}
	if wf.Parameters != nil {
		cp.Parameters = make(map[string]any, len(wf.Parameters))
		for k, v := range wf.Parameters {
			cp.Parameters[k] = v
		}
	}
	return &cp
}
