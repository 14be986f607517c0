package session

import (
	"context"
	"fmt"
	"time"

	"github.com/xraph/formbridge/id"
)

// Registry is the session state registry. It hands out fresh
// collision-resistant session identities and resolves existing ones.
//
// One Registry instance per process is the intended shape; it is safe for
// concurrent use as long as its Store is.
type Registry struct {
	store Store
}

// NewRegistry creates a session registry backed by the given store.
func NewRegistry(store Store) *Registry {
	return &Registry{store: store}
}

// Create generates a new session identity and persists it.
// Every call returns a distinct session.
func (r *Registry) Create(ctx context.Context) (*Session, error) {
	s := &Session{
		ID:        id.NewSessionID(),
		CreatedAt: time.Now().UTC(),
	}
	if err := r.store.CreateSession(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

// Get resolves a session by ID. Missing sessions surface as
// formbridge.ErrSessionNotFound, never as a panic.
func (r *Registry) Get(ctx context.Context, sessionID id.SessionID) (*Session, error) {
	return r.store.GetSession(ctx, sessionID)
}

// List returns all sessions known to the registry.
func (r *Registry) List(ctx context.Context) ([]*Session, error) {
	return r.store.ListSessions(ctx)
}

// Store returns the underlying session store.
func (r *Registry) Store() Store { return r.store }
