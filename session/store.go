package session

import (
	"context"

	"github.com/xraph/formbridge/id"
)

// Store defines the persistence contract for sessions.
type Store interface {
	// CreateSession persists a new session.
	CreateSession(ctx context.Context, s *Session) error

	// GetSession retrieves a session by ID. Returns
	// formbridge.ErrSessionNotFound for unknown IDs.
	GetSession(ctx context.Context, sessionID id.SessionID) (*Session, error)

	// ListSessions returns all known sessions.
	ListSessions(ctx context.Context) ([]*Session, error)
}
