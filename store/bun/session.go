package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/xraph/formbridge"
	"github.com/xraph/formbridge/id"
	"github.com/xraph/formbridge/session"
)

// CreateSession persists a new session.
func (s *Store) CreateSession(ctx context.Context, sess *session.Session) error {
	_, err := s.db.NewInsert().
		Model(sessionToModel(sess)).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return formbridge.ErrSessionAlreadyExists
		}
		return fmt.Errorf("formbridge/bun: create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, sessionID id.SessionID) (*session.Session, error) {
	model := new(sessionModel)
	err := s.db.NewSelect().
		Model(model).
		Where("id = ?", sessionID.String()).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, formbridge.ErrSessionNotFound
		}
		return nil, fmt.Errorf("formbridge/bun: get session: %w", err)
	}
	return model.toSession()
}

// ListSessions returns all sessions ordered by creation time.
func (s *Store) ListSessions(ctx context.Context) ([]*session.Session, error) {
	var models []sessionModel
	err := s.db.NewSelect().
		Model(&models).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("formbridge/bun: list sessions: %w", err)
	}

	out := make([]*session.Session, 0, len(models))
	for i := range models {
		sess, convErr := models[i].toSession()
		if convErr != nil {
			return nil, convErr
		}
		out = append(out, sess)
	}
	return out, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == "23505"
}
