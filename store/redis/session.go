package redis

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xraph/formbridge"
	"github.com/xraph/formbridge/id"
	"github.com/xraph/formbridge/session"
)

// CreateSession persists a new session.
func (s *Store) CreateSession(ctx context.Context, sess *session.Session) error {
	sID := sess.ID.String()
	key := sessionKey(sID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("formbridge/redis: create session exists: %w", err)
	}
	if exists > 0 {
		return formbridge.ErrSessionAlreadyExists
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		"id", sID,
		"created_at", sess.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.SAdd(ctx, sessionIDsKey, sID)
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("formbridge/redis: create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, sessionID id.SessionID) (*session.Session, error) {
	vals, err := s.client.HGetAll(ctx, sessionKey(sessionID.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("formbridge/redis: get session: %w", err)
	}
	if len(vals) == 0 {
		return nil, formbridge.ErrSessionNotFound
	}
	return mapToSession(vals)
}

// ListSessions returns all sessions ordered by creation time.
func (s *Store) ListSessions(ctx context.Context) ([]*session.Session, error) {
	ids, err := s.client.SMembers(ctx, sessionIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("formbridge/redis: list sessions smembers: %w", err)
	}

	var out []*session.Session
	for _, sID := range ids {
		vals, getErr := s.client.HGetAll(ctx, sessionKey(sID)).Result()
		if getErr != nil || len(vals) == 0 {
			continue
		}
		sess, convErr := mapToSession(vals)
		if convErr != nil {
			continue
		}
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func mapToSession(vals map[string]string) (*session.Session, error) {
	sID, err := id.ParseSessionID(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("formbridge/redis: parse session id %q: %w", vals["id"], err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("formbridge/redis: parse session created_at: %w", err)
	}

	return &session.Session{ID: sID, CreatedAt: createdAt}, nil
}
