// Package store defines the aggregate persistence interface. Each subsystem
// (session, workflow) defines its own store interface. The composite Store
// composes them all. Backends: Memory, Redis, and Bun (PostgreSQL).
package store

import (
	"context"

	"github.com/xraph/formbridge/session"
	"github.com/xraph/formbridge/workflow"
)

// Store is the aggregate persistence interface.
// Each subsystem store is a composable interface; a single backend
// (memory, redis, bun) implements all of them.
type Store interface {
	session.Store
	workflow.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
