// Package store defines the aggregate persistence interface.
//
// Each subsystem (session, workflow) defines its own store interface. The
// composite [Store] composes them all. A single backend need only implement
// Store to satisfy every subsystem's persistence contract.
//
// # Available Backends
//
//   - store/memory — in-memory store; the default process-wide registry
//     backing and the one used in tests
//   - store/redis — Redis backend for shared or restart-surviving state
//   - store/bun — Bun ORM backend (PostgreSQL)
//
// # Usage
//
//	import "github.com/xraph/formbridge/store/memory"
//
//	s := memory.New()
//	b, err := formbridge.New(formbridge.WithStore(s))
//
// # Migrations
//
// Call Migrate once at startup to create or update the schema:
//
//	if err := s.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
package store
