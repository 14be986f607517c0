// Package bunstore implements store.Store on PostgreSQL via the Bun ORM.
// Workflow history lives in its own table with a per-workflow sequence
// column; appends lock the workflow row so sequence assignment is
// serialized per workflow while distinct workflows append concurrently.
package bunstore
