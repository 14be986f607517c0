// Package form defines the contracts of the three external collaborators
// FormBridge orchestrates: the page resolver, the action invoker, and the
// field writer. FormBridge consumes these interfaces but never implements
// the remote mechanics itself; package formrpc provides a wire client that
// satisfies all three.
package form
