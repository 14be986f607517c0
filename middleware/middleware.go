// Package middleware provides composable middleware for record operations.
// Middleware wraps operation calls synchronously and can modify execution
// (recover from panics, log, add tracing and metrics).
package middleware

import "context"

// Call describes the operation being executed, for middleware that wants
// to tag logs, spans, or metrics.
type Call struct {
	// Op is the operation name ("create_record", "update_record",
	// "start_workflow").
	Op string

	// PageID is the targeted page, when the operation has one.
	PageID string

	// WorkflowID is the tracked workflow, when the operation has one.
	WorkflowID string
}

// Handler is the terminal function that executes operation logic.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic. It receives the
// current context, the call being executed, and the next handler to call.
// Middleware MUST call next to continue the chain (unless short-circuiting
// on error).
type Middleware func(ctx context.Context, c *Call, next Handler) error

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, recover) executes as:
//
//	logging → recover → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, c *Call, next Handler) error {
		// Build the chain from the end backwards.
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) error {
				return mw(ctx, c, prev)
			}
		}
		return h(ctx)
	}
}
