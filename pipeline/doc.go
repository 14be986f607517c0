// Package pipeline implements the two record-mutation pipelines. Each
// pipeline composes the three form collaborators (resolver, action invoker,
// field writer) into a single logical operation executed as a strictly
// sequential chain: no step begins before the previous one resolves, and no
// step is retried.
//
// The create pipeline treats every step as fatal. The update pipeline
// tolerates Edit/Save action failures — only the field-write outcome gates
// overall success — because action availability is not reliably predictable:
// Edit may already be active and Save may be implicit in the writer.
//
// Validation errors short-circuit before any remote call. Collaborator
// errors propagate with identity preserved so callers can distinguish the
// failing step. Panics are caught at the pipeline boundary and normalized
// into a *StepError carrying the operation, page, and fields context.
package pipeline
