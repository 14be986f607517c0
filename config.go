package formbridge

// WriteSuccessScope selects how overall pipeline success is computed when a
// field write runs under the stop-on-error policy. The underlying form
// systems disagree on whether a write that stopped early counts as
// successful, so the choice is an explicit configuration knob.
type WriteSuccessScope string

const (
	// ScopeAttempted reports the writer's own success flag, which covers
	// only the fields the writer attempted before stopping.
	ScopeAttempted WriteSuccessScope = "attempted"

	// ScopeRequested reports success only when every requested field was
	// attempted and none failed.
	ScopeRequested WriteSuccessScope = "requested"
)

// Config holds configuration for a Bridge.
type Config struct {
	// AutoEdit controls whether update pipelines trigger the Edit action
	// before writing fields, unless the request says otherwise.
	AutoEdit bool

	// Save controls whether update pipelines trigger the Save action after
	// a successful write, unless the request says otherwise.
	Save bool

	// StopOnError controls the default field-write policy for update
	// pipelines: abort at the first failing field, or attempt every field.
	StopOnError bool

	// WriteSuccessScope selects the success interpretation for writes that
	// ran under the stop-on-error policy.
	WriteSuccessScope WriteSuccessScope
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		AutoEdit:          true,
		Save:              true,
		StopOnError:       true,
		WriteSuccessScope: ScopeAttempted,
	}
}
