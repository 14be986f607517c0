package formbridge

import (
	"errors"

	"github.com/xraph/formbridge/id"
)

var (
	// Store errors.
	ErrNoStore         = errors.New("formbridge: no store configured")
	ErrStoreClosed     = errors.New("formbridge: store closed")
	ErrMigrationFailed = errors.New("formbridge: migration failed")

	// Not found errors.
	ErrSessionNotFound  = errors.New("formbridge: session not found")
	ErrWorkflowNotFound = errors.New("formbridge: workflow not found")

	// Conflict errors.
	ErrSessionAlreadyExists  = errors.New("formbridge: session already exists")
	ErrWorkflowAlreadyExists = errors.New("formbridge: workflow already exists")

	// Validation errors. Raised before any remote call, never retried.
	ErrMissingPageID    = errors.New("formbridge: pageId is required")
	ErrInvalidPageID    = errors.New("formbridge: pageId must be a string or a number")
	ErrNoFields         = errors.New("formbridge: fields must be a non-empty mapping")
	ErrEmptyGoal        = errors.New("formbridge: goal must be a non-empty string")
	ErrInvalidStatus    = errors.New("formbridge: invalid workflow status")
	ErrInvalidScope     = errors.New("formbridge: invalid write success scope")

	// Wiring errors.
	ErrNoResolver      = errors.New("formbridge: no resolver configured")
	ErrNoActionInvoker = errors.New("formbridge: no action invoker configured")
	ErrNoFieldWriter   = errors.New("formbridge: no field writer configured")
)

// IsValidation reports whether err belongs to the validation error class:
// malformed or missing input detected before any remote call was made.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrMissingPageID),
		errors.Is(err, ErrInvalidPageID),
		errors.Is(err, ErrNoFields),
		errors.Is(err, ErrEmptyGoal),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, id.ErrMalformedPageContext):
		return true
	}
	return false
}
