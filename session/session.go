// Package session provides the process-wide session state registry: opaque
// identity contexts for the external form system, created on demand by page
// resolution or explicitly by the start-workflow operation.
package session

import (
	"time"

	"github.com/xraph/formbridge/id"
)

// Session is a logical connection/identity context to the external form
// system. Sessions live for the process lifetime; there is no automatic
// expiry.
type Session struct {
	ID        id.SessionID `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
}
