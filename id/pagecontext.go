package id

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PageContextDelim separates the three segments of a serialized page
// context token. Session IDs are TypeIDs and page IDs are form-system
// page identifiers; neither may contain the delimiter.
const PageContextDelim = ":"

// ErrMalformedPageContext is returned when a page context token cannot be
// decomposed into a session, a page, and a timestamp.
var ErrMalformedPageContext = errors.New("id: malformed page context token")

// PageContext is the composite handle to one open page instance on the
// remote form system. It replaces the raw delimiter-joined token with named
// fields; String and ParsePageContext are the only serialization routines.
//
// The wire format is "sessionID:pageID:unixMilli". The session segment is
// always non-empty on a successfully parsed token.
type PageContext struct {
	// Session identifies the logical connection the page was opened on.
	Session SessionID

	// PageID names the page definition (e.g., "21" for a card page).
	PageID string

	// OpenedAt records when the page context was established, at
	// millisecond precision.
	OpenedAt time.Time
}

// NewPageContext creates a page context for the given session and page,
// stamped with the current time.
func NewPageContext(session SessionID, pageID string) PageContext {
	return PageContext{
		Session:  session,
		PageID:   pageID,
		OpenedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// String serializes the page context into its wire token.
// Returns an empty string for the zero value.
func (p PageContext) String() string {
	if p.IsZero() {
		return ""
	}

	return p.Session.String() + PageContextDelim + p.PageID + PageContextDelim +
		strconv.FormatInt(p.OpenedAt.UnixMilli(), 10)
}

// IsZero reports whether the page context is the zero value.
func (p PageContext) IsZero() bool {
	return p.Session.IsNil() && p.PageID == ""
}

// MarshalText implements encoding.TextMarshaler.
func (p PageContext) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PageContext) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*p = PageContext{}

		return nil
	}

	parsed, err := ParsePageContext(string(data))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}

// ParsePageContext parses a wire token into a PageContext. The token must
// carry exactly three segments and its session segment must be a valid
// session TypeID.
func ParsePageContext(s string) (PageContext, error) {
	if s == "" {
		return PageContext{}, fmt.Errorf("%w: empty token", ErrMalformedPageContext)
	}

	parts := strings.Split(s, PageContextDelim)
	if len(parts) != 3 {
		return PageContext{}, fmt.Errorf("%w: %q has %d segments, want 3", ErrMalformedPageContext, s, len(parts))
	}

	session, err := ParseSessionID(parts[0])
	if err != nil {
		return PageContext{}, fmt.Errorf("%w: session segment of %q: %v", ErrMalformedPageContext, s, err)
	}

	if parts[1] == "" {
		return PageContext{}, fmt.Errorf("%w: %q has an empty page segment", ErrMalformedPageContext, s)
	}

	millis, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return PageContext{}, fmt.Errorf("%w: timestamp segment of %q: %v", ErrMalformedPageContext, s, err)
	}

	return PageContext{
		Session:  session,
		PageID:   parts[1],
		OpenedAt: time.UnixMilli(millis).UTC(),
	}, nil
}
