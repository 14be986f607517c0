package form

// Action is a named command executable against an open page context.
type Action string

const (
	// ActionNew materializes a blank record on the page.
	ActionNew Action = "New"

	// ActionEdit switches the open record into edit mode.
	ActionEdit Action = "Edit"

	// ActionSave commits the open record.
	ActionSave Action = "Save"
)
