package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/xraph/formbridge"
	"github.com/xraph/formbridge/form"
)

// CreateRequest are the inputs for the create-record pipeline.
type CreateRequest struct {
	// PageID names the page to open. Required.
	PageID string
	// Fields are the initial field assignments. Required, non-empty.
	Fields form.Fields
}

// Validate checks the request before any remote call is made.
func (r CreateRequest) Validate() error {
	if r.PageID == "" {
		return formbridge.ErrMissingPageID
	}
	if len(r.Fields) == 0 {
		return formbridge.ErrNoFields
	}
	return nil
}

// UpdateRequest are the inputs for the update-record pipeline.
// The three flags are tri-state: nil means "use the configured default"
// (true out of the box), so a flag is off only when explicitly set false.
type UpdateRequest struct {
	PageID string
	Fields form.Fields

	// AutoEdit triggers the Edit action before writing fields.
	AutoEdit *bool
	// Save triggers the Save action after a successful write.
	Save *bool
	// StopOnError aborts the write at the first failing field.
	StopOnError *bool
}

// Validate checks the request before any remote call is made.
func (r UpdateRequest) Validate() error {
	if r.PageID == "" {
		return formbridge.ErrMissingPageID
	}
	if len(r.Fields) == 0 {
		return formbridge.ErrNoFields
	}
	return nil
}

// flag resolves a tri-state request flag against its configured default.
func flag(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// rawRequest is the untyped boundary shape of a record request as it
// arrives from callers that speak JSON (tool transports, HTTP glue).
// pageId may be a string or a number; field values may be plain values or
// {value, control} objects.
type rawRequest struct {
	PageID      any            `json:"pageId"`
	Fields      map[string]any `json:"fields"`
	AutoEdit    *bool          `json:"autoEdit"`
	Save        *bool          `json:"save"`
	StopOnError *bool          `json:"stopOnError"`
}

// ParseCreateRequest decodes a raw JSON create request, coercing a numeric
// pageId to its string form.
func ParseCreateRequest(data []byte) (CreateRequest, error) {
	raw, err := decodeRaw(data)
	if err != nil {
		return CreateRequest{}, err
	}

	pageID, err := coercePageID(raw.PageID)
	if err != nil {
		return CreateRequest{}, err
	}

	return CreateRequest{PageID: pageID, Fields: coerceFields(raw.Fields)}, nil
}

// ParseUpdateRequest decodes a raw JSON update request. Absent flags stay
// nil so the configured defaults apply; only an explicit false turns a
// behavior off.
func ParseUpdateRequest(data []byte) (UpdateRequest, error) {
	raw, err := decodeRaw(data)
	if err != nil {
		return UpdateRequest{}, err
	}

	pageID, err := coercePageID(raw.PageID)
	if err != nil {
		return UpdateRequest{}, err
	}

	return UpdateRequest{
		PageID:      pageID,
		Fields:      coerceFields(raw.Fields),
		AutoEdit:    raw.AutoEdit,
		Save:        raw.Save,
		StopOnError: raw.StopOnError,
	}, nil
}

func decodeRaw(data []byte) (rawRequest, error) {
	var raw rawRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber() // keep "pageId": 21 as its literal text
	if err := dec.Decode(&raw); err != nil {
		return rawRequest{}, fmt.Errorf("formbridge: decode request: %w", err)
	}
	return raw, nil
}

func coercePageID(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", formbridge.ErrMissingPageID
	case string:
		if t == "" {
			return "", formbridge.ErrMissingPageID
		}
		return t, nil
	case json.Number:
		return t.String(), nil
	default:
		return "", fmt.Errorf("%w: got %T", formbridge.ErrInvalidPageID, v)
	}
}

func coerceFields(raw map[string]any) form.Fields {
	if len(raw) == 0 {
		return nil
	}

	fields := make(form.Fields, len(raw))
	for name, v := range raw {
		if obj, ok := v.(map[string]any); ok {
			if inner, has := obj["value"]; has {
				fv := form.FieldValue{Value: inner}
				if ctrl, ok := obj["control"].(string); ok {
					fv.Control = ctrl
				}
				fields[name] = fv
				continue
			}
		}
		fields[name] = form.Value(v)
	}
	return fields
}
