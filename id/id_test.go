package id

import (
	"encoding/json"
	"testing"
)

func TestNewHasPrefix(t *testing.T) {
	t.Parallel()

	sessID := NewSessionID()
	if sessID.Prefix() != PrefixSession {
		t.Errorf("Prefix = %q, want %q", sessID.Prefix(), PrefixSession)
	}
	if sessID.IsNil() {
		t.Error("new ID should not be nil")
	}

	wfID := NewWorkflowID()
	if wfID.Prefix() != PrefixWorkflow {
		t.Errorf("Prefix = %q, want %q", wfID.Prefix(), PrefixWorkflow)
	}
}

func TestNewIsUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 1000 {
		s := NewSessionID().String()
		if seen[s] {
			t.Fatalf("duplicate ID generated: %s", s)
		}
		seen[s] = true
	}
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	original := NewWorkflowID()
	parsed, err := Parse(original.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != original {
		t.Errorf("parsed %s, want %s", parsed, original)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"not-a-typeid",
		"sess_!!!invalid!!!",
	}
	for _, input := range cases {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) should fail", input)
		}
	}
}

func TestParseWithPrefixMismatch(t *testing.T) {
	t.Parallel()

	wfID := NewWorkflowID()
	if _, err := ParseSessionID(wfID.String()); err == nil {
		t.Error("parsing a workflow ID as a session ID should fail")
	}
}

func TestNilID(t *testing.T) {
	t.Parallel()

	if !Nil.IsNil() {
		t.Error("Nil.IsNil() should be true")
	}
	if Nil.String() != "" {
		t.Errorf("Nil.String() = %q, want empty", Nil.String())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	original := NewSessionID()
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded ID
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("decoded %s, want %s", decoded, original)
	}
}

func TestScanValue(t *testing.T) {
	t.Parallel()

	original := NewSessionID()
	val, err := original.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var scanned ID
	if err := scanned.Scan(val); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if scanned != original {
		t.Errorf("scanned %s, want %s", scanned, original)
	}

	var fromNil ID
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if !fromNil.IsNil() {
		t.Error("Scan(nil) should yield the Nil ID")
	}
}
