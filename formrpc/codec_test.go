package formrpc

import (
	"encoding/json"
	"testing"
	"time"
)

func testFrame() *Frame {
	return &Frame{
		ID:        "frame-1",
		Type:      FrameRequest,
		Method:    MethodFieldsWrite,
		Data:      json.RawMessage(`{"page_id":"21"}`),
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestJSONCodecRoundTrip(t *testing.T) {
	t.Parallel()

	codec := &JSONCodec{}
	if codec.Name() != CodecNameJSON {
		t.Errorf("Name = %q, want %q", codec.Name(), CodecNameJSON)
	}

	original := testFrame()
	data, err := codec.Encode(original)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if decoded.ID != original.ID {
		t.Errorf("ID = %q, want %q", decoded.ID, original.ID)
	}
	if decoded.Method != original.Method {
		t.Errorf("Method = %q, want %q", decoded.Method, original.Method)
	}
	if string(decoded.Data) != string(original.Data) {
		t.Errorf("Data = %s, want %s", decoded.Data, original.Data)
	}
}

func TestMsgpackCodecRoundTrip(t *testing.T) {
	t.Parallel()

	codec := &MsgpackCodec{}
	if codec.Name() != CodecNameMsgpack {
		t.Errorf("Name = %q, want %q", codec.Name(), CodecNameMsgpack)
	}

	original := testFrame()
	data, err := codec.Encode(original)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if decoded.ID != original.ID {
		t.Errorf("ID = %q, want %q", decoded.ID, original.ID)
	}
	if decoded.Type != original.Type {
		t.Errorf("Type = %q, want %q", decoded.Type, original.Type)
	}
}

func TestJSONCodecDecodeInvalid(t *testing.T) {
	t.Parallel()

	codec := &JSONCodec{}
	if _, err := codec.Decode([]byte("{not json")); err == nil {
		t.Error("expected error decoding invalid JSON")
	}
}

func TestGetCodec(t *testing.T) {
	t.Parallel()

	if GetCodec("msgpack").Name() != CodecNameMsgpack {
		t.Error("GetCodec(msgpack) should return msgpack codec")
	}
	if GetCodec("").Name() != CodecNameJSON {
		t.Error("GetCodec empty should default to JSON")
	}
	if GetCodec("unknown").Name() != CodecNameJSON {
		t.Error("GetCodec unknown should default to JSON")
	}
}
