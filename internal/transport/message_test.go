package transport

import "testing"

type joinPayload struct {
	Name string `json:"name"`
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	msg, err := Encode("player:join", joinPayload{Name: "Alice"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if msg.Type != "player:join" {
		t.Fatalf("expected type player:join, got %q", msg.Type)
	}

	var out joinPayload
	if err := Decode(msg, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Name != "Alice" {
		t.Fatalf("expected name Alice, got %q", out.Name)
	}
}

func TestEncodeNilPayloadProducesEmptyData(t *testing.T) {
	msg, err := Encode("game:pause", nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(msg.Data) != 0 {
		t.Fatalf("expected no data for a nil payload, got %q", msg.Data)
	}
}

func TestDecodeEmptyDataLeavesDstUntouched(t *testing.T) {
	out := joinPayload{Name: "unchanged"}
	if err := Decode(Message{Type: "game:resume"}, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Name != "unchanged" {
		t.Fatalf("expected dst to be left untouched, got %q", out.Name)
	}
}
