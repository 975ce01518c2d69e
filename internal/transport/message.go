// Package transport owns the per-connection duplex message channel: framing
// and delivery only (spec §4.1). All gameplay semantics live in the Engine;
// transport never interprets a message's data beyond its envelope.
package transport

import "encoding/json"

// Message is the wire-level envelope for every frame in both directions
// (spec §6.1): {"type": <string>, "data": <object>}.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Encode marshals a typed payload into a Message with the given type tag.
func Encode(msgType string, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: msgType}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Data: data}, nil
}

// Decode unmarshals a Message's data into dst.
func Decode(msg Message, dst any) error {
	if len(msg.Data) == 0 {
		return nil
	}
	return json.Unmarshal(msg.Data, dst)
}
