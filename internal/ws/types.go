package ws

import "encoding/json"

// Message is the frame format in both directions.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// inbound is a client frame before its payload is decoded.
type inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

const (
	// error texts for frames that never reach the engine
	msgInvalidFrame = "invalid message"
)
