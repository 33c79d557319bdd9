// Package bus provides the asynchronous message channel used for
// cross-context control and broadcast traffic. Delivery is best-effort: a
// message with no listener is silently dropped, never an error.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
)

// Type identifies a message on the channel.
type Type string

const (
	// TypeGetConfig requests the current enablement state.
	TypeGetConfig Type = "GET_CONFIG"
	// TypeSaveConfig carries an updated runtime configuration.
	TypeSaveConfig Type = "SAVE_CONFIG"
	// TypeAddLog appends an entry to the audit trail.
	TypeAddLog Type = "ADD_LOG"
	// TypeStatusChanged signals an enablement change.
	TypeStatusChanged Type = "STATUS_CHANGED"
	// TypeAuthStatusChanged signals an authentication change.
	TypeAuthStatusChanged Type = "AUTH_STATUS_CHANGED"
	// TypeScanFile requests a scan of externally supplied file data.
	TypeScanFile Type = "SCAN_FILE"
	// TypePromptLog broadcasts a newly added scan log entry.
	TypePromptLog Type = "PROMPT_LOG"
	// TypePromptLogClear broadcasts that the scan log was cleared.
	TypePromptLogClear Type = "PROMPT_LOG_CLEAR"
)

// Message is a single unit of cross-context traffic.
type Message struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage builds a Message with the payload marshalled to JSON.
func NewMessage(t Type, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: t}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal %s payload: %w", t, err)
	}
	return Message{Type: t, Payload: data}, nil
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	if len(m.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", m.Type, err)
	}
	return nil
}

// Handler processes one message. A non-nil response answers request-style
// messages; broadcast consumers return nil.
type Handler func(ctx context.Context, msg Message) (*Message, error)

// Channel is the transport-agnostic message channel. Production runs it over
// a real inter-process transport; tests use the in-process implementation.
type Channel interface {
	// Send delivers msg to every subscriber and returns the first non-nil
	// response. A nil response with nil error means nobody answered.
	Send(ctx context.Context, msg Message) (*Message, error)

	// Subscribe registers a handler and returns an unsubscribe function.
	Subscribe(h Handler) func()
}

// Control-plane payloads.

// StatusPayload is carried by STATUS_CHANGED and GET_CONFIG responses.
type StatusPayload struct {
	IsEnabled bool `json:"isEnabled"`
}

// AuthStatusPayload is carried by AUTH_STATUS_CHANGED.
type AuthStatusPayload struct {
	IsAuthenticated bool `json:"isAuthenticated"`
}

// AddLogPayload is carried by ADD_LOG.
type AddLogPayload struct {
	Message  string `json:"message"`
	LogType  string `json:"logType"`
	Category string `json:"category,omitempty"`
}

// ScanFilePayload is carried by SCAN_FILE.
type ScanFilePayload struct {
	FileName string `json:"fileName"`
	FileData []byte `json:"fileData"`
}
