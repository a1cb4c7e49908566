// Package voice manages the real-time voice session: a peer audio transport
// with an HTTPS signaling handshake, a bidirectional JSON event channel,
// transcript-triggered command dispatch, and barge-in cancellation.
package voice

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Event types on the data channel. Every control message is a JSON object
// with a "type" discriminator.
const (
	// Outgoing.
	TypeSessionUpdate  = "session.update"
	TypeResponseCancel = "response.cancel"

	// Incoming: assistant output lifecycle.
	TypeResponseCreated   = "response.created"
	TypeAudioDelta        = "response.audio.delta"
	TypeResponseDone      = "response.done"
	TypeResponseCancelled = "response.cancelled"
	TypeError             = "error"

	// Incoming: user speech.
	TypeInputTranscriptDone = "input_transcript.completed"
)

// Event is one control message on the data channel. Only the fields relevant
// to the local state machine are decoded.
type Event struct {
	Type       string `json:"type"`
	EventID    string `json:"event_id,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

// NewEvent builds an outgoing event with a fresh id.
func NewEvent(eventType string) Event {
	return Event{Type: eventType, EventID: uuid.NewString()}
}

// Encode marshals the event for the data channel.
func (e Event) Encode() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		// Event is plain strings; this cannot fail in practice.
		return []byte(`{"type":"` + e.Type + `"}`)
	}
	return data
}

// DecodeEvent parses one data channel message. Malformed payloads yield an
// event with an empty type, which every classifier below ignores.
func DecodeEvent(data []byte) Event {
	var e Event
	_ = json.Unmarshal(data, &e)
	return e
}

// IsSpeakingStart reports whether the event marks the assistant starting to
// produce output.
func IsSpeakingStart(e Event) bool {
	switch e.Type {
	case TypeResponseCreated, TypeAudioDelta:
		return true
	}
	return false
}

// IsSpeakingEnd reports whether the event marks the assistant output ending,
// whether normally, by cancellation, or by error.
func IsSpeakingEnd(e Event) bool {
	switch e.Type {
	case TypeResponseDone, TypeResponseCancelled, TypeError:
		return true
	}
	return false
}

// IsFinalTranscript reports whether the event carries a completed user
// speech transcript.
func IsFinalTranscript(e Event) bool {
	return e.Type == TypeInputTranscriptDone && e.Transcript != ""
}
