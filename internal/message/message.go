// Package message defines the reclip IPC control protocol.
//
// All messages are newline-delimited JSON; snapshot payloads are
// base64-encoded so binary content is safe to embed in JSON strings.
// Each message is exactly one line: <json>\n
package message

import (
	"encoding/json"
	"fmt"
	"time"

	"go.klb.dev/reclip/internal/history"
	"go.klb.dev/reclip/internal/snapshot"
)

// Type identifies the kind of message.
type Type string

const (
	TypeList           Type = "LIST"
	TypeListResponse   Type = "LIST_RESPONSE"
	TypePaste          Type = "PASTE"
	TypePasteResponse  Type = "PASTE_RESPONSE"
	TypePin            Type = "PIN"
	TypeDelete         Type = "DELETE"
	TypeStatus         Type = "STATUS"
	TypeStatusResponse Type = "STATUS_RESPONSE"
	TypeOK             Type = "OK"
	TypeError          Type = "ERROR"
)

// EntrySummary is the list/paste view of a history entry. Payload content
// is carried as a preview only; full payloads never cross the IPC socket.
type EntrySummary struct {
	ID         string        `json:"id"`
	Kind       snapshot.Kind `json:"kind"`
	Preview    string        `json:"preview"`
	SizeBytes  int           `json:"size_bytes"`
	CapturedAt time.Time     `json:"captured_at"`
	Source     string        `json:"source,omitempty"`
	Pinned     bool          `json:"pinned,omitempty"`
}

// Summarize converts a history entry to its wire summary.
func Summarize(e history.Entry) EntrySummary {
	return EntrySummary{
		ID:         e.ID,
		Kind:       e.Payload.Kind,
		Preview:    e.Payload.Preview(),
		SizeBytes:  e.Payload.Size(),
		CapturedAt: e.CapturedAt,
		Source:     e.SourceHint,
		Pinned:     e.Pinned,
	}
}

// StatusInfo mirrors the engine's status for the wire.
type StatusInfo struct {
	Backend     string   `json:"backend"`
	Entries     int      `json:"entries"`
	Pinned      int      `json:"pinned"`
	Capacity    int      `json:"capacity"`
	HotkeyState string   `json:"hotkey_state"`
	Chords      []string `json:"chords,omitempty"`
	Busy        bool     `json:"busy"`
	UptimeSecs  int64    `json:"uptime_secs"`
}

// Message is the top-level wire envelope.
type Message struct {
	// Always present
	Type Type `json:"type"`

	// PASTE / PIN / DELETE
	EntryID string `json:"entry_id,omitempty"`

	// PIN
	Pinned bool `json:"pinned,omitempty"`

	// LIST
	Limit int `json:"limit,omitempty"`

	// LIST_RESPONSE
	Entries []EntrySummary `json:"entries,omitempty"`

	// PASTE_RESPONSE — the orchestrator outcome plus any hotkey chords
	// that failed to rebind on resume.
	Outcome       string   `json:"outcome,omitempty"`
	Detail        string   `json:"detail,omitempty"`
	FailedRebinds []string `json:"failed_rebinds,omitempty"`

	// STATUS_RESPONSE
	Status *StatusInfo `json:"status,omitempty"`

	// ERROR
	Error string `json:"error,omitempty"`
}

// Encode serialises the message to JSON without a trailing newline.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode deserialises a message from raw JSON bytes.
func Decode(b []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("message decode: %w", err)
	}
	return &m, nil
}

// Err builds an ERROR message.
func Err(err error) *Message {
	return &Message{Type: TypeError, Error: err.Error()}
}
