// Package snapshot defines the immutable clipboard value type shared by the
// watcher, history store and paste orchestrator.
//
// A Snapshot captures one moment of clipboard state as a tagged union:
// nothing, plain text, or an image with a format tag. Snapshots are passed
// and stored by value; the payload slice must not be mutated after
// construction.
package snapshot

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Kind discriminates the snapshot union.
type Kind string

const (
	KindNone  Kind = "none"
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Snapshot is one captured clipboard state.
type Snapshot struct {
	Kind Kind
	// Data holds UTF-8 text for KindText and raw encoded image bytes for
	// KindImage. Nil for KindNone.
	Data []byte
	// Format is the image format tag (e.g. "image/png"). Empty unless
	// Kind is KindImage.
	Format string
}

// None is the empty snapshot.
func None() Snapshot { return Snapshot{Kind: KindNone} }

// Text returns a text snapshot.
func Text(s string) Snapshot {
	return Snapshot{Kind: KindText, Data: []byte(s)}
}

// Image returns an image snapshot with the given format tag.
func Image(data []byte, format string) Snapshot {
	return Snapshot{Kind: KindImage, Data: data, Format: format}
}

// IsNone reports whether the snapshot carries no content.
func (s Snapshot) IsNone() bool { return s.Kind == KindNone || s.Kind == "" }

// Size returns the payload size in bytes.
func (s Snapshot) Size() int { return len(s.Data) }

// String returns the text payload for KindText snapshots, "" otherwise.
func (s Snapshot) String() string {
	if s.Kind != KindText {
		return ""
	}
	return string(s.Data)
}

// Equal reports content equality: same kind, same payload bytes and, for
// images, the same format tag.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.IsNone() && o.IsNone() {
		return true
	}
	return s.Kind == o.Kind && s.Format == o.Format && bytes.Equal(s.Data, o.Data)
}

// jsonSnapshot is the wire representation. Payloads are base64-encoded so
// binary image data is safe to embed in JSON strings.
type jsonSnapshot struct {
	Kind   Kind   `json:"kind"`
	Data   string `json:"data,omitempty"`
	Format string `json:"format,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	k := s.Kind
	if k == "" {
		k = KindNone
	}
	return json.Marshal(jsonSnapshot{
		Kind:   k,
		Data:   base64.StdEncoding.EncodeToString(s.Data),
		Format: s.Format,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var js jsonSnapshot
	if err := json.Unmarshal(b, &js); err != nil {
		return fmt.Errorf("snapshot decode: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(js.Data)
	if err != nil {
		return fmt.Errorf("snapshot payload decode: %w", err)
	}
	s.Kind = js.Kind
	s.Format = js.Format
	if len(data) == 0 {
		data = nil
	}
	s.Data = data
	return nil
}

// Preview returns a short human-readable description of the snapshot for
// logging: up to 120 characters of text, or a byte count for images.
func (s Snapshot) Preview() string {
	switch s.Kind {
	case KindText:
		p := string(s.Data)
		if len(p) > 120 {
			// Back up to a rune boundary so the cut never emits a split
			// UTF-8 sequence.
			cut := 120
			for cut > 0 && !utf8.RuneStart(p[cut]) {
				cut--
			}
			p = p[:cut] + "…"
		}
		return p
	case KindImage:
		return fmt.Sprintf("%s (%d bytes)", s.Format, len(s.Data))
	default:
		return "(empty)"
	}
}
