// Package clip provides a unified interface to the system clipboard across
// platforms. Build constraints select the appropriate implementation:
//
//	clip_darwin.go   — macOS via golang.design/x/clipboard + cgo changeCount
//	clip_windows.go  — Windows via golang.design/x/clipboard + GetClipboardSequenceNumber
//	clip_linux.go    — Linux via golang.design/x/clipboard, content-derived revision
//	clip_other.go    — headless / container stub
//
// The Memory backend (memory.go) is an in-process implementation used by
// tests and available on every platform.
package clip

import "go.klb.dev/reclip/internal/snapshot"

// Backend is the interface that all platform clipboard implementations satisfy.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// Revision returns the clipboard's revision counter. The counter is
	// monotonically increasing and advances on every clipboard write,
	// including the process's own. It may jump by more than 1 between
	// calls; callers must treat gaps as normal.
	Revision() uint64

	// Read returns the current clipboard contents. When both an image and
	// a text representation are present the image wins: screenshot tools
	// and image copies frequently also advertise a textual description.
	// Returns a KindNone snapshot if the clipboard is empty or holds only
	// unsupported types.
	Read() (snapshot.Snapshot, error)

	// Write replaces the clipboard contents with the snapshot's payload.
	// Writing a KindNone snapshot clears the clipboard.
	Write(snapshot.Snapshot) error

	// Close releases any resources held by the backend.
	Close()
}
