//go:build darwin

package clip

// #cgo CFLAGS: -x objective-c
// #cgo LDFLAGS: -framework Cocoa
// #import <Cocoa/Cocoa.h>
//
// NSInteger reclip_changeCount() {
//     return [[NSPasteboard generalPasteboard] changeCount];
// }
import "C"

import (
	"log/slog"

	"golang.design/x/clipboard"

	"go.klb.dev/reclip/internal/snapshot"
)

type darwinBackend struct{}

// New returns the macOS clipboard backend.
// clipboard.Init is called here rather than in init() so that CLI
// sub-commands (list, pin, status) that never construct a Backend don't log
// spurious warnings on headless systems.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard init failed", "err", err)
	}
	return &darwinBackend{}
}

func (b *darwinBackend) Name() string { return "macOS NSPasteboard" }

// Revision surfaces NSPasteboard's changeCount, which the OS bumps on every
// pasteboard write by any process.
func (b *darwinBackend) Revision() uint64 {
	return uint64(C.reclip_changeCount())
}

func (b *darwinBackend) Read() (snapshot.Snapshot, error) { return readSystem() }
func (b *darwinBackend) Write(s snapshot.Snapshot) error  { return writeSystem(s) }
func (b *darwinBackend) Close()                           {}
