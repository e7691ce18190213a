//go:build windows

package clip

import (
	"log/slog"

	"golang.design/x/clipboard"
	"golang.org/x/sys/windows"

	"go.klb.dev/reclip/internal/snapshot"
)

var (
	user32                         = windows.NewLazySystemDLL("user32.dll")
	procGetClipboardSequenceNumber = user32.NewProc("GetClipboardSequenceNumber")
)

type windowsBackend struct{}

// New returns the Windows clipboard backend. The revision counter comes from
// GetClipboardSequenceNumber, which the OS bumps on every clipboard write.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard init failed", "err", err)
	}
	return &windowsBackend{}
}

func (b *windowsBackend) Name() string { return "Windows Clipboard" }

func (b *windowsBackend) Revision() uint64 {
	seq, _, _ := procGetClipboardSequenceNumber.Call()
	return uint64(seq)
}

func (b *windowsBackend) Read() (snapshot.Snapshot, error) { return readSystem() }
func (b *windowsBackend) Write(s snapshot.Snapshot) error  { return writeSystem(s) }
func (b *windowsBackend) Close()                           {}
