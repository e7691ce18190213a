//go:build darwin || linux || windows

package inject

import (
	"runtime"
	"sync"

	"github.com/micmonay/keybd_event"
)

// hardwareKeystroker posts raw key-down/key-up events for the paste chord
// with the platform's modifier mask: Cmd+V on macOS, Ctrl+V elsewhere.
// Fallback for when the scripting channel reports an error.
type hardwareKeystroker struct {
	once sync.Once
	kb   keybd_event.KeyBonding
	err  error
}

func newHardwareKeystroker() *hardwareKeystroker {
	return &hardwareKeystroker{}
}

func (h *hardwareKeystroker) Name() string { return "raw key events" }

func (h *hardwareKeystroker) PasteChord() error {
	h.once.Do(func() {
		h.kb, h.err = keybd_event.NewKeyBonding()
		if h.err != nil {
			return
		}
		h.kb.SetKeys(keybd_event.VK_V)
		if runtime.GOOS == "darwin" {
			h.kb.HasSuper(true)
		} else {
			h.kb.HasCTRL(true)
		}
	})
	if h.err != nil {
		return h.err
	}
	return h.kb.Launching()
}
