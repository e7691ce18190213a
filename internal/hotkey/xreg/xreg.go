//go:build darwin || linux || windows

// Package xreg is the OS-backed hotkey registrar, built on
// golang.design/x/hotkey.
//
// It is a leaf package linked only by the daemon entry point: x/hotkey
// opens the display connection at package load and, on linux, aborts the
// whole process when no X11 display is reachable. Keeping the import out
// of internal/hotkey lets the manager and every package built on it run
// (and test) without a display.
package xreg

import (
	"fmt"

	hk "golang.design/x/hotkey"

	"go.klb.dev/reclip/internal/hotkey"
)

type registrar struct{}

// New returns the OS-backed registrar.
func New() hotkey.Registrar { return registrar{} }

func (registrar) Register(c hotkey.Chord, handler func()) (func() error, error) {
	mods := make([]hk.Modifier, 0, len(c.Mods))
	for _, name := range c.Mods {
		mod, ok := modifierFor(name)
		if !ok {
			return nil, fmt.Errorf("unknown modifier %q", name)
		}
		mods = append(mods, mod)
	}
	key, ok := keyFor(c.Key)
	if !ok {
		return nil, fmt.Errorf("unknown key %q", c.Key)
	}

	h := hk.New(mods, key)
	if err := h.Register(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-h.Keydown():
				// Handlers must not block the event-delivery context.
				go handler()
			}
		}
	}()

	return func() error {
		close(done)
		h.Unregister()
		return nil
	}, nil
}

var keyNames = map[string]hk.Key{
	"a": hk.KeyA, "b": hk.KeyB, "c": hk.KeyC, "d": hk.KeyD,
	"e": hk.KeyE, "f": hk.KeyF, "g": hk.KeyG, "h": hk.KeyH,
	"i": hk.KeyI, "j": hk.KeyJ, "k": hk.KeyK, "l": hk.KeyL,
	"m": hk.KeyM, "n": hk.KeyN, "o": hk.KeyO, "p": hk.KeyP,
	"q": hk.KeyQ, "r": hk.KeyR, "s": hk.KeyS, "t": hk.KeyT,
	"u": hk.KeyU, "v": hk.KeyV, "w": hk.KeyW, "x": hk.KeyX,
	"y": hk.KeyY, "z": hk.KeyZ,
	"0": hk.Key0, "1": hk.Key1, "2": hk.Key2, "3": hk.Key3,
	"4": hk.Key4, "5": hk.Key5, "6": hk.Key6, "7": hk.Key7,
	"8": hk.Key8, "9": hk.Key9,
	"space":  hk.KeySpace,
	"return": hk.KeyReturn, "enter": hk.KeyReturn,
	"escape": hk.KeyEscape, "esc": hk.KeyEscape,
	"tab":   hk.KeyTab,
	"up":    hk.KeyUp,
	"down":  hk.KeyDown,
	"left":  hk.KeyLeft,
	"right": hk.KeyRight,
}

func keyFor(name string) (hk.Key, bool) {
	k, ok := keyNames[name]
	return k, ok
}
