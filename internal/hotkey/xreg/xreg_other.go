//go:build !darwin && !linux && !windows

package xreg

import (
	"errors"

	"go.klb.dev/reclip/internal/hotkey"
)

type unsupportedRegistrar struct{}

// New returns a registrar that rejects every registration. Headless
// environments have no global key-event source.
func New() hotkey.Registrar { return unsupportedRegistrar{} }

func (unsupportedRegistrar) Register(hotkey.Chord, func()) (func() error, error) {
	return nil, errors.New("global hotkeys unsupported on this platform")
}
