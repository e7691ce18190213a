//go:build !darwin && !linux && !windows

package inject

// Headless stubs: no synthetic input, no focus control.

type deniedGate struct{}

// NewPermissionGate reports synthetic input as unavailable.
func NewPermissionGate() PermissionGate { return deniedGate{} }

func (deniedGate) SyntheticInputAllowed() bool { return false }

// NewFocusController returns nil; the orchestrator skips focus restoration.
func NewFocusController() FocusController { return nil }

// Keystrokers returns no strategies.
func Keystrokers() []Keystroker { return nil }
