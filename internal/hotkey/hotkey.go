// Package hotkey manages global key-chord listeners with a suspend/resume
// protocol.
//
// The paste orchestrator suspends all bindings around every injection:
// synthetic paste keystrokes are themselves key events, and a registered
// chord overlapping the injected modifier state could re-trigger the UI
// mid-injection. Suspension is mandatory, not optional.
package hotkey

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// State is the subsystem's suspend state. Reset to Active on construction;
// never persisted.
type State string

const (
	Active    State = "active"
	Suspended State = "suspended"
)

// Chord is a portable key-chord description: lower-case modifier names plus
// a single key name, e.g. {Mods: ["ctrl","shift"], Key: "v"}.
type Chord struct {
	Mods []string
	Key  string
}

// ParseChord parses a "ctrl+shift+v" style string.
func ParseChord(s string) (Chord, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	if len(parts) < 2 {
		return Chord{}, fmt.Errorf("chord %q: need at least one modifier and a key", s)
	}
	c := Chord{
		Mods: parts[:len(parts)-1],
		Key:  parts[len(parts)-1],
	}
	for _, m := range c.Mods {
		if m == "" {
			return Chord{}, fmt.Errorf("chord %q: empty modifier", s)
		}
	}
	if c.Key == "" {
		return Chord{}, fmt.Errorf("chord %q: empty key", s)
	}
	return c, nil
}

func (c Chord) String() string {
	return strings.Join(append(append([]string{}, c.Mods...), c.Key), "+")
}

// Registrar abstracts OS hotkey registration so the manager can be tested
// without a live event tap. Register installs the chord and invokes handler
// on every press; the returned function removes the registration.
type Registrar interface {
	Register(c Chord, handler func()) (unregister func() error, err error)
}

// RebindError reports one binding that could not be restored on Resume.
type RebindError struct {
	Chord Chord
	Err   error
}

func (e RebindError) Error() string {
	return fmt.Sprintf("rebind %s: %v", e.Chord, e.Err)
}

// ResumeResult summarises a Resume call. A single broken binding must not
// disable the others, so failures are reported per-binding instead of
// aborting.
type ResumeResult struct {
	Restored int
	Failed   []RebindError
}

// Partial reports whether some, but not all, bindings were restored.
func (r ResumeResult) Partial() bool {
	return len(r.Failed) > 0 && r.Restored > 0
}

type binding struct {
	chord      Chord
	handler    func()
	unregister func() error // nil while suspended or never registered
}

// Manager owns a set of global key-chord bindings and their suspend state.
type Manager struct {
	reg Registrar

	mu       sync.Mutex
	state    State
	bindings []*binding
}

// NewManager creates a manager in the Active state.
func NewManager(reg Registrar) *Manager {
	return &Manager{reg: reg, state: Active}
}

// State returns the current suspend state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Bind registers a chord with the OS and retains it across suspend/resume
// cycles. While suspended, the binding is retained but not registered until
// the next Resume.
func (m *Manager) Bind(c Chord, handler func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := &binding{chord: c, handler: handler}
	if m.state == Active {
		unreg, err := m.reg.Register(c, handler)
		if err != nil {
			return fmt.Errorf("register %s: %w", c, err)
		}
		b.unregister = unreg
	}
	m.bindings = append(m.bindings, b)
	slog.Info("hotkey bound", "chord", c.String(), "state", m.state)
	return nil
}

// Suspend unregisters all bindings from the OS, retaining them in memory.
// Idempotent: suspending while suspended is a no-op.
func (m *Manager) Suspend() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Suspended {
		return
	}
	for _, b := range m.bindings {
		if b.unregister == nil {
			continue
		}
		if err := b.unregister(); err != nil {
			slog.Warn("hotkey unregister failed", "chord", b.chord.String(), "err", err)
		}
		b.unregister = nil
	}
	m.state = Suspended
	slog.Debug("hotkeys suspended", "bindings", len(m.bindings))
}

// Resume re-registers all retained bindings. Idempotent: resuming while
// active is a no-op. Per-binding failures are logged and reported in the
// result; the remaining bindings are still restored.
func (m *Manager) Resume() ResumeResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	var res ResumeResult
	if m.state == Active {
		return res
	}
	for _, b := range m.bindings {
		unreg, err := m.reg.Register(b.chord, b.handler)
		if err != nil {
			slog.Error("hotkey rebind failed", "chord", b.chord.String(), "err", err)
			res.Failed = append(res.Failed, RebindError{Chord: b.chord, Err: err})
			continue
		}
		b.unregister = unreg
		res.Restored++
	}
	m.state = Active
	slog.Debug("hotkeys resumed", "restored", res.Restored, "failed", len(res.Failed))
	return res
}

// Chords returns the currently retained chords, registered or not.
func (m *Manager) Chords() []Chord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Chord, len(m.bindings))
	for i, b := range m.bindings {
		out[i] = b.chord
	}
	return out
}

// Close unregisters everything and drops the bindings.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bindings {
		if b.unregister != nil {
			_ = b.unregister()
			b.unregister = nil
		}
	}
	m.bindings = nil
}
