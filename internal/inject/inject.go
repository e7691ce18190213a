// Package inject implements the paste orchestrator: given a history entry,
// it suspends global hotkeys, saves the current clipboard, writes the entry,
// restores focus to the requesting application, synthesizes a paste
// keystroke and restores the previous clipboard state.
//
// The orchestrator is single-flight: at most one injection may be in flight;
// concurrent calls are rejected with ErrBusy, never queued or interleaved.
// Two interleaved snapshot/restore sequences would corrupt each other's
// saved state.
package inject

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.klb.dev/reclip/internal/clip"
	"go.klb.dev/reclip/internal/history"
	"go.klb.dev/reclip/internal/hotkey"
	"go.klb.dev/reclip/internal/snapshot"
)

// Sentinel errors, matchable with errors.Is on Result.Cause.
var (
	// ErrBusy means an injection is already in flight.
	ErrBusy = errors.New("inject: paste already in flight")

	// ErrPermissionDenied means the OS has not granted synthetic-input
	// privileges. Surfaced to the user, never retried automatically.
	ErrPermissionDenied = errors.New("inject: synthetic input not authorized")

	// ErrInjectionFailed means every keystroke strategy failed. The
	// clipboard write succeeded, so the content remains available for a
	// manual paste.
	ErrInjectionFailed = errors.New("inject: all keystroke strategies failed")
)

// Outcome classifies an injection attempt.
type Outcome string

const (
	// OutcomeSuccess: keystroke delivered, clipboard restored.
	OutcomeSuccess Outcome = "success"
	// OutcomeDegraded: the entry is on the clipboard but no keystroke was
	// synthesized; a manual paste still works.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeBusy: another injection is in flight; nothing was touched.
	OutcomeBusy Outcome = "busy"
	// OutcomeFailed: a precondition failed before the keystroke stage;
	// clipboard restored where a write had occurred.
	OutcomeFailed Outcome = "failed"
)

// Result summarises one Inject call.
type Result struct {
	Outcome Outcome
	// Cause carries the triggering error for non-success outcomes.
	Cause error
	// RebindFailures lists hotkey bindings that could not be restored on
	// resume. A partial rebind does not change the outcome.
	RebindFailures []hotkey.RebindError
}

// FocusTarget identifies the application that held input focus when the
// user's request was issued. Captured at request time, not at inject time:
// the engine's own UI may have taken focus since.
type FocusTarget struct {
	PID  int
	Name string
}

// IsZero reports whether no target was captured.
func (t FocusTarget) IsZero() bool { return t.PID == 0 && t.Name == "" }

// FocusController abstracts foreground-application queries and activation.
// Activation strategies escalate: direct activation, then an all-windows
// activation, then a relaunch-style activation.
type FocusController interface {
	Frontmost() (FocusTarget, error)
	Activate(t FocusTarget) error
	ActivateAll(t FocusTarget) error
	Relaunch(t FocusTarget) error
}

// Keystroker synthesizes the paste key-chord into the foreground
// application. Strategies are tried in order; the first success wins.
type Keystroker interface {
	Name() string
	PasteChord() error
}

// PermissionGate reports whether synthetic-input privileges are currently
// granted by the OS.
type PermissionGate interface {
	SyntheticInputAllowed() bool
}

// Suppressor is the watcher's re-entrancy guard.
type Suppressor interface {
	SuppressUntil(deadline time.Time)
}

// Hotkeys is the suspend/resume surface of the hotkey subsystem.
type Hotkeys interface {
	Suspend()
	Resume() hotkey.ResumeResult
}

// Timings are the named wall-clock waits in the inject sequence. The
// correct values are environment-dependent; these are deliberately
// conservative and every one is configurable.
type Timings struct {
	// SuppressWindow covers the orchestrator's write/restore pair so the
	// watcher does not record them as new entries.
	SuppressWindow time.Duration
	// ClipboardSettle lets the clipboard write propagate before focus work.
	ClipboardSettle time.Duration
	// FocusSettle is the delay before verifying a focus activation.
	FocusSettle time.Duration
	// PasteSettle lets the target application consume the clipboard before
	// the original content is restored.
	PasteSettle time.Duration
}

// DefaultTimings returns the conservative defaults.
func DefaultTimings() Timings {
	return Timings{
		SuppressWindow:  3 * time.Second,
		ClipboardSettle: 150 * time.Millisecond,
		FocusSettle:     200 * time.Millisecond,
		PasteSettle:     300 * time.Millisecond,
	}
}

func (t Timings) withDefaults() Timings {
	d := DefaultTimings()
	if t.SuppressWindow <= 0 {
		t.SuppressWindow = d.SuppressWindow
	}
	if t.ClipboardSettle <= 0 {
		t.ClipboardSettle = d.ClipboardSettle
	}
	if t.FocusSettle <= 0 {
		t.FocusSettle = d.FocusSettle
	}
	if t.PasteSettle <= 0 {
		t.PasteSettle = d.PasteSettle
	}
	return t
}

// inFlight is the single mutable token for an active injection.
type inFlight struct {
	entryID string
	saved   snapshot.Snapshot
	wrote   bool
}

// Orchestrator runs the inject state machine. All collaborators are
// injected so the machine is testable without a live OS.
type Orchestrator struct {
	clipboard clip.Backend
	suppress  Suppressor
	hotkeys   Hotkeys
	focus     FocusController
	perm      PermissionGate
	strokes   []Keystroker
	timings   Timings

	mu     sync.Mutex
	flight *inFlight

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// New creates an orchestrator. strokes are tried in order; focus may be nil
// when no focus control is available.
func New(
	backend clip.Backend,
	suppress Suppressor,
	hotkeys Hotkeys,
	focus FocusController,
	perm PermissionGate,
	strokes []Keystroker,
	timings Timings,
) *Orchestrator {
	return &Orchestrator{
		clipboard: backend,
		suppress:  suppress,
		hotkeys:   hotkeys,
		focus:     focus,
		perm:      perm,
		strokes:   strokes,
		timings:   timings.withDefaults(),
		now:       time.Now,
		sleep:     sleepFor,
	}
}

// sleepFor waits for d or until ctx is cancelled. These are real wall-clock
// settle waits for external OS state, cancellable only by process shutdown.
func sleepFor(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Busy reports whether an injection is currently in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.flight != nil
}

// Inject runs the full paste sequence for entry. target is the application
// that held focus when the user's request was issued.
//
// Regardless of which step fails, the clipboard restore and hotkey resume
// run before the state returns to idle. The one documented exception: under
// OutcomeDegraded (permission denied or all keystroke strategies failed)
// the entry's payload is intentionally left on the clipboard so a manual
// paste still works.
func (o *Orchestrator) Inject(ctx context.Context, entry history.Entry, target FocusTarget) (res Result) {
	o.mu.Lock()
	if o.flight != nil {
		o.mu.Unlock()
		return Result{Outcome: OutcomeBusy, Cause: ErrBusy}
	}
	fl := &inFlight{entryID: entry.ID}
	o.flight = fl
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.flight = nil
		o.mu.Unlock()
	}()

	slog.Debug("inject starting", "entry", entry.ID, "target", target.Name)

	// Permission gate. Without synthetic-input privileges no keystroke can
	// be delivered; write the entry to the clipboard anyway so the user
	// keeps a manual path, and report the degraded outcome. Hotkeys are
	// never suspended on this path.
	if !o.perm.SyntheticInputAllowed() {
		o.suppress.SuppressUntil(o.now().Add(o.timings.SuppressWindow))
		if err := o.clipboard.Write(entry.Payload); err != nil {
			slog.Error("clipboard write failed after permission denial", "err", err)
			return Result{Outcome: OutcomeFailed, Cause: fmt.Errorf("clipboard write: %w", err)}
		}
		slog.Warn("synthetic input not authorized, entry left on clipboard", "entry", entry.ID)
		return Result{Outcome: OutcomeDegraded, Cause: ErrPermissionDenied}
	}

	o.hotkeys.Suspend()

	// Guaranteed-cleanup region. A stuck suspended hotkey state or an
	// un-restored clipboard is a severe defect, not an acceptable side
	// effect of a failed paste.
	defer func() {
		if fl.wrote && res.Outcome != OutcomeDegraded {
			o.suppress.SuppressUntil(o.now().Add(o.timings.SuppressWindow))
			if err := o.clipboard.Write(fl.saved); err != nil {
				slog.Error("clipboard restore failed", "err", err)
			}
		}
		rr := o.hotkeys.Resume()
		res.RebindFailures = rr.Failed
	}()

	saved, err := o.clipboard.Read()
	if err != nil {
		return Result{Outcome: OutcomeFailed, Cause: fmt.Errorf("clipboard snapshot: %w", err)}
	}
	fl.saved = saved

	o.suppress.SuppressUntil(o.now().Add(o.timings.SuppressWindow))

	fl.wrote = true
	if err := o.clipboard.Write(entry.Payload); err != nil {
		return Result{Outcome: OutcomeFailed, Cause: fmt.Errorf("clipboard write: %w", err)}
	}
	o.sleep(ctx, o.timings.ClipboardSettle)

	o.restoreFocus(ctx, target)

	if err := o.pasteChord(); err != nil {
		return Result{Outcome: OutcomeDegraded, Cause: err}
	}

	// Let the target application consume the clipboard before the restore
	// write replaces it.
	o.sleep(ctx, o.timings.PasteSettle)

	slog.Info("inject complete", "entry", entry.ID, "target", target.Name)
	return Result{Outcome: OutcomeSuccess}
}

// restoreFocus tries the escalating activation strategies and verifies each
// by re-querying the foreground process after a settle delay. Verification
// failure is logged but never aborts the sequence: a best-effort paste into
// whatever currently has focus beats none.
func (o *Orchestrator) restoreFocus(ctx context.Context, target FocusTarget) {
	if o.focus == nil || target.IsZero() {
		return
	}

	strategies := []struct {
		name string
		run  func(FocusTarget) error
	}{
		{"activate", o.focus.Activate},
		{"activate-all-windows", o.focus.ActivateAll},
		{"relaunch", o.focus.Relaunch},
	}

	for _, s := range strategies {
		if err := s.run(target); err != nil {
			slog.Debug("focus strategy failed", "strategy", s.name, "err", err)
			continue
		}
		o.sleep(ctx, o.timings.FocusSettle)
		cur, err := o.focus.Frontmost()
		if err == nil && cur.PID == target.PID {
			slog.Debug("focus restored", "strategy", s.name, "app", target.Name)
			return
		}
		slog.Debug("focus verification failed, escalating",
			"strategy", s.name, "want", target.Name, "got", cur.Name)
	}
	slog.Warn("focus not verifiably restored, pasting into current foreground",
		"app", target.Name)
}

// pasteChord tries the keystroke strategies in order; exactly one success
// is required.
func (o *Orchestrator) pasteChord() error {
	for _, ks := range o.strokes {
		if err := ks.PasteChord(); err != nil {
			slog.Warn("keystroke strategy failed", "strategy", ks.Name(), "err", err)
			continue
		}
		slog.Debug("paste keystroke delivered", "strategy", ks.Name())
		return nil
	}
	return ErrInjectionFailed
}
