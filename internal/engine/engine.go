// Package engine wires the watcher, history store, hotkey subsystem and
// paste orchestrator into one owned component and exposes the engine
// surface consumed by the IPC layer and by hotkey handlers.
//
// It is transport-agnostic: subscribers register to receive new-entry
// events, and operations (inject, pin, delete, list) are plain method
// calls.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.klb.dev/reclip/internal/clip"
	"go.klb.dev/reclip/internal/history"
	"go.klb.dev/reclip/internal/hotkey"
	"go.klb.dev/reclip/internal/inject"
	"go.klb.dev/reclip/internal/watcher"
)

// Subscriber receives new-entry events. OnNewEntry must be non-blocking:
// it is invoked on the watcher's sampling goroutine.
type Subscriber interface {
	ID() string
	OnNewEntry(history.Entry)
}

// Config holds the engine's tunables.
type Config struct {
	// Capacity bounds the number of unpinned history entries (0 = unbounded).
	Capacity int
	// PollInterval is the watcher sampling period.
	PollInterval time.Duration
	// MaxPayload caps captured payload size in bytes.
	MaxPayload int
	// Timings configure the inject sequence's settle waits.
	Timings inject.Timings
	// PasteChord, when non-empty, binds a global chord that injects the
	// most recent entry (e.g. "ctrl+shift+v").
	PasteChord string
}

// Engine owns the capture/injection components.
type Engine struct {
	backend clip.Backend
	store   *history.Store
	watch   *watcher.Watcher
	hotkeys *hotkey.Manager
	orch    *inject.Orchestrator
	focus   inject.FocusController
	chord   string
	started time.Time

	mu   sync.RWMutex
	subs map[string]Subscriber
}

// New assembles an engine from its collaborators. focus may be nil
// (headless); persist may be nil.
func New(
	cfg Config,
	backend clip.Backend,
	registrar hotkey.Registrar,
	focus inject.FocusController,
	perm inject.PermissionGate,
	strokes []inject.Keystroker,
	persist history.Persister,
) *Engine {
	e := &Engine{
		backend: backend,
		store:   history.New(cfg.Capacity, persist),
		hotkeys: hotkey.NewManager(registrar),
		focus:   focus,
		chord:   cfg.PasteChord,
		started: time.Now(),
		subs:    make(map[string]Subscriber),
	}

	var frontmost func() string
	if focus != nil {
		frontmost = func() string {
			t, err := focus.Frontmost()
			if err != nil {
				return ""
			}
			return t.Name
		}
	}
	e.watch = watcher.New(backend, e.capture, watcher.Config{
		Interval:   cfg.PollInterval,
		MaxPayload: cfg.MaxPayload,
		Frontmost:  frontmost,
	})
	e.orch = inject.New(backend, e.watch, e.hotkeys, focus, perm, strokes, cfg.Timings)
	return e
}

// Run binds the paste chord (if configured) and samples the clipboard until
// ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	if e.chord != "" {
		c, err := hotkey.ParseChord(e.chord)
		if err != nil {
			return err
		}
		// The run context, not Background: the orchestrator's settle waits
		// must stop blocking once the process is shutting down.
		err = e.hotkeys.Bind(c, func() {
			res := e.InjectLatest(ctx)
			if res.Outcome != inject.OutcomeSuccess {
				slog.Warn("hotkey paste did not complete",
					"outcome", res.Outcome, "cause", res.Cause)
			}
		})
		if err != nil {
			// The daemon is still useful without the chord: IPC paste
			// requests keep working.
			slog.Error("paste chord unavailable", "chord", e.chord, "err", err)
		}
	}
	defer e.hotkeys.Close()

	slog.Info("engine started",
		"backend", e.backend.Name(),
		"capacity", e.store.Capacity(),
	)
	e.watch.Run(ctx)
	return nil
}

// capture is the watcher's emit callback.
func (e *Engine) capture(c watcher.Capture) {
	entry := e.store.Capture(c.Snapshot, c.SourceHint)
	logCapture("clipboard captured", entry)

	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, s := range e.subs {
		s.OnNewEntry(entry)
	}
}

// Subscribe registers a new-entry subscriber.
func (e *Engine) Subscribe(s Subscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs[s.ID()] = s
}

// Unsubscribe removes a subscriber by id.
func (e *Engine) Unsubscribe(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.subs, id)
}

// Inject performs the full paste sequence for the entry with the given id.
// The foreground application is captured now — at request time — so the
// orchestrator can restore focus to it even if another window takes focus
// before the keystroke lands.
func (e *Engine) Inject(ctx context.Context, entryID string) inject.Result {
	entry, err := e.store.Get(entryID)
	if err != nil {
		return inject.Result{Outcome: inject.OutcomeFailed, Cause: err}
	}
	return e.orch.Inject(ctx, entry, e.requestTarget())
}

// InjectLatest injects the most recent entry.
func (e *Engine) InjectLatest(ctx context.Context) inject.Result {
	entries := e.store.Entries()
	if len(entries) == 0 {
		return inject.Result{Outcome: inject.OutcomeFailed, Cause: history.ErrNotFound}
	}
	return e.orch.Inject(ctx, entries[0], e.requestTarget())
}

func (e *Engine) requestTarget() inject.FocusTarget {
	if e.focus == nil {
		return inject.FocusTarget{}
	}
	t, err := e.focus.Frontmost()
	if err != nil {
		slog.Debug("frontmost query failed at request time", "err", err)
		return inject.FocusTarget{}
	}
	return t
}

// Entries returns the history, newest first.
func (e *Engine) Entries() []history.Entry { return e.store.Entries() }

// Get returns one entry by id.
func (e *Engine) Get(id string) (history.Entry, error) { return e.store.Get(id) }

// Pin toggles an entry's pinned flag.
func (e *Engine) Pin(id string, pinned bool) error { return e.store.SetPinned(id, pinned) }

// Delete removes an entry.
func (e *Engine) Delete(id string) error { return e.store.Delete(id) }

// Status is a point-in-time engine summary.
type Status struct {
	Backend     string        `json:"backend"`
	Entries     int           `json:"entries"`
	Pinned      int           `json:"pinned"`
	Capacity    int           `json:"capacity"`
	HotkeyState hotkey.State  `json:"hotkey_state"`
	Chords      []string      `json:"chords,omitempty"`
	Busy        bool          `json:"busy"`
	Uptime      time.Duration `json:"uptime"`
}

// Status reports the engine's current state.
func (e *Engine) Status() Status {
	entries := e.store.Entries()
	pinned := 0
	for _, en := range entries {
		if en.Pinned {
			pinned++
		}
	}
	chords := e.hotkeys.Chords()
	names := make([]string, len(chords))
	for i, c := range chords {
		names[i] = c.String()
	}
	return Status{
		Backend:     e.backend.Name(),
		Entries:     len(entries),
		Pinned:      pinned,
		Capacity:    e.store.Capacity(),
		HotkeyState: e.hotkeys.State(),
		Chords:      names,
		Busy:        e.orch.Busy(),
		Uptime:      time.Since(e.started),
	}
}
