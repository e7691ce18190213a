// Package watcher detects external clipboard changes and forwards them as
// capture requests.
//
// The watcher samples the clipboard's revision counter on a fixed interval.
// OS clipboard-change notifications are not universally available, so
// polling is the portable mechanism; the interval bounds worst-case
// detection latency. The paste orchestrator uses SuppressUntil to keep its
// own clipboard write/restore pair out of the history.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.klb.dev/reclip/internal/clip"
	"go.klb.dev/reclip/internal/snapshot"
)

// ErrPayloadTooLarge marks a sample dropped for exceeding the payload
// ceiling. Surfaced in logs; sampling continues.
var ErrPayloadTooLarge = errors.New("watcher: payload over size ceiling")

const (
	// DefaultInterval is the sampling period.
	DefaultInterval = 300 * time.Millisecond

	// DefaultMaxPayload caps captured payload size. Pathological copies
	// (multi-hundred-megabyte selections) are dropped, not stored.
	DefaultMaxPayload = 64 * 1024 * 1024
)

// Capture is one detected external clipboard change.
type Capture struct {
	Snapshot snapshot.Snapshot
	// SourceHint names the front-most application at capture time, when a
	// focus-query collaborator is configured. May be empty.
	SourceHint string
}

// Config holds the watcher's tunables. Zero values select the defaults.
type Config struct {
	Interval   time.Duration
	MaxPayload int

	// Frontmost, when non-nil, is queried for the SourceHint on each
	// capture. It must be cheap and non-blocking.
	Frontmost func() string
}

// Watcher samples the clipboard revision counter and emits captures.
type Watcher struct {
	backend   clip.Backend
	emit      func(Capture)
	interval  time.Duration
	maxBytes  int
	frontmost func() string

	mu            sync.Mutex
	lastRev       uint64
	primed        bool
	suppressUntil time.Time

	now func() time.Time
}

// New creates a watcher that forwards captures to emit. The emit callback
// must not block: it runs on the sampling goroutine.
func New(backend clip.Backend, emit func(Capture), cfg Config) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.MaxPayload <= 0 {
		cfg.MaxPayload = DefaultMaxPayload
	}
	return &Watcher{
		backend:   backend,
		emit:      emit,
		interval:  cfg.Interval,
		maxBytes:  cfg.MaxPayload,
		frontmost: cfg.Frontmost,
		now:       time.Now,
	}
}

// Run samples on the configured interval until ctx is cancelled.
// The first sample primes the revision marker without emitting, so content
// already on the clipboard at startup is not recorded as a change.
func (w *Watcher) Run(ctx context.Context) {
	w.Sample()

	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.Sample()
		}
	}
}

// SuppressUntil ignores clipboard changes detected before deadline. The
// revision marker still advances during the window, so a suppressed change
// never fires retroactively once the window ends. Later deadlines win;
// an earlier deadline never shortens an active window.
func (w *Watcher) SuppressUntil(deadline time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if deadline.After(w.suppressUntil) {
		w.suppressUntil = deadline
	}
}

// Sample performs one detection pass: no-op if the revision counter is
// unchanged, otherwise classify and emit unless suppressed. Sampling
// failures are logged, never propagated — the loop keeps running.
func (w *Watcher) Sample() {
	rev := w.backend.Revision()

	w.mu.Lock()
	if !w.primed {
		w.primed = true
		w.lastRev = rev
		w.mu.Unlock()
		return
	}
	if rev == w.lastRev {
		w.mu.Unlock()
		return
	}
	// The counter can jump by more than 1 when several writes land
	// between samples; only the latest content is observable anyway.
	w.lastRev = rev
	suppressed := w.now().Before(w.suppressUntil)
	w.mu.Unlock()

	if suppressed {
		slog.Debug("clipboard change suppressed", "rev", rev)
		return
	}

	snap, err := w.backend.Read()
	if err != nil {
		slog.Warn("clipboard read failed, dropping sample", "err", err)
		return
	}
	if snap.IsNone() {
		return
	}
	if snap.Size() > w.maxBytes {
		slog.Warn("clipboard sample dropped",
			"err", fmt.Errorf("%w (%d > %d bytes)", ErrPayloadTooLarge, snap.Size(), w.maxBytes))
		return
	}

	var hint string
	if w.frontmost != nil {
		hint = w.frontmost()
	}
	w.emit(Capture{Snapshot: snap, SourceHint: hint})
}
