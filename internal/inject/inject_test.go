package inject

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.klb.dev/reclip/internal/clip"
	"go.klb.dev/reclip/internal/history"
	"go.klb.dev/reclip/internal/hotkey"
	"go.klb.dev/reclip/internal/snapshot"
)

type fakeHotkeys struct {
	mu           sync.Mutex
	calls        []string
	resumeResult hotkey.ResumeResult
}

func (f *fakeHotkeys) Suspend() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "suspend")
}

func (f *fakeHotkeys) Resume() hotkey.ResumeResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "resume")
	return f.resumeResult
}

func (f *fakeHotkeys) sequence() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

type fakeSuppressor struct {
	mu        sync.Mutex
	deadlines []time.Time
}

func (f *fakeSuppressor) SuppressUntil(d time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deadlines = append(f.deadlines, d)
}

func (f *fakeSuppressor) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deadlines)
}

type fakeKeystroker struct {
	name  string
	err   error
	calls int
}

func (f *fakeKeystroker) Name() string { return f.name }

func (f *fakeKeystroker) PasteChord() error {
	f.calls++
	return f.err
}

type fakeGate struct{ allowed bool }

func (f fakeGate) SyntheticInputAllowed() bool { return f.allowed }

type fakeFocus struct {
	front    FocusTarget
	frontErr error
	calls    []string
}

func (f *fakeFocus) Frontmost() (FocusTarget, error) { return f.front, f.frontErr }
func (f *fakeFocus) Activate(FocusTarget) error      { f.calls = append(f.calls, "activate"); return nil }
func (f *fakeFocus) ActivateAll(FocusTarget) error   { f.calls = append(f.calls, "all"); return nil }
func (f *fakeFocus) Relaunch(FocusTarget) error      { f.calls = append(f.calls, "relaunch"); return nil }

func entry(s string) history.Entry {
	return history.Entry{ID: "e-" + s, Payload: snapshot.Text(s)}
}

func newTestOrchestrator(backend clip.Backend, hk Hotkeys, sup Suppressor, gate PermissionGate, strokes []Keystroker, focus FocusController) *Orchestrator {
	o := New(backend, sup, hk, focus, gate, strokes, Timings{})
	o.sleep = func(context.Context, time.Duration) {} // settle waits are for real OSes
	return o
}

func TestInjectSuccessRestoresClipboard(t *testing.T) {
	mem := clip.NewMemory()
	require.NoError(t, mem.Write(snapshot.Text("before")))

	hk := &fakeHotkeys{}
	sup := &fakeSuppressor{}
	ks := &fakeKeystroker{name: "ok"}
	o := newTestOrchestrator(mem, hk, sup, fakeGate{true}, []Keystroker{ks}, nil)

	res := o.Inject(context.Background(), entry("X"), FocusTarget{})
	require.Equal(t, OutcomeSuccess, res.Outcome)
	require.NoError(t, res.Cause)
	require.Equal(t, 1, ks.calls)

	// Restore invariant: the clipboard ends where it started.
	cur, err := mem.Read()
	require.NoError(t, err)
	require.Equal(t, "before", cur.String())

	require.Equal(t, []string{"suspend", "resume"}, hk.sequence())
	require.GreaterOrEqual(t, sup.count(), 2, "suppression must cover both the write and the restore")
	require.False(t, o.Busy())
}

func TestInjectBusy(t *testing.T) {
	mem := clip.NewMemory()
	require.NoError(t, mem.Write(snapshot.Text("before")))

	hk := &fakeHotkeys{}
	o := newTestOrchestrator(mem, hk, &fakeSuppressor{}, fakeGate{true},
		[]Keystroker{&fakeKeystroker{name: "ok"}}, nil)
	saved := snapshot.Text("in-flight-saved")
	o.flight = &inFlight{entryID: "other", saved: saved}

	res := o.Inject(context.Background(), entry("X"), FocusTarget{})
	require.Equal(t, OutcomeBusy, res.Outcome)
	require.ErrorIs(t, res.Cause, ErrBusy)

	// The in-flight operation's saved snapshot is untouched.
	require.True(t, o.flight.saved.Equal(saved))
	// Nothing was written, suspended or resumed.
	require.Empty(t, hk.sequence())
	cur, _ := mem.Read()
	require.Equal(t, "before", cur.String())
}

func TestInjectPermissionDenied(t *testing.T) {
	mem := clip.NewMemory()
	require.NoError(t, mem.Write(snapshot.Text("before")))

	hk := &fakeHotkeys{}
	sup := &fakeSuppressor{}
	ks := &fakeKeystroker{name: "never"}
	o := newTestOrchestrator(mem, hk, sup, fakeGate{false}, []Keystroker{ks}, nil)

	res := o.Inject(context.Background(), entry("X"), FocusTarget{})
	require.Equal(t, OutcomeDegraded, res.Outcome)
	require.ErrorIs(t, res.Cause, ErrPermissionDenied)

	// The documented exception: the entry stays on the clipboard so a
	// manual paste works.
	cur, _ := mem.Read()
	require.Equal(t, "X", cur.String())
	require.Zero(t, ks.calls, "no keystroke synthesized")
	require.Empty(t, hk.sequence(), "hotkeys never suspended on this path")
	require.Equal(t, 1, sup.count(), "the write is still suppressed from the watcher")
}

func TestInjectKeystrokeFallback(t *testing.T) {
	mem := clip.NewMemory()
	require.NoError(t, mem.Write(snapshot.Text("before")))

	primary := &fakeKeystroker{name: "scripting", err: errors.New("channel error")}
	fallback := &fakeKeystroker{name: "raw"}
	o := newTestOrchestrator(mem, &fakeHotkeys{}, &fakeSuppressor{}, fakeGate{true},
		[]Keystroker{primary, fallback}, nil)

	res := o.Inject(context.Background(), entry("X"), FocusTarget{})
	require.Equal(t, OutcomeSuccess, res.Outcome)
	require.Equal(t, 1, primary.calls)
	require.Equal(t, 1, fallback.calls)

	cur, _ := mem.Read()
	require.Equal(t, "before", cur.String())
}

func TestInjectAllStrategiesFail(t *testing.T) {
	mem := clip.NewMemory()
	require.NoError(t, mem.Write(snapshot.Text("before")))

	hk := &fakeHotkeys{}
	a := &fakeKeystroker{name: "a", err: errors.New("nope")}
	b := &fakeKeystroker{name: "b", err: errors.New("also nope")}
	o := newTestOrchestrator(mem, hk, &fakeSuppressor{}, fakeGate{true}, []Keystroker{a, b}, nil)

	res := o.Inject(context.Background(), entry("X"), FocusTarget{})
	require.Equal(t, OutcomeDegraded, res.Outcome)
	require.ErrorIs(t, res.Cause, ErrInjectionFailed)

	// Degraded leaves the entry on the clipboard for a manual paste.
	cur, _ := mem.Read()
	require.Equal(t, "X", cur.String())
	// Hotkeys still resumed.
	require.Equal(t, []string{"suspend", "resume"}, hk.sequence())
	require.False(t, o.Busy())
}

type readFailBackend struct{ *clip.Memory }

func (b readFailBackend) Read() (snapshot.Snapshot, error) {
	return snapshot.None(), errors.New("pasteboard unavailable")
}

func TestInjectSnapshotFailureStillResumes(t *testing.T) {
	mem := clip.NewMemory()
	require.NoError(t, mem.Write(snapshot.Text("before")))

	hk := &fakeHotkeys{}
	ks := &fakeKeystroker{name: "never"}
	o := newTestOrchestrator(readFailBackend{mem}, hk, &fakeSuppressor{}, fakeGate{true},
		[]Keystroker{ks}, nil)

	res := o.Inject(context.Background(), entry("X"), FocusTarget{})
	require.Equal(t, OutcomeFailed, res.Outcome)
	require.Zero(t, ks.calls)

	// Cleanup region: hotkeys resumed even though the sequence aborted,
	// and the never-written clipboard is left alone.
	require.Equal(t, []string{"suspend", "resume"}, hk.sequence())
	cur, _ := mem.Read()
	require.Equal(t, "before", cur.String())
	require.False(t, o.Busy())
}

func TestInjectFocusVerificationFailureProceeds(t *testing.T) {
	mem := clip.NewMemory()
	require.NoError(t, mem.Write(snapshot.Text("before")))

	// Frontmost never matches the target: every strategy's verification
	// fails, yet the paste still happens.
	focus := &fakeFocus{front: FocusTarget{PID: 999, Name: "Other"}}
	ks := &fakeKeystroker{name: "ok"}
	o := newTestOrchestrator(mem, &fakeHotkeys{}, &fakeSuppressor{}, fakeGate{true},
		[]Keystroker{ks}, focus)

	res := o.Inject(context.Background(), entry("X"), FocusTarget{PID: 42, Name: "Editor"})
	require.Equal(t, OutcomeSuccess, res.Outcome)
	require.Equal(t, 1, ks.calls)
	require.Equal(t, []string{"activate", "all", "relaunch"}, focus.calls,
		"strategies escalate when verification keeps failing")
}

func TestInjectFocusVerifiedStopsEscalating(t *testing.T) {
	mem := clip.NewMemory()
	target := FocusTarget{PID: 42, Name: "Editor"}
	focus := &fakeFocus{front: target}
	ks := &fakeKeystroker{name: "ok"}
	o := newTestOrchestrator(mem, &fakeHotkeys{}, &fakeSuppressor{}, fakeGate{true},
		[]Keystroker{ks}, focus)

	res := o.Inject(context.Background(), entry("X"), target)
	require.Equal(t, OutcomeSuccess, res.Outcome)
	require.Equal(t, []string{"activate"}, focus.calls)
}

func TestInjectReportsRebindFailures(t *testing.T) {
	mem := clip.NewMemory()
	chord, err := hotkey.ParseChord("ctrl+shift+v")
	require.NoError(t, err)

	hk := &fakeHotkeys{resumeResult: hotkey.ResumeResult{
		Failed: []hotkey.RebindError{{Chord: chord, Err: errors.New("taken")}},
	}}
	ks := &fakeKeystroker{name: "ok"}
	o := newTestOrchestrator(mem, hk, &fakeSuppressor{}, fakeGate{true}, []Keystroker{ks}, nil)

	res := o.Inject(context.Background(), entry("X"), FocusTarget{})
	require.Equal(t, OutcomeSuccess, res.Outcome, "a partial rebind does not change the outcome")
	require.Len(t, res.RebindFailures, 1)
	require.Equal(t, "ctrl+shift+v", res.RebindFailures[0].Chord.String())
}

func TestDefaultTimingsFillZeroes(t *testing.T) {
	tm := Timings{PasteSettle: time.Second}.withDefaults()
	require.Equal(t, time.Second, tm.PasteSettle)
	require.Equal(t, DefaultTimings().SuppressWindow, tm.SuppressWindow)
	require.Positive(t, tm.ClipboardSettle)
	require.Positive(t, tm.FocusSettle)
}
