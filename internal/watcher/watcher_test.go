package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.klb.dev/reclip/internal/clip"
	"go.klb.dev/reclip/internal/snapshot"
)

func newTestWatcher(t *testing.T, cfg Config) (*clip.Memory, *Watcher, *[]Capture) {
	t.Helper()
	mem := clip.NewMemory()
	var got []Capture
	w := New(mem, func(c Capture) { got = append(got, c) }, cfg)
	w.Sample() // prime
	return mem, w, &got
}

func TestEmitsOncePerExternalWrite(t *testing.T) {
	mem, w, got := newTestWatcher(t, Config{})

	writes := []string{"one", "two", "three"}
	for _, s := range writes {
		require.NoError(t, mem.Write(snapshot.Text(s)))
		w.Sample()
	}

	require.Len(t, *got, len(writes))
	for i, s := range writes {
		require.True(t, (*got)[i].Snapshot.Equal(snapshot.Text(s)),
			"capture %d should match write %q", i, s)
	}
}

func TestUnchangedRevisionIsNoOp(t *testing.T) {
	mem, w, got := newTestWatcher(t, Config{})

	require.NoError(t, mem.Write(snapshot.Text("x")))
	w.Sample()
	w.Sample()
	w.Sample()
	require.Len(t, *got, 1)
}

func TestToleratesRevisionGaps(t *testing.T) {
	mem, w, got := newTestWatcher(t, Config{})

	// Several writes land between samples; only the latest is observable.
	require.NoError(t, mem.Write(snapshot.Text("a")))
	require.NoError(t, mem.Write(snapshot.Text("b")))
	mem.BumpRevision(5)
	w.Sample()

	require.Len(t, *got, 1)
	require.Equal(t, "b", (*got)[0].Snapshot.String())
}

func TestSuppressionWindow(t *testing.T) {
	mem, w, got := newTestWatcher(t, Config{})

	base := time.Now()
	now := base
	w.now = func() time.Time { return now }

	deadline := base.Add(100 * time.Millisecond)
	w.SuppressUntil(deadline)

	// Change during the window: marker advances, nothing emitted.
	require.NoError(t, mem.Write(snapshot.Text("self-write")))
	w.Sample()
	require.Empty(t, *got)

	// Window expired with no further change: nothing fires retroactively.
	now = deadline
	w.Sample()
	require.Empty(t, *got)

	// A write at/after the deadline fires normally.
	require.NoError(t, mem.Write(snapshot.Text("external")))
	w.Sample()
	require.Len(t, *got, 1)
	require.Equal(t, "external", (*got)[0].Snapshot.String())
}

func TestLaterSuppressionDeadlineWins(t *testing.T) {
	_, w, _ := newTestWatcher(t, Config{})

	base := time.Now()
	w.now = func() time.Time { return base }

	late := base.Add(time.Second)
	w.SuppressUntil(late)
	w.SuppressUntil(base.Add(10 * time.Millisecond)) // must not shorten

	w.mu.Lock()
	defer w.mu.Unlock()
	require.Equal(t, late, w.suppressUntil)
}

func TestOversizedPayloadDropped(t *testing.T) {
	mem, w, got := newTestWatcher(t, Config{MaxPayload: 8})

	require.NoError(t, mem.Write(snapshot.Text("this is far too large")))
	w.Sample()
	require.Empty(t, *got)

	// Sampling continues afterwards.
	require.NoError(t, mem.Write(snapshot.Text("tiny")))
	w.Sample()
	require.Len(t, *got, 1)
}

func TestEmptyClipboardNotCaptured(t *testing.T) {
	mem, w, got := newTestWatcher(t, Config{})

	require.NoError(t, mem.Write(snapshot.None()))
	w.Sample()
	require.Empty(t, *got)
}

func TestSourceHintFromFrontmost(t *testing.T) {
	mem := clip.NewMemory()
	var got []Capture
	w := New(mem, func(c Capture) { got = append(got, c) }, Config{
		Frontmost: func() string { return "SomeEditor" },
	})
	w.Sample()

	require.NoError(t, mem.Write(snapshot.Text("x")))
	w.Sample()
	require.Len(t, got, 1)
	require.Equal(t, "SomeEditor", got[0].SourceHint)
}
