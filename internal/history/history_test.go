package history

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.klb.dev/reclip/internal/snapshot"
)

func texts(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Payload.String()
	}
	return out
}

func TestCaptureNewestFirst(t *testing.T) {
	s := New(0, nil)
	s.Capture(snapshot.Text("A"), "")
	s.Capture(snapshot.Text("B"), "")
	s.Capture(snapshot.Text("C"), "")

	require.Equal(t, []string{"C", "B", "A"}, texts(s.Entries()))
}

func TestCaptureAssignsUniqueIDs(t *testing.T) {
	s := New(0, nil)
	a := s.Capture(snapshot.Text("A"), "")
	b := s.Capture(snapshot.Text("A"), "")
	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
}

func TestEvictionAtCapacity(t *testing.T) {
	s := New(3, nil)
	for _, x := range []string{"A", "B", "C", "D"} {
		s.Capture(snapshot.Text(x), "")
	}
	require.Equal(t, []string{"D", "C", "B"}, texts(s.Entries()))
}

func TestPinnedExemptFromEviction(t *testing.T) {
	s := New(3, nil)
	a := s.Capture(snapshot.Text("A"), "")
	s.Capture(snapshot.Text("B"), "")
	s.Capture(snapshot.Text("C"), "")
	require.NoError(t, s.SetPinned(a.ID, true))

	s.Capture(snapshot.Text("D"), "")

	// A retained despite being oldest; B is the oldest unpinned and stays
	// within capacity, so nothing unpinned is evicted either.
	require.Equal(t, []string{"D", "C", "B", "A"}, texts(s.Entries()))

	// One more capture pushes the unpinned count over capacity: B goes.
	s.Capture(snapshot.Text("E"), "")
	require.Equal(t, []string{"E", "D", "C", "A"}, texts(s.Entries()))
}

func TestUnpinMakesEvictionEligible(t *testing.T) {
	s := New(3, nil)
	a := s.Capture(snapshot.Text("A"), "")
	s.Capture(snapshot.Text("B"), "")
	s.Capture(snapshot.Text("C"), "")
	require.NoError(t, s.SetPinned(a.ID, true))
	s.Capture(snapshot.Text("D"), "")

	require.NoError(t, s.SetPinned(a.ID, false))
	s.Capture(snapshot.Text("E"), "")

	// A is the oldest unpinned again and is evicted first.
	require.Equal(t, []string{"E", "D", "C", "B"}, texts(s.Entries()))
}

func TestEvictionTieBreakByInsertionOrder(t *testing.T) {
	s := New(2, nil)
	// Freeze the clock so all timestamps collide.
	fixed := time.Now()
	s.now = func() time.Time { return fixed }

	s.Capture(snapshot.Text("A"), "")
	s.Capture(snapshot.Text("B"), "")
	s.Capture(snapshot.Text("C"), "")

	require.Equal(t, []string{"C", "B"}, texts(s.Entries()))
}

func TestCaptureCostIndependentOfHistoryLength(t *testing.T) {
	s := New(0, nil)
	for range 50_000 {
		s.Capture(snapshot.Text("seed"), "")
	}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	for range 100 {
		s.Capture(snapshot.Text("x"), "")
	}
	runtime.ReadMemStats(&after)

	// A prepend-by-copy would allocate the whole 50k-entry backing array
	// on every capture (hundreds of MB over 100 captures); a tail append
	// allocates a handful of bytes plus the occasional growth step.
	require.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(32<<20))
}

func TestCapacityZeroUnbounded(t *testing.T) {
	s := New(0, nil)
	for range 500 {
		s.Capture(snapshot.Text("x"), "")
	}
	require.Equal(t, 500, s.Len())
}

func TestUnpinnedCountNeverExceedsCapacity(t *testing.T) {
	s := New(5, nil)
	for i := range 50 {
		e := s.Capture(snapshot.Text("x"), "")
		if i%7 == 0 {
			require.NoError(t, s.SetPinned(e.ID, true))
		}
		unpinned := 0
		for _, en := range s.Entries() {
			if !en.Pinned {
				unpinned++
			}
		}
		require.LessOrEqual(t, unpinned, 5)
	}
}

func TestDelete(t *testing.T) {
	s := New(0, nil)
	a := s.Capture(snapshot.Text("A"), "")
	s.Capture(snapshot.Text("B"), "")

	require.NoError(t, s.Delete(a.ID))
	require.Equal(t, []string{"B"}, texts(s.Entries()))
	require.ErrorIs(t, s.Delete(a.ID), ErrNotFound)
}

func TestGet(t *testing.T) {
	s := New(0, nil)
	a := s.Capture(snapshot.Text("A"), "hint")

	got, err := s.Get(a.ID)
	require.NoError(t, err)
	require.Equal(t, "hint", got.SourceHint)

	_, err = s.Get("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEntriesIsACopy(t *testing.T) {
	s := New(0, nil)
	s.Capture(snapshot.Text("A"), "")

	view := s.Entries()
	view[0].Pinned = true

	require.False(t, s.Entries()[0].Pinned)
}

// recordingPersister collects notifications for assertion.
type recordingPersister struct {
	mu       sync.Mutex
	captured []string
	deleted  []string
	pinned   []string
}

func (p *recordingPersister) EntryCaptured(e Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.captured = append(p.captured, e.ID)
}

func (p *recordingPersister) EntryDeleted(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, id)
}

func (p *recordingPersister) EntryPinned(id string, pinned bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pinned = append(p.pinned, id)
}

func (p *recordingPersister) counts() (int, int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.captured), len(p.deleted), len(p.pinned)
}

func TestPersisterNotified(t *testing.T) {
	p := &recordingPersister{}
	s := New(2, p)

	a := s.Capture(snapshot.Text("A"), "")
	b := s.Capture(snapshot.Text("B"), "")
	s.Capture(snapshot.Text("C"), "") // evicts A
	require.NoError(t, s.SetPinned(b.ID, true))

	// Notifications are fire-and-forget on their own goroutine.
	require.Eventually(t, func() bool {
		c, d, pn := p.counts()
		return c == 3 && d == 1 && pn == 1
	}, time.Second, 5*time.Millisecond)

	p.mu.Lock()
	defer p.mu.Unlock()
	require.Equal(t, []string{a.ID}, p.deleted)
}
