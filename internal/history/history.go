// Package history implements the bounded, insertion-ordered store of
// captured clipboard entries.
package history

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"go.klb.dev/reclip/internal/snapshot"
)

// ErrNotFound is returned when an entry id does not exist in the store.
var ErrNotFound = errors.New("history: entry not found")

// Entry is one captured clipboard change.
type Entry struct {
	// ID is opaque and unique, assigned at capture.
	ID         string
	Payload    snapshot.Snapshot
	CapturedAt time.Time
	// SourceHint names the front-most application at capture time. May be empty.
	SourceHint string
	Pinned     bool

	// seq is a monotonic sequence number used as the eviction tie-break
	// when coarse timestamps collide. Never compared by content.
	seq uint64
}

// Persister is notified of every store mutation. Notifications are
// fire-and-forget: the store dispatches them on their own goroutine and
// never waits on completion. Persisted-state layout belongs to the
// implementer.
type Persister interface {
	EntryCaptured(Entry)
	EntryDeleted(id string)
	EntryPinned(id string, pinned bool)
}

// Store keeps entries in capture order and enforces a maximum number of
// unpinned entries. Capacity 0 means unbounded. Pinned entries are exempt
// from capacity eviction.
type Store struct {
	mu       sync.RWMutex
	capacity int
	entries  []Entry // oldest first; Entries presents newest first
	seq      uint64
	persist  Persister // optional

	now func() time.Time
}

// New creates a store with the given unpinned-entry capacity.
// persist may be nil.
func New(capacity int, persist Persister) *Store {
	return &Store{
		capacity: capacity,
		persist:  persist,
		now:      time.Now,
	}
}

// Capture records a snapshot as a new entry and returns it. It always
// succeeds; eviction runs after every capture.
func (s *Store) Capture(snap snapshot.Snapshot, sourceHint string) Entry {
	s.mu.Lock()
	s.seq++
	e := Entry{
		ID:         uuid.NewString(),
		Payload:    snap,
		CapturedAt: s.now(),
		SourceHint: sourceHint,
		seq:        s.seq,
	}
	// Tail append keeps capture O(1) amortized; a prepend would copy the
	// whole history on every capture.
	s.entries = append(s.entries, e)
	evicted := s.evictLocked()
	s.mu.Unlock()

	s.notify(func(p Persister) {
		p.EntryCaptured(e)
		for _, id := range evicted {
			p.EntryDeleted(id)
		}
	})
	return e
}

// evictLocked removes the oldest unpinned entries until the unpinned count
// is within capacity. Entries are held oldest first, so scanning from the
// head finds the oldest first; equal coarse timestamps therefore break
// ties by sequence number automatically.
func (s *Store) evictLocked() []string {
	if s.capacity <= 0 {
		return nil
	}
	unpinned := 0
	for _, e := range s.entries {
		if !e.Pinned {
			unpinned++
		}
	}
	var evicted []string
	for unpinned > s.capacity {
		for i := range s.entries {
			if s.entries[i].Pinned {
				continue
			}
			evicted = append(evicted, s.entries[i].ID)
			slog.Debug("history entry evicted",
				"id", s.entries[i].ID, "captured_at", s.entries[i].CapturedAt)
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
		unpinned--
	}
	return evicted
}

// Delete removes an entry by id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	s.mu.Unlock()

	s.notify(func(p Persister) { p.EntryDeleted(id) })
	return nil
}

// SetPinned toggles an entry's pinned flag. Pinned entries are never
// evicted; unpinning makes the entry eviction-eligible again.
func (s *Store) SetPinned(id string, pinned bool) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.entries[idx].Pinned = pinned
	s.mu.Unlock()

	s.notify(func(p Persister) { p.EntryPinned(id, pinned) })
	return nil
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return Entry{}, ErrNotFound
	}
	return s.entries[idx], nil
}

// Entries returns a read-only copy of the entries, newest first.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[len(out)-1-i] = e
	}
	return out
}

// Len returns the total number of entries, pinned included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Capacity returns the configured unpinned-entry capacity (0 = unbounded).
func (s *Store) Capacity() int { return s.capacity }

func (s *Store) indexLocked(id string) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notify(fn func(Persister)) {
	if s.persist == nil {
		return
	}
	go fn(s.persist)
}
