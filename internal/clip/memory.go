package clip

import (
	"sync"

	"go.klb.dev/reclip/internal/snapshot"
)

// Memory is an in-process clipboard backend. Every write, the process's own
// included, advances the revision counter — the same observable behaviour as
// the OS backends. Used by tests and by any caller that needs a clipboard
// double without a display server.
type Memory struct {
	mu     sync.Mutex
	cur    snapshot.Snapshot
	rev    uint64
	writes int
	closed bool
}

// NewMemory returns an empty in-memory clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Revision() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rev
}

func (m *Memory) Read() (snapshot.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur, nil
}

func (m *Memory) Write(s snapshot.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = s
	m.rev++
	m.writes++
	return nil
}

func (m *Memory) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// BumpRevision advances the counter by n without changing content,
// simulating the revision gaps real OS counters produce when other
// processes write and overwrite between samples.
func (m *Memory) BumpRevision(n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rev += n
}

// Writes returns the total number of Write calls, for assertions on
// restore behaviour.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
