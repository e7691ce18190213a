package clip

import "go.klb.dev/reclip/internal/snapshot"

// headlessBackend is a no-op clipboard backend for environments without a
// display server (headless Linux servers, containers, etc.).
// Its revision never advances and writes are silently discarded.
type headlessBackend struct{}

func (b *headlessBackend) Name() string                     { return "headless (no-op)" }
func (b *headlessBackend) Revision() uint64                 { return 0 }
func (b *headlessBackend) Read() (snapshot.Snapshot, error) { return snapshot.None(), nil }
func (b *headlessBackend) Write(_ snapshot.Snapshot) error  { return nil }
func (b *headlessBackend) Close()                           {}
