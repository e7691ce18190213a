//go:build !windows

package ipc

import (
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListenRefusesLiveSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reclip.sock")
	t.Setenv("RECLIP_SOCKET", path)

	first, err := Listen()
	require.NoError(t, err)
	defer first.Close()

	_, err = Listen()
	require.Error(t, err)
	require.Contains(t, err.Error(), "already in use")
}

func TestListenRemovesStaleSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reclip.sock")
	t.Setenv("RECLIP_SOCKET", path)

	// Leave a socket file behind with nothing listening, as a crashed
	// daemon would.
	stale, err := net.Listen("unix", path)
	require.NoError(t, err)
	stale.(*net.UnixListener).SetUnlinkOnClose(false)
	require.NoError(t, stale.Close())

	ln, err := Listen()
	require.NoError(t, err)
	require.NoError(t, ln.Close())
}

func TestSocketPathOverride(t *testing.T) {
	t.Setenv("RECLIP_SOCKET", "/tmp/custom.sock")
	require.Equal(t, "/tmp/custom.sock", SocketPath())
}
