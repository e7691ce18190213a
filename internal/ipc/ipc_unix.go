//go:build !windows

package ipc

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
)

func socketPath() string {
	if s := os.Getenv("RECLIP_SOCKET"); s != "" {
		return s
	}
	// Linux: prefer XDG_RUNTIME_DIR
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "reclip.sock")
	}
	// macOS / fallback
	return filepath.Join(os.TempDir(), "reclip.sock")
}

func listenIPC(path string) (net.Listener, error) {
	// A socket that still answers belongs to a live daemon; removing it
	// would silently cut that daemon off from its clients.
	if c, err := net.Dial("unix", path); err == nil {
		_ = c.Close()
		return nil, fmt.Errorf("socket %s already in use by a running daemon", path)
	}
	// Remove stale socket from a previous (crashed) run.
	_ = os.Remove(path)
	return net.Listen("unix", path)
}

func dialIPC(path string) (net.Conn, error) {
	return net.Dial("unix", path)
}
