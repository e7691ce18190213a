// Package ipc provides the local socket channel used by CLI sub-commands
// (list, paste, pin, delete, status) to talk to a running reclip daemon.
//
// Unix platforms use a Unix domain socket; Windows uses a named pipe. The
// channel carries the newline-delimited JSON control protocol from
// internal/message. No auth: the socket is local and owner-restricted by
// the OS.
package ipc

import "net"

// SocketPath returns the platform-appropriate path for the IPC socket:
//
//   - Linux:   $XDG_RUNTIME_DIR/reclip.sock, falling back to $TMPDIR
//   - macOS:   $TMPDIR/reclip.sock
//   - Windows: \\.\pipe\reclip
//
// Override with $RECLIP_SOCKET on Unix platforms.
func SocketPath() string {
	return socketPath()
}

// IsRunning reports whether a reclip daemon appears to be listening on the
// IPC socket. It does a cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := dialIPC(socketPath())
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen creates and returns a net.Listener on the IPC socket path.
func Listen() (net.Listener, error) {
	return listenIPC(socketPath())
}

// Dial connects to the daemon's IPC socket.
func Dial() (net.Conn, error) {
	return dialIPC(socketPath())
}
