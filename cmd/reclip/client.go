package main

import (
	"fmt"
	"strconv"
	"strings"

	"go.klb.dev/reclip/internal/ipc"
	"go.klb.dev/reclip/internal/message"
	"go.klb.dev/reclip/internal/wire"
)

// request sends one message to the running daemon and returns its reply.
func request(msg *message.Message) (*message.Message, error) {
	if !ipc.IsRunning() {
		return nil, fmt.Errorf("no reclip daemon on %s (start one with \"reclip daemon\")", ipc.SocketPath())
	}
	conn, err := ipc.Dial()
	if err != nil {
		return nil, fmt.Errorf("ipc dial: %w", err)
	}
	defer conn.Close()

	wc := wire.New(conn)
	if err := wc.WriteMsg(msg); err != nil {
		return nil, fmt.Errorf("ipc write: %w", err)
	}
	resp, err := wc.ReadMsg()
	if err != nil {
		return nil, fmt.Errorf("ipc read: %w", err)
	}
	if resp.Type == message.TypeError {
		return nil, fmt.Errorf("daemon: %s", resp.Error)
	}
	return resp, nil
}

// resolveEntryID turns a user-supplied argument into a full entry id.
// A small integer selects by list position (1 = newest); anything else is
// matched as an id prefix.
func resolveEntryID(arg string) (string, error) {
	resp, err := request(&message.Message{Type: message.TypeList})
	if err != nil {
		return "", err
	}
	entries := resp.Entries
	if len(entries) == 0 {
		return "", fmt.Errorf("history is empty")
	}

	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(entries) {
			return "", fmt.Errorf("index %d out of range (1–%d)", n, len(entries))
		}
		return entries[n-1].ID, nil
	}

	var matches []string
	for _, e := range entries {
		if strings.HasPrefix(e.ID, arg) {
			matches = append(matches, e.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no entry matches %q", arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous (%d matches)", arg, len(matches))
	}
}
