package wire

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"go.klb.dev/reclip/internal/message"
)

func TestRoundTrip(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	client := New(a)
	server := New(b)

	done := make(chan error, 1)
	go func() {
		done <- client.WriteMsg(&message.Message{Type: message.TypePaste, EntryID: "abc-123"})
	}()

	got, err := server.ReadMsg()
	require.NoError(t, err)
	require.NoError(t, <-done)
	require.Equal(t, message.TypePaste, got.Type)
	require.Equal(t, "abc-123", got.EntryID)
}

func TestReadMultipleMessages(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	client := New(a)
	server := New(b)

	go func() {
		_ = client.WriteMsg(&message.Message{Type: message.TypeList, Limit: 5})
		_ = client.WriteMsg(&message.Message{Type: message.TypeStatus})
	}()

	first, err := server.ReadMsg()
	require.NoError(t, err)
	require.Equal(t, message.TypeList, first.Type)
	require.Equal(t, 5, first.Limit)

	second, err := server.ReadMsg()
	require.NoError(t, err)
	require.Equal(t, message.TypeStatus, second.Type)
}

func TestReadAfterPeerClose(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()

	server := New(b)
	require.NoError(t, a.Close())

	_, err := server.ReadMsg()
	require.Error(t, err)
}
