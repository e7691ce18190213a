package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/reclip/internal/clip"
	"go.klb.dev/reclip/internal/engine"
	"go.klb.dev/reclip/internal/hotkey/xreg"
	"go.klb.dev/reclip/internal/inject"
	"go.klb.dev/reclip/internal/ipc"
	"go.klb.dev/reclip/internal/message"
	"go.klb.dev/reclip/internal/wire"
)

func newDaemonCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the clipboard history engine",
		Long: `Starts the reclip engine: clipboard watcher, history store, global paste
hotkey and the IPC socket the other sub-commands talk to.

Global hotkeys require a display server (an X11 display on Linux); on a
headless machine the process exits at startup.

Config file search order:
  /etc/reclip/reclip.toml
  $HOME/.config/reclip/reclip.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → RECLIP_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runDaemon(v) },
	}

	f := cmd.Flags()
	f.Int("capacity", 100, "max unpinned history entries (0 = unbounded)")
	f.Duration("poll-interval", 300*time.Millisecond, "clipboard sampling interval")
	f.Int("max-payload", 64*1024*1024, "max captured payload size in bytes")
	f.String("hotkey", "ctrl+shift+v", "global chord that pastes the latest entry (empty = none)")
	f.Duration("suppress-window", 3*time.Second, "watcher suppression window around an injection")
	f.Duration("clipboard-settle", 150*time.Millisecond, "wait after writing an entry to the clipboard")
	f.Duration("focus-settle", 200*time.Millisecond, "wait before verifying a focus activation")
	f.Duration("paste-settle", 300*time.Millisecond, "wait for the target app to consume the clipboard")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runDaemon(v *viper.Viper) error {
	setupLogging(v)

	cfg := engine.Config{
		Capacity:     v.GetInt("capacity"),
		PollInterval: v.GetDuration("poll-interval"),
		MaxPayload:   v.GetInt("max-payload"),
		PasteChord:   v.GetString("hotkey"),
		Timings: inject.Timings{
			SuppressWindow:  v.GetDuration("suppress-window"),
			ClipboardSettle: v.GetDuration("clipboard-settle"),
			FocusSettle:     v.GetDuration("focus-settle"),
			PasteSettle:     v.GetDuration("paste-settle"),
		},
	}

	slog.Info("reclip daemon starting",
		"version", Version,
		"capacity", cfg.Capacity,
		"poll_interval", cfg.PollInterval,
		"hotkey", cfg.PasteChord,
	)

	backend := clip.New()
	defer backend.Close()

	eng := engine.New(
		cfg,
		backend,
		xreg.New(),
		inject.NewFocusController(),
		inject.NewPermissionGate(),
		inject.Keystrokers(),
		nil,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := ipc.Listen()
	if err != nil {
		return fmt.Errorf("ipc listen: %w", err)
	}
	defer ln.Close()
	slog.Info("IPC socket listening", "path", ipc.SocketPath())
	go serveIPC(ctx, ln, eng)

	return eng.Run(ctx)
}

func serveIPC(ctx context.Context, ln net.Listener, eng *engine.Engine) {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go handleIPCConn(ctx, conn, eng)
	}
}

func handleIPCConn(ctx context.Context, conn net.Conn, eng *engine.Engine) {
	defer conn.Close()
	wc := wire.New(conn)

	msg, err := wc.ReadMsg()
	if err != nil {
		return
	}

	switch msg.Type {
	case message.TypeList:
		entries := eng.Entries()
		if msg.Limit > 0 && msg.Limit < len(entries) {
			entries = entries[:msg.Limit]
		}
		resp := &message.Message{Type: message.TypeListResponse}
		for _, e := range entries {
			resp.Entries = append(resp.Entries, message.Summarize(e))
		}
		_ = wc.WriteMsg(resp)

	case message.TypePaste:
		res := eng.Inject(ctx, msg.EntryID)
		resp := &message.Message{
			Type:    message.TypePasteResponse,
			EntryID: msg.EntryID,
			Outcome: string(res.Outcome),
		}
		if res.Cause != nil {
			resp.Detail = res.Cause.Error()
		}
		for _, rb := range res.RebindFailures {
			resp.FailedRebinds = append(resp.FailedRebinds, rb.Chord.String())
		}
		_ = wc.WriteMsg(resp)

	case message.TypePin:
		if err := eng.Pin(msg.EntryID, msg.Pinned); err != nil {
			_ = wc.WriteMsg(message.Err(err))
			return
		}
		_ = wc.WriteMsg(&message.Message{Type: message.TypeOK})

	case message.TypeDelete:
		if err := eng.Delete(msg.EntryID); err != nil {
			_ = wc.WriteMsg(message.Err(err))
			return
		}
		_ = wc.WriteMsg(&message.Message{Type: message.TypeOK})

	case message.TypeStatus:
		st := eng.Status()
		_ = wc.WriteMsg(&message.Message{
			Type: message.TypeStatusResponse,
			Status: &message.StatusInfo{
				Backend:     st.Backend,
				Entries:     st.Entries,
				Pinned:      st.Pinned,
				Capacity:    st.Capacity,
				HotkeyState: string(st.HotkeyState),
				Chords:      st.Chords,
				Busy:        st.Busy,
				UptimeSecs:  int64(st.Uptime.Seconds()),
			},
		})

	default:
		_ = wc.WriteMsg(&message.Message{
			Type:  message.TypeError,
			Error: fmt.Sprintf("unknown message type %q", msg.Type),
		})
	}
}
