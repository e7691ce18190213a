// reclip: clipboard history with paste injection.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/reclip/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "reclip",
		Short: "Clipboard history with paste injection",
		Long: `reclip watches the system clipboard, records a bounded history, and can
re-inject a previously captured entry into whatever application currently
holds input focus.

Run "reclip daemon" to start the engine. Use "reclip list/paste/pin/delete/
status" as CLI tools against the running daemon.

Config file search order (first found wins):
  /etc/reclip/reclip.toml
  $HOME/.config/reclip/reclip.toml
  path supplied via --config

All flags can be set via RECLIP_<FLAG> env vars or config-file keys.
See "reclip daemon --help" for the full flag reference.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newDaemonCmd(),
		newListCmd(),
		newPasteCmd(),
		newPinCmd(),
		newDeleteCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("reclip %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive bool, formatStr, levelStr string) {
	format := logging.ParseFormat(formatStr)
	level := logging.ParseLevel(levelStr)
	if levelStr == "" {
		if interactive {
			level = logging.ParseLevel("debug")
		} else {
			level = logging.ParseLevel("info")
		}
	}
	logging.Setup(format, level)
}
