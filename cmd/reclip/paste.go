package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"go.klb.dev/reclip/internal/message"
)

func newPasteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paste <entry>",
		Short: "Inject a history entry into the focused application",
		Long: `Asks the daemon to write the entry back to the system clipboard and
synthesize a paste keystroke into the application that currently holds
input focus.

<entry> is either a list position (1 = newest, see "reclip list") or an
entry id prefix.

A "degraded" outcome means the entry is on the clipboard but no keystroke
was delivered (missing OS permission, or every synthesis strategy failed) —
paste manually with the usual shortcut.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error { return runPasteEntry(args[0]) },
	}
	addConfigFlag(cmd)
	return cmd
}

func runPasteEntry(arg string) error {
	id, err := resolveEntryID(arg)
	if err != nil {
		return err
	}

	resp, err := request(&message.Message{Type: message.TypePaste, EntryID: id})
	if err != nil {
		return err
	}

	switch resp.Outcome {
	case "success":
		fmt.Printf("pasted %s\n", shortID(id))
	case "degraded":
		fmt.Printf("entry %s is on the clipboard, but no keystroke was delivered: %s\n",
			shortID(id), resp.Detail)
	case "busy":
		return fmt.Errorf("another paste is in flight, try again")
	default:
		return fmt.Errorf("paste failed: %s", resp.Detail)
	}

	if len(resp.FailedRebinds) > 0 {
		fmt.Printf("warning: hotkeys not restored: %s\n", strings.Join(resp.FailedRebinds, ", "))
	}
	return nil
}
