package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.klb.dev/reclip/internal/message"
)

func newPinCmd() *cobra.Command {
	var unpin bool

	cmd := &cobra.Command{
		Use:   "pin <entry>",
		Short: "Pin an entry so it is never evicted",
		Long: `Pinned entries are exempt from capacity eviction until unpinned.

<entry> is either a list position (1 = newest) or an entry id prefix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveEntryID(args[0])
			if err != nil {
				return err
			}
			_, err = request(&message.Message{
				Type:    message.TypePin,
				EntryID: id,
				Pinned:  !unpin,
			})
			if err != nil {
				return err
			}
			if unpin {
				fmt.Printf("unpinned %s\n", shortID(id))
			} else {
				fmt.Printf("pinned %s\n", shortID(id))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unpin, "unpin", false, "clear the pin instead of setting it")
	addConfigFlag(cmd)
	return cmd
}
