package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.klb.dev/reclip/internal/message"
)

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <entry>",
		Short: "Delete a history entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveEntryID(args[0])
			if err != nil {
				return err
			}
			if _, err := request(&message.Message{Type: message.TypeDelete, EntryID: id}); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", shortID(id))
			return nil
		},
	}
	addConfigFlag(cmd)
	return cmd
}
