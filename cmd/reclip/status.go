package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/reclip/internal/ipc"
	"go.klb.dev/reclip/internal/message"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show daemon status",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runStatus(v) },
	}

	cmd.Flags().Bool("json", false, "output raw JSON")
	addConfigFlag(cmd)

	return cmd
}

func runStatus(v *viper.Viper) error {
	resp, err := request(&message.Message{Type: message.TypeStatus})
	if err != nil {
		return err
	}
	st := resp.Status
	if st == nil {
		return fmt.Errorf("daemon returned no status")
	}

	if v.GetBool("json") {
		enc, _ := json.MarshalIndent(st, "", "  ")
		fmt.Println(string(enc))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Socket:\t%s\n", ipc.SocketPath())
	fmt.Fprintf(w, "Backend:\t%s\n", st.Backend)
	fmt.Fprintf(w, "Entries:\t%d (%d pinned)\n", st.Entries, st.Pinned)
	if st.Capacity > 0 {
		fmt.Fprintf(w, "Capacity:\t%d unpinned\n", st.Capacity)
	} else {
		fmt.Fprintf(w, "Capacity:\tunbounded\n")
	}
	fmt.Fprintf(w, "Hotkeys:\t%s", st.HotkeyState)
	if len(st.Chords) > 0 {
		fmt.Fprintf(w, " (%s)", strings.Join(st.Chords, ", "))
	}
	fmt.Fprintln(w)
	if st.Busy {
		fmt.Fprintf(w, "Paste:\tin flight\n")
	}
	fmt.Fprintf(w, "Uptime:\t%s\n", (time.Duration(st.UptimeSecs) * time.Second).String())
	return w.Flush()
}
