//go:build darwin || linux || windows

package clip

import (
	"fmt"

	"golang.design/x/clipboard"

	"go.klb.dev/reclip/internal/snapshot"
)

// readSystem reads the clipboard via golang.design/x/clipboard, preferring
// the image representation over text when both are present.
func readSystem() (snapshot.Snapshot, error) {
	if img := clipboard.Read(clipboard.FmtImage); img != nil {
		return snapshot.Image(img, "image/png"), nil
	}
	if text := clipboard.Read(clipboard.FmtText); text != nil {
		return snapshot.Snapshot{Kind: snapshot.KindText, Data: text}, nil
	}
	return snapshot.None(), nil
}

// writeSystem writes the snapshot payload via golang.design/x/clipboard.
func writeSystem(s snapshot.Snapshot) error {
	switch s.Kind {
	case snapshot.KindText:
		clipboard.Write(clipboard.FmtText, s.Data)
	case snapshot.KindImage:
		if s.Format != "image/png" {
			return fmt.Errorf("unsupported image format: %s", s.Format)
		}
		clipboard.Write(clipboard.FmtImage, s.Data)
	case snapshot.KindNone:
		clipboard.Write(clipboard.FmtText, nil)
	default:
		return fmt.Errorf("unsupported snapshot kind: %s", s.Kind)
	}
	return nil
}
