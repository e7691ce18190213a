package engine

import (
	"context"
	"log/slog"

	"go.klb.dev/reclip/internal/history"
)

// logCapture logs a capture at INFO (id, kind, source) and DEBUG (content
// preview, truncated for text, byte size for images).
func logCapture(event string, e history.Entry) {
	slog.Info(event,
		"id", e.ID,
		"kind", e.Payload.Kind,
		"source", e.SourceHint,
	)
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	slog.Debug("entry content", "id", e.ID, "preview", e.Payload.Preview())
}
