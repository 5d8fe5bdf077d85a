package web

import (
	"context"
	"os"
	"path/filepath"

	"github.com/penwyp/go-chatlens/internal/data/watcher"
)

// Watch loads every archive reported on events until ctx is done or
// events is closed.
func (s *Server) Watch(ctx context.Context, events <-chan watcher.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := os.ReadFile(ev.Path)
			if err != nil {
				s.logger.Warn().Err(err).Str("path", ev.Path).Msg("failed to read dropped archive")
				continue
			}
			// Errors are logged by Ingest; the current session stays
			_, _ = s.Ingest(ctx, data, filepath.Base(ev.Path), OriginWatch)
		}
	}
}
