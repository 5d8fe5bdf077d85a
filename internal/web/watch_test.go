package web

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-chatlens/internal/data/watcher"
)

func TestWatch_LoadsDroppedArchives(t *testing.T) {
	s, _ := newTestServer(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "drop.zip")
	require.NoError(t, os.WriteFile(good, sampleZip(t), 0644))
	bad := filepath.Join(dir, "broken.zip")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0644))

	events := make(chan watcher.Event, 3)
	events <- watcher.Event{Path: good}
	events <- watcher.Event{Path: bad}
	events <- watcher.Event{Path: filepath.Join(dir, "vanished.zip")}
	close(events)

	s.Watch(context.Background(), events)

	ds, ok := s.store.Current()
	require.True(t, ok)
	assert.Equal(t, "drop.zip", ds.Source)
}

func TestWatch_StopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		s.Watch(ctx, make(chan watcher.Event))
		close(done)
	}()
	<-done

	_, ok := s.store.Current()
	assert.False(t, ok)
}
