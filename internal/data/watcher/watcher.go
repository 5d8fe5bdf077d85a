// Package watcher reports zip archives dropped into a folder.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-chatlens/internal/util"
)

// DefaultDebounce is how long a file must stay unchanged before it is reported.
const DefaultDebounce = 500 * time.Millisecond

const minTick = time.Millisecond

// Event names an archive that was created or rewritten.
type Event struct {
	Path string
}

type ArchiveWatcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	events   chan Event
	done     chan struct{}
	once     sync.Once
}

// NewArchiveWatcher watches dir (not its subdirectories). Writes to the
// same archive are coalesced until debounce passes without a change.
func NewArchiveWatcher(dir string, debounce time.Duration) (*ArchiveWatcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	aw := &ArchiveWatcher{
		watcher:  watcher,
		dir:      dir,
		debounce: debounce,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}

	go aw.processEvents()

	return aw, nil
}

func (aw *ArchiveWatcher) processEvents() {
	defer close(aw.events)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(tickInterval(aw.debounce))
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-aw.watcher.Events:
			if !ok {
				return
			}
			if isArchive(event.Name) && event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				pending[event.Name] = time.Now()
			}

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < aw.debounce {
					continue
				}
				delete(pending, path)
				select {
				case aw.events <- Event{Path: path}:
				case <-aw.done:
					return
				}
			}

		case err, ok := <-aw.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue running
			util.LogError("Drop folder monitoring error: " + err.Error())

		case <-aw.done:
			return
		}
	}
}

func isArchive(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".zip")
}

func (aw *ArchiveWatcher) Dir() string {
	return aw.dir
}

// Events is closed after Close.
func (aw *ArchiveWatcher) Events() <-chan Event {
	return aw.events
}

func (aw *ArchiveWatcher) Close() error {
	var err error
	aw.once.Do(func() {
		close(aw.done)
		err = aw.watcher.Close()
	})
	return err
}

// tickInterval is how often pending archives are checked for a debounce.
func tickInterval(debounce time.Duration) time.Duration {
	if tick := debounce / 2; tick >= minTick {
		return tick
	}
	return minTick
}
