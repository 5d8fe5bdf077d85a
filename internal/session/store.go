// Package session keeps the dataset of the most recent upload.
package session

import (
	"sync"

	"github.com/penwyp/go-chatlens/internal/core/model"
	"github.com/penwyp/go-chatlens/internal/metrics"
)

// Store holds at most one dataset. Readers never see a partially
// replaced dataset.
type Store struct {
	mu      sync.RWMutex
	current *model.Dataset
}

func NewStore() *Store {
	return &Store{}
}

// Replace installs ds and returns the dataset it discarded, if any.
func (s *Store) Replace(ds *model.Dataset) *model.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.current
	s.current = ds
	if ds != nil {
		metrics.SessionRecords.Set(float64(len(ds.Records)))
	} else {
		metrics.SessionRecords.Set(0)
	}
	return previous
}

// Current returns the loaded dataset, or false when nothing was uploaded yet.
func (s *Store) Current() (*model.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}

// Clear drops the current dataset.
func (s *Store) Clear() {
	s.Replace(nil)
}
