package session

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-chatlens/internal/core/model"
	"github.com/penwyp/go-chatlens/internal/metrics"
)

func dataset(source string, records int) *model.Dataset {
	return &model.Dataset{Source: source, Records: make(model.Table, records)}
}

func TestStore_Replace(t *testing.T) {
	s := NewStore()

	_, ok := s.Current()
	assert.False(t, ok)

	first := dataset("first.zip", 3)
	assert.Nil(t, s.Replace(first))
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.SessionRecords))

	second := dataset("second.zip", 5)
	assert.Same(t, first, s.Replace(second))

	current, ok := s.Current()
	require.True(t, ok)
	assert.Same(t, second, current)
	assert.Equal(t, float64(5), testutil.ToFloat64(metrics.SessionRecords))

	s.Clear()
	_, ok = s.Current()
	assert.False(t, ok)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.SessionRecords))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Replace(dataset("a.zip", i))
		}(i)
		go func() {
			defer wg.Done()
			if ds, ok := s.Current(); ok {
				assert.Equal(t, "a.zip", ds.Source)
			}
		}()
	}
	wg.Wait()

	_, ok := s.Current()
	assert.True(t, ok)
}
