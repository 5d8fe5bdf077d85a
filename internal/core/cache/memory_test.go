package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-chatlens/internal/core/model"
)

type countingBuilder struct {
	mu    sync.Mutex
	calls int
}

func (b *countingBuilder) build(ds *model.Dataset, sel model.Selection) *model.Report {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	return &model.Report{Source: ds.Source, SelectedFile: sel.File, TopN: sel.TopN}
}

func TestSelectionKey(t *testing.T) {
	all := SelectionKey(model.Selection{TopN: 10})
	none := SelectionKey(model.Selection{Subtypes: []string{}, TopN: 10})
	msgs := SelectionKey(model.Selection{Subtypes: []string{"message"}, TopN: 10})

	assert.NotEqual(t, all, none)
	assert.NotEqual(t, none, msgs)
	assert.NotEqual(t, msgs, SelectionKey(model.Selection{Subtypes: []string{"message"}, TopN: 5}))
	assert.NotEqual(t, msgs, SelectionKey(model.Selection{Subtypes: []string{"message"}, File: "a", TopN: 10}))
	assert.NotEqual(t,
		SelectionKey(model.Selection{Subtypes: []string{"a", "b"}}),
		SelectionKey(model.Selection{Subtypes: []string{"a,b"}}))
	assert.Equal(t, msgs, SelectionKey(model.Selection{Subtypes: []string{"message"}, TopN: 10}))
}

func TestMemoryCache_GetOrBuild(t *testing.T) {
	mc := NewMemoryCache(0)
	b := &countingBuilder{}
	ds := &model.Dataset{Source: "a.zip"}
	sel := model.Selection{File: "2024-01-01", TopN: 10}

	first, hit := mc.GetOrBuild(ds, sel, b.build)
	assert.False(t, hit)
	second, hit := mc.GetOrBuild(ds, sel, b.build)
	assert.True(t, hit)
	assert.Same(t, first, second)
	assert.Equal(t, 1, b.calls)

	_, hit = mc.GetOrBuild(ds, model.Selection{File: "2024-01-02", TopN: 10}, b.build)
	assert.False(t, hit)
	assert.Equal(t, 2, mc.Len())
}

func TestMemoryCache_NewDatasetDropsEntries(t *testing.T) {
	mc := NewMemoryCache(0)
	b := &countingBuilder{}
	sel := model.Selection{TopN: 10}

	mc.GetOrBuild(&model.Dataset{Source: "a.zip"}, sel, b.build)
	mc.GetOrBuild(&model.Dataset{Source: "a.zip"}, model.Selection{TopN: 3}, b.build)
	require.Equal(t, 1, mc.Len())

	report, hit := mc.GetOrBuild(&model.Dataset{Source: "b.zip"}, sel, b.build)
	assert.False(t, hit)
	assert.Equal(t, "b.zip", report.Source)
	assert.Equal(t, 3, b.calls)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	mc := NewMemoryCache(2)
	b := &countingBuilder{}
	ds := &model.Dataset{}
	a := model.Selection{File: "a"}
	c := model.Selection{File: "c"}
	d := model.Selection{File: "d"}

	mc.GetOrBuild(ds, a, b.build)
	mc.GetOrBuild(ds, c, b.build)
	mc.GetOrBuild(ds, a, b.build) // a is now the most recent
	mc.GetOrBuild(ds, d, b.build) // evicts c

	assert.Equal(t, 2, mc.Len())
	_, hit := mc.GetOrBuild(ds, a, b.build)
	assert.True(t, hit)
	_, hit = mc.GetOrBuild(ds, c, b.build)
	assert.False(t, hit)
}

func TestMemoryCache_Clear(t *testing.T) {
	mc := NewMemoryCache(0)
	b := &countingBuilder{}
	ds := &model.Dataset{}

	mc.GetOrBuild(ds, model.Selection{}, b.build)
	mc.Clear()
	assert.Equal(t, 0, mc.Len())

	_, hit := mc.GetOrBuild(ds, model.Selection{}, b.build)
	assert.False(t, hit)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	mc := NewMemoryCache(4)
	b := &countingBuilder{}
	ds := &model.Dataset{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			report, _ := mc.GetOrBuild(ds, model.Selection{TopN: i % 6}, b.build)
			assert.Equal(t, i%6, report.TopN)
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, mc.Len(), 4)
}
