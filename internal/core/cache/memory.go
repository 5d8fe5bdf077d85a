package cache

import (
	"strconv"
	"strings"
	"sync"

	"github.com/penwyp/go-chatlens/internal/core/model"
	"github.com/penwyp/go-chatlens/internal/util"
)

// DefaultMaxEntries bounds how many selections are kept per dataset.
const DefaultMaxEntries = 64

// BuildFunc derives a report for one selection.
type BuildFunc func(ds *model.Dataset, sel model.Selection) *model.Report

// MemoryCacheEntry is a built report with access tracking
type MemoryCacheEntry struct {
	Report       *model.Report
	LastAccessed uint64
}

// MemoryCache keeps the reports built for the current dataset. Cached
// reports are shared and must be treated as read-only.
type MemoryCache struct {
	mu         sync.Mutex
	dataset    *model.Dataset
	entries    map[string]*MemoryCacheEntry
	maxEntries int
	clock      uint64
}

func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{
		entries:    make(map[string]*MemoryCacheEntry),
		maxEntries: maxEntries,
	}
}

// GetOrBuild returns the cached report for sel, building it with build on
// a miss. A different dataset than the one cached drops every entry.
// The bool result reports a cache hit.
func (mc *MemoryCache) GetOrBuild(ds *model.Dataset, sel model.Selection, build BuildFunc) (*model.Report, bool) {
	key := SelectionKey(sel)

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.dataset != ds {
		if len(mc.entries) > 0 {
			util.LogDebugf("MemoryCache: dataset changed, dropping %d reports", len(mc.entries))
		}
		mc.entries = make(map[string]*MemoryCacheEntry)
		mc.dataset = ds
	}

	mc.clock++
	if entry, ok := mc.entries[key]; ok {
		entry.LastAccessed = mc.clock
		return entry.Report, true
	}

	report := build(ds, sel)
	if len(mc.entries) >= mc.maxEntries {
		mc.evictOldest()
	}
	mc.entries[key] = &MemoryCacheEntry{Report: report, LastAccessed: mc.clock}
	return report, false
}

// evictOldest removes the least recently used entry
func (mc *MemoryCache) evictOldest() {
	var oldestKey string
	var oldest uint64
	for key, entry := range mc.entries {
		if oldestKey == "" || entry.LastAccessed < oldest {
			oldestKey, oldest = key, entry.LastAccessed
		}
	}
	delete(mc.entries, oldestKey)
}

func (mc *MemoryCache) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.entries)
}

func (mc *MemoryCache) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.entries = make(map[string]*MemoryCacheEntry)
	mc.dataset = nil
}

// SelectionKey identifies a selection. A nil subtype list (all) and an
// empty one (none) map to different keys.
func SelectionKey(sel model.Selection) string {
	var b strings.Builder
	if sel.Subtypes == nil {
		b.WriteString("*")
	} else {
		b.WriteString("[")
		b.WriteString(strings.Join(sel.Subtypes, "\x1f"))
		b.WriteString("]")
	}
	b.WriteString("\x1e")
	b.WriteString(sel.File)
	b.WriteString("\x1e")
	b.WriteString(strconv.Itoa(sel.TopN))
	return b.String()
}
