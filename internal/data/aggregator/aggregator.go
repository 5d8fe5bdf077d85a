// Package aggregator computes the grouped views shown on the dashboard.
// All functions are pure and keep the input table untouched.
package aggregator

import (
	"sort"

	"github.com/penwyp/go-chatlens/internal/core/model"
)

// Subtypes returns the distinct subtypes in order of first appearance.
func Subtypes(t model.Table) []string {
	return unique(t, func(r model.Record) string { return r.Subtype })
}

// FileNames returns the distinct file names in table order.
func FileNames(t model.Table) []string {
	return unique(t, func(r model.Record) string { return r.FileName })
}

// FilterBySubtypes keeps rows whose subtype is in selected.
// A nil selection keeps everything; an empty one keeps nothing.
func FilterBySubtypes(t model.Table, selected []string) model.Table {
	if selected == nil {
		return t
	}
	keep := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		keep[s] = struct{}{}
	}
	return filter(t, func(r model.Record) bool {
		_, ok := keep[r.Subtype]
		return ok
	})
}

// FilterByFile keeps rows that came from the named export file.
func FilterByFile(t model.Table, fileName string) model.Table {
	return filter(t, func(r model.Record) bool { return r.FileName == fileName })
}

// FilterBySubtype keeps rows of one subtype.
func FilterBySubtype(t model.Table, subtype string) model.Table {
	return filter(t, func(r model.Record) bool { return r.Subtype == subtype })
}

// CountByFile counts records per file, sorted by file name.
func CountByFile(t model.Table) []model.FileCount {
	counts := groupCount(t, func(r model.Record) string { return r.FileName })
	result := make([]model.FileCount, len(counts))
	for i, kc := range counts {
		result[i] = model.FileCount{FileName: kc.Key, RecordCount: kc.Count}
	}
	return result
}

// HourlyActivity counts records per hour of day, sorted by hour.
func HourlyActivity(t model.Table) []model.KeyCount {
	return groupCount(t, func(r model.Record) string { return r.Hour })
}

// UserActivity counts records per display name, sorted by name.
func UserActivity(t model.Table) []model.KeyCount {
	return groupCount(t, func(r model.Record) string { return r.DisplayName })
}

// Heatmap counts records per (file, display name) pair.
func Heatmap(t model.Table) model.Heatmap {
	type key struct{ file, user string }
	counts := make(map[key]int)
	files := make(map[string]struct{})
	users := make(map[string]struct{})

	for _, r := range t {
		counts[key{r.FileName, r.DisplayName}]++
		files[r.FileName] = struct{}{}
		users[r.DisplayName] = struct{}{}
	}

	hm := model.Heatmap{
		Files: sortedKeys(files),
		Users: sortedKeys(users),
		Cells: make([]model.HeatmapCell, 0, len(counts)),
	}
	for k, c := range counts {
		hm.Cells = append(hm.Cells, model.HeatmapCell{FileName: k.file, DisplayName: k.user, Count: c})
	}
	sort.Slice(hm.Cells, func(i, j int) bool {
		if hm.Cells[i].FileName != hm.Cells[j].FileName {
			return hm.Cells[i].FileName < hm.Cells[j].FileName
		}
		return hm.Cells[i].DisplayName < hm.Cells[j].DisplayName
	})
	return hm
}

// CommonMessages returns the n most frequent texts, most frequent first.
// Ties keep the order in which the texts first appear. n <= 0 returns all.
func CommonMessages(t model.Table, n int) []model.KeyCount {
	counts := valueCounts(t, func(r model.Record) string { return r.Text })
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// BotMessageTable lists distinct bot message occurrences with the number
// of times each text was posted by bots. Rows that repeat the same text
// and time columns collapse into the first one.
func BotMessageTable(t model.Table) []model.BotMessageRow {
	bots := FilterBySubtype(t, model.SubtypeBotMessage)
	if len(bots) == 0 {
		return nil
	}

	textCounts := make(map[string]int, len(bots))
	for _, r := range bots {
		textCounts[r.Text]++
	}

	seen := make(map[model.BotMessageRow]struct{}, len(bots))
	rows := make([]model.BotMessageRow, 0, len(bots))
	for _, r := range bots {
		row := model.BotMessageRow{
			Text:      r.Text,
			Count:     textCounts[r.Text],
			Date:      r.Date,
			DayOfWeek: r.DayOfWeek,
			Time:      r.Time,
			Hour:      r.Hour,
		}
		if _, dup := seen[row]; dup {
			continue
		}
		seen[row] = struct{}{}
		rows = append(rows, row)
	}
	return rows
}

// DayHourCounts counts bot table rows per (day of week, hour), sorted by day then hour.
func DayHourCounts(rows []model.BotMessageRow) []model.DayHourCount {
	type key struct{ day, hour string }
	counts := make(map[key]int)
	for _, r := range rows {
		counts[key{r.DayOfWeek, r.Hour}]++
	}

	result := make([]model.DayHourCount, 0, len(counts))
	for k, c := range counts {
		result = append(result, model.DayHourCount{DayOfWeek: k.day, Hour: k.hour, Count: c})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].Hour < result[j].Hour
	})
	return result
}

func filter(t model.Table, keep func(model.Record) bool) model.Table {
	result := make(model.Table, 0, len(t))
	for _, r := range t {
		if keep(r) {
			result = append(result, r)
		}
	}
	return result
}

func unique(t model.Table, keyOf func(model.Record) string) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, r := range t {
		k := keyOf(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, k)
	}
	return result
}

// groupCount counts rows per key, sorted by key.
func groupCount(t model.Table, keyOf func(model.Record) string) []model.KeyCount {
	counts := make(map[string]int)
	for _, r := range t {
		counts[keyOf(r)]++
	}
	result := make([]model.KeyCount, 0, len(counts))
	for k, c := range counts {
		result = append(result, model.KeyCount{Key: k, Count: c})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

// valueCounts counts rows per key, most frequent first, ties by first appearance.
func valueCounts(t model.Table, keyOf func(model.Record) string) []model.KeyCount {
	index := make(map[string]int)
	var result []model.KeyCount
	for _, r := range t {
		k := keyOf(r)
		if i, ok := index[k]; ok {
			result[i].Count++
			continue
		}
		index[k] = len(result)
		result = append(result, model.KeyCount{Key: k, Count: 1})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	return result
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
