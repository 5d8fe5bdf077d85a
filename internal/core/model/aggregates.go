package model

// FileCount is the number of records found in one export file.
type FileCount struct {
	FileName    string `json:"file_name"`
	RecordCount int    `json:"record_count"`
}

// KeyCount is a generic grouping result.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// HeatmapCell counts records for one (file, author) pair.
type HeatmapCell struct {
	FileName    string `json:"file_name"`
	DisplayName string `json:"display_name"`
	Count       int    `json:"count"`
}

// Heatmap holds non-empty cells and the sorted axis labels.
type Heatmap struct {
	Files []string      `json:"files"`
	Users []string      `json:"users"`
	Cells []HeatmapCell `json:"cells"`
}

// MaxCount returns the largest cell value, 0 for an empty heatmap.
func (h Heatmap) MaxCount() int {
	max := 0
	for _, c := range h.Cells {
		if c.Count > max {
			max = c.Count
		}
	}
	return max
}

// BotMessageRow is one distinct bot message occurrence together with the
// number of times its text appears among bot messages.
type BotMessageRow struct {
	Text      string `json:"text"`
	Count     int    `json:"count"`
	Date      string `json:"date"`
	DayOfWeek string `json:"day_of_week"`
	Time      string `json:"time"`
	Hour      string `json:"hour"`
}

// DayHourCount counts rows for one (day of week, hour) pair.
type DayHourCount struct {
	DayOfWeek string `json:"day_of_week"`
	Hour      string `json:"hour"`
	Count     int    `json:"count"`
}
