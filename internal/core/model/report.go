package model

// DefaultTopN is how many common messages the dashboard lists.
const DefaultTopN = 10

// Selection narrows the dataset the way the dashboard controls do.
type Selection struct {
	// Subtypes to keep. nil keeps every subtype, an empty slice keeps none.
	Subtypes []string `json:"subtypes"`
	// File picked for the detailed view. Empty picks the first file.
	File string `json:"file"`
	TopN int    `json:"top_n"`
}

// Report is every derived view shown on the dashboard for one selection.
type Report struct {
	Title            string          `json:"title"`
	Source           string          `json:"source"`
	Checksum         string          `json:"checksum"`
	Stats            LoadStats       `json:"stats"`
	Subtypes         []string        `json:"subtypes"`
	SelectedSubtypes []string        `json:"selected_subtypes"`
	Records          Table           `json:"records"`
	FileCounts       []FileCount     `json:"file_counts"`
	Heatmap          Heatmap         `json:"heatmap"`
	Files            []string        `json:"files"`
	SelectedFile     string          `json:"selected_file"`
	FileRecords      Table           `json:"file_records"`
	BotMessages      []BotMessageRow `json:"bot_messages"`
	BotDayHour       []DayHourCount  `json:"bot_day_hour"`
	HourlyActivity   []KeyCount      `json:"hourly_activity"`
	UserActivity     []KeyCount      `json:"user_activity"`
	CommonMessages   []KeyCount      `json:"common_messages"`
	TopN             int             `json:"top_n"`
}
