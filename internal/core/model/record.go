package model

import "time"

// Message subtypes with special meaning on the dashboard
const (
	SubtypeMessage    = "message"
	SubtypeBotMessage = "bot_message"
)

// UnknownDisplayName is used when a message carries no display name.
const UnknownDisplayName = "Unknown"

// Record is one flattened message row.
type Record struct {
	FileName    string `json:"file_name"`
	Subtype     string `json:"subtype"`
	DisplayName string `json:"display_name"`
	Text        string `json:"text"`
	Date        string `json:"date"`
	DayOfWeek   string `json:"day_of_week"`
	Time        string `json:"time"`
	Hour        string `json:"hour"`
}

// Table is an ordered set of records.
type Table []Record

// RecordColumns are the column names of a Table, in display order.
var RecordColumns = []string{"file_name", "subtype", "display_name", "text", "date", "day_of_week", "time", "hour"}

// Values returns the record's fields in RecordColumns order.
func (r Record) Values() []string {
	return []string{r.FileName, r.Subtype, r.DisplayName, r.Text, r.Date, r.DayOfWeek, r.Time, r.Hour}
}

// LoadStats counts what happened while flattening an archive.
type LoadStats struct {
	Files             int `json:"files"`
	Messages          int `json:"messages"`
	Records           int `json:"records"`
	EmptyText         int `json:"empty_text"`
	InvalidTimestamps int `json:"invalid_timestamps"`
}

// Add accumulates other into s.
func (s *LoadStats) Add(other LoadStats) {
	s.Files += other.Files
	s.Messages += other.Messages
	s.Records += other.Records
	s.EmptyText += other.EmptyText
	s.InvalidTimestamps += other.InvalidTimestamps
}

// Dataset is the table derived from one uploaded archive.
type Dataset struct {
	Source   string    `json:"source"`
	Checksum string    `json:"checksum"`
	LoadedAt time.Time `json:"loaded_at"`
	Records  Table     `json:"records"`
	Stats    LoadStats `json:"stats"`
}
