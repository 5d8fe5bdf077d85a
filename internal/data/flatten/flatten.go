// Package flatten turns decoded export messages into flat dashboard records.
package flatten

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-chatlens/internal/core/model"
	"github.com/penwyp/go-chatlens/internal/util"
)

// Layouts of the derived time columns
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
	HourLayout = "15"
)

// Representable epoch seconds, 0001-01-01T00:00:00Z to 9999-12-31T23:59:59Z
const (
	minTimestamp = -62135596800
	maxTimestamp = 253402300799
)

// TimeFields are the columns derived from a message timestamp.
type TimeFields struct {
	Date      string
	DayOfWeek string
	Time      string
	Hour      string
}

// FileNameFromPath returns the export file name up to its first dot,
// e.g. "exports/2024-01-02.json" -> "2024-01-02".
func FileNameFromPath(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	if i := strings.Index(base, "."); i >= 0 {
		return base[:i]
	}
	return base
}

// ParseTimestamp converts fractional epoch seconds into a time in loc.
func ParseTimestamp(ts string, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(ts)
	digits := strings.ToLower(strings.TrimLeft(trimmed, "+-"))
	if strings.HasPrefix(digits, "0x") {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: hexadecimal form", ts)
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: not a finite number", ts)
	}
	if value < minTimestamp || value > maxTimestamp {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: out of range", ts)
	}

	sec, frac := math.Modf(value)
	nsec := int64(frac * 1e9)
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(int64(sec), nsec).In(loc), nil
}

// DeriveTimeFields computes Date, DayOfWeek, Time and Hour for ts.
// An empty ts yields empty fields without error.
func DeriveTimeFields(ts string, loc *time.Location) (TimeFields, error) {
	if ts == "" {
		return TimeFields{}, nil
	}

	t, err := ParseTimestamp(ts, loc)
	if err != nil {
		return TimeFields{}, err
	}

	return TimeFields{
		Date:      t.Format(DateLayout),
		DayOfWeek: t.Weekday().String(),
		Time:      t.Format(TimeLayout),
		Hour:      t.Format(HourLayout),
	}, nil
}

// Record flattens a single message. ok is false when the message has no text.
func Record(fileName string, msg model.RawMessage, loc *time.Location) (rec model.Record, ok bool, err error) {
	text := msg.TextOrEmpty()
	if text == "" {
		return model.Record{}, false, nil
	}

	subtype := msg.SubtypeOrEmpty()
	if subtype == "" {
		subtype = model.SubtypeMessage
	}

	displayName, present := msg.DisplayName()
	if !present {
		displayName = model.UnknownDisplayName
	}

	rec = model.Record{
		FileName:    fileName,
		Subtype:     subtype,
		DisplayName: displayName,
		Text:        text,
	}

	fields, err := DeriveTimeFields(string(msg.TS), loc)
	if err != nil {
		return rec, true, err
	}
	rec.Date = fields.Date
	rec.DayOfWeek = fields.DayOfWeek
	rec.Time = fields.Time
	rec.Hour = fields.Hour
	return rec, true, nil
}

// Flatten converts all messages of one export file into records.
// Messages with an unparsable timestamp are kept with empty time columns.
func Flatten(fileName string, msgs []model.RawMessage, loc *time.Location) ([]model.Record, model.LoadStats) {
	stats := model.LoadStats{Files: 1, Messages: len(msgs)}
	records := make([]model.Record, 0, len(msgs))

	for i, msg := range msgs {
		rec, ok, err := Record(fileName, msg, loc)
		if !ok {
			stats.EmptyText++
			continue
		}
		if err != nil {
			stats.InvalidTimestamps++
			util.LogWarnf("Keeping message %s[%d] without time columns: %v", fileName, i, err)
		}
		records = append(records, rec)
	}

	stats.Records = len(records)
	return records, stats
}
