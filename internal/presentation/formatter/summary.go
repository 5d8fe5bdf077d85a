package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-chatlens/internal/core/model"
	"github.com/penwyp/go-chatlens/internal/util"
)

type SummaryFormatter struct {
	w io.Writer
}

func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{w: w}
}

func (f *SummaryFormatter) Format(report *model.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", report.Title)
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", util.GetDisplayWidth(report.Title)))

	fmt.Fprintf(&b, "Source:             %s\n", report.Source)
	if report.Checksum != "" {
		fmt.Fprintf(&b, "Checksum:           %s\n", report.Checksum)
	}
	fmt.Fprintf(&b, "Files:              %d\n", len(report.Files))
	fmt.Fprintf(&b, "Messages read:      %s\n", util.FormatNumber(report.Stats.Messages))
	fmt.Fprintf(&b, "Records kept:       %s\n", util.FormatNumber(report.Stats.Records))
	fmt.Fprintf(&b, "Empty text dropped: %s\n", util.FormatNumber(report.Stats.EmptyText))
	if report.Stats.InvalidTimestamps > 0 {
		fmt.Fprintf(&b, "Invalid timestamps: %s\n", util.FormatNumber(report.Stats.InvalidTimestamps))
	}
	fmt.Fprintf(&b, "Subtypes:           %s\n", strings.Join(report.SelectedSubtypes, ", "))
	fmt.Fprintf(&b, "Records selected:   %s\n", util.FormatNumber(len(report.Records)))

	if first, last := dateRange(report.Records); first != "" {
		fmt.Fprintf(&b, "Date range:         %s to %s\n", first, last)
	}
	if top, ok := busiest(report.UserActivity); ok {
		fmt.Fprintf(&b, "Most active user:   %s (%s)\n", top.Key, util.FormatNumber(top.Count))
	}
	if top, ok := busiest(report.HourlyActivity); ok {
		fmt.Fprintf(&b, "Busiest hour:       %s:00 (%s)\n", top.Key, util.FormatNumber(top.Count))
	}

	if report.SelectedFile != "" {
		fmt.Fprintf(&b, "\nFile %s: %s records, %d bot messages\n",
			report.SelectedFile, util.FormatNumber(len(report.FileRecords)), len(report.BotMessages))
		for i, kc := range report.CommonMessages {
			fmt.Fprintf(&b, "  %2d. %s (%d)\n", i+1, util.TruncateString(util.SingleLine(kc.Key), 60), kc.Count)
		}
	}

	_, err := io.WriteString(f.w, b.String())
	return err
}

// dateRange returns the earliest and latest non-empty dates
func dateRange(t model.Table) (string, string) {
	var first, last string
	for _, r := range t {
		if r.Date == "" {
			continue
		}
		if first == "" || r.Date < first {
			first = r.Date
		}
		if r.Date > last {
			last = r.Date
		}
	}
	return first, last
}

// busiest returns the entry with the highest count, first wins on ties
func busiest(counts []model.KeyCount) (model.KeyCount, bool) {
	var best model.KeyCount
	found := false
	for _, kc := range counts {
		if !found || kc.Count > best.Count {
			best = kc
			found = true
		}
	}
	return best, found
}
