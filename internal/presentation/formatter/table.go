package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-chatlens/internal/core/model"
	"github.com/penwyp/go-chatlens/internal/util"
)

const (
	minColumnWidth = 4
	barWidth       = 30
)

type TableFormatter struct {
	w            io.Writer
	maxTextWidth int
	color        bool
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	maxText := util.TerminalWidth() / 2
	if maxText < 20 {
		maxText = 20
	}
	return &TableFormatter{
		w:            w,
		maxTextWidth: maxText,
		color:        util.IsTerminal(w),
	}
}

// column describes one table column
type column struct {
	header     string
	rightAlign bool
	truncate   bool
}

func (f *TableFormatter) Format(report *model.Report) error {
	f.title(report.Title)
	fmt.Fprintf(f.w, "Source: %s  Records: %s  Files: %d  Subtypes: %s\n",
		report.Source,
		util.FormatNumber(len(report.Records)),
		len(report.Files),
		strings.Join(report.SelectedSubtypes, ", "))

	f.section("Number of Records per File")
	rows := make([][]string, 0, len(report.FileCounts)+1)
	total := 0
	for _, fc := range report.FileCounts {
		rows = append(rows, []string{fc.FileName, util.FormatNumber(fc.RecordCount)})
		total += fc.RecordCount
	}
	f.render([]column{{header: "File Name"}, {header: "Number of Records", rightAlign: true}}, rows,
		[]string{"Total", util.FormatNumber(total)})

	f.section("Mentions by File and Display Name")
	rows = rows[:0]
	for _, c := range report.Heatmap.Cells {
		rows = append(rows, []string{c.FileName, c.DisplayName, util.FormatNumber(c.Count)})
	}
	f.render([]column{{header: "File Name"}, {header: "Display Name", truncate: true}, {header: "Count", rightAlign: true}}, rows, nil)

	if report.SelectedFile == "" {
		return nil
	}

	f.section(fmt.Sprintf("Data for %s", report.SelectedFile))
	rows = rows[:0]
	for _, r := range report.FileRecords {
		rows = append(rows, []string{r.Subtype, r.DisplayName, util.SingleLine(r.Text), r.Date, r.DayOfWeek, r.Time})
	}
	f.render([]column{
		{header: "Subtype"}, {header: "Display Name", truncate: true}, {header: "Text", truncate: true},
		{header: "Date"}, {header: "Day"}, {header: "Time"},
	}, rows, nil)

	if len(report.BotMessages) > 0 {
		f.section("Bot Messages Text Count with Date and Time")
		rows = rows[:0]
		for _, b := range report.BotMessages {
			rows = append(rows, []string{util.SingleLine(b.Text), util.FormatNumber(b.Count), b.Date, b.DayOfWeek, b.Time, b.Hour})
		}
		f.render([]column{
			{header: "Text", truncate: true}, {header: "Count", rightAlign: true},
			{header: "Date"}, {header: "Day"}, {header: "Time"}, {header: "Hour"},
		}, rows, nil)

		f.section("Count of Bot Messages by Day of Week and Hour of the Day")
		rows = rows[:0]
		max := 0
		for _, dh := range report.BotDayHour {
			if dh.Count > max {
				max = dh.Count
			}
		}
		for _, dh := range report.BotDayHour {
			rows = append(rows, []string{dh.DayOfWeek, dh.Hour, util.FormatNumber(dh.Count), bar(dh.Count, max)})
		}
		f.render([]column{{header: "Day of Week"}, {header: "Hour"}, {header: "Count", rightAlign: true}, {header: ""}}, rows, nil)
	}

	f.section("Hourly Activity")
	f.renderCounts("Hour of the Day", "Number of Messages", report.HourlyActivity)

	f.section("User Activity")
	f.renderCounts("User", "Number of Messages", report.UserActivity)

	f.section(fmt.Sprintf("Top %d Most Common Messages in %s", report.TopN, report.SelectedFile))
	rows = rows[:0]
	for _, kc := range report.CommonMessages {
		rows = append(rows, []string{util.SingleLine(kc.Key), util.FormatNumber(kc.Count)})
	}
	f.render([]column{{header: "Text", truncate: true}, {header: "Count", rightAlign: true}}, rows, nil)

	return nil
}

func (f *TableFormatter) renderCounts(keyHeader, countHeader string, counts []model.KeyCount) {
	max := 0
	for _, kc := range counts {
		if kc.Count > max {
			max = kc.Count
		}
	}
	rows := make([][]string, 0, len(counts))
	for _, kc := range counts {
		rows = append(rows, []string{kc.Key, util.FormatNumber(kc.Count), bar(kc.Count, max)})
	}
	f.render([]column{{header: keyHeader, truncate: true}, {header: countHeader, rightAlign: true}, {header: ""}}, rows, nil)
}

func (f *TableFormatter) title(title string) {
	if f.color {
		title = util.FormatHeaderTitle(title)
	}
	fmt.Fprintln(f.w, title)
}

func (f *TableFormatter) section(name string) {
	if f.color {
		name = util.FormatDataTitle(name)
	}
	fmt.Fprintln(f.w)
	fmt.Fprintln(f.w, name)
}

// render prints a box-drawn table. footer, when set, is printed below a separator.
func (f *TableFormatter) render(cols []column, rows [][]string, footer []string) {
	cells := make([][]string, 0, len(rows)+1)
	for _, row := range rows {
		cells = append(cells, f.clip(cols, row))
	}
	if footer != nil {
		footer = f.clip(cols, footer)
	}

	widths := calculateColumnWidths(cols, cells, footer)

	f.printBorder(widths, "top")
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.header
	}
	f.printRow(cols, headers, widths, true)
	f.printBorder(widths, "middle")

	if len(cells) == 0 {
		empty := make([]string, len(cols))
		empty[0] = "(no data)"
		f.printRow(cols, empty, widths, true)
	}
	for _, row := range cells {
		f.printRow(cols, row, widths, false)
	}

	if footer != nil {
		f.printBorder(widths, "middle")
		f.printRow(cols, footer, widths, false)
	}
	f.printBorder(widths, "bottom")
}

func (f *TableFormatter) clip(cols []column, row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if i < len(cols) && cols[i].truncate {
			v = util.TruncateString(v, f.maxTextWidth)
		}
		out[i] = v
	}
	return out
}

// calculateColumnWidths determines the display width of each column
func calculateColumnWidths(cols []column, rows [][]string, footer []string) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = util.GetDisplayWidth(c.header)
		if widths[i] < minColumnWidth {
			widths[i] = minColumnWidth
		}
	}

	check := func(row []string) {
		for i, v := range row {
			if i < len(widths) {
				if w := util.GetDisplayWidth(v); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	for _, row := range rows {
		check(row)
	}
	if footer != nil {
		check(footer)
	}
	if w := util.GetDisplayWidth("(no data)"); len(rows) == 0 && w > widths[0] {
		widths[0] = w
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right string

	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var b strings.Builder
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	fmt.Fprintln(f.w, b.String())
}

// printRow prints a data row with proper alignment
func (f *TableFormatter) printRow(cols []column, values []string, widths []int, header bool) {
	var b strings.Builder
	b.WriteString("│")
	for i, value := range values {
		leftAlign := header || !cols[i].rightAlign
		b.WriteString(" ")
		b.WriteString(util.PadString(value, widths[i], leftAlign))
		b.WriteString(" │")
	}
	fmt.Fprintln(f.w, b.String())
}

// bar draws a horizontal bar proportional to value/max
func bar(value, max int) string {
	if max <= 0 || value <= 0 {
		return ""
	}
	n := value * barWidth / max
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
