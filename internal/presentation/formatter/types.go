package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-chatlens/internal/core/model"
)

// Supported output formats
const (
	FormatTable   = "table"
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatSummary = "summary"
)

// Formatter renders a report.
type Formatter interface {
	Format(report *model.Report) error
}

// New returns the formatter for format, writing to w.
func New(format string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", FormatTable:
		return NewTableFormatter(w), nil
	case FormatJSON:
		return NewJSONFormatter(w), nil
	case FormatCSV:
		return NewCSVFormatter(w), nil
	case FormatSummary:
		return NewSummaryFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (table, json, csv, summary)", format)
	}
}
