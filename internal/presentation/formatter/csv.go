package formatter

import (
	"encoding/csv"
	"io"

	"github.com/penwyp/go-chatlens/internal/core/model"
)

// CSVFormatter writes the filtered record table, one row per record.
type CSVFormatter struct {
	w io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

func (f *CSVFormatter) Format(report *model.Report) error {
	w := csv.NewWriter(f.w)

	if err := w.Write(model.RecordColumns); err != nil {
		return err
	}
	for _, r := range report.Records {
		if err := w.Write(r.Values()); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
