package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/penwyp/go-chatlens/internal/core/model"
)

// parseSelection reads the dashboard controls from the query string.
//
//	subtype  repeated, the subtypes to keep
//	filter   set by the dashboard form so that no subtype means none
//	file     file for the detail views
//	top      number of common messages
func parseSelection(r *http.Request, defaultTopN int) model.Selection {
	q := r.URL.Query()
	sel := model.Selection{File: q.Get("file"), TopN: defaultTopN}

	subtypes, given := q["subtype"]
	if given || q.Get("filter") != "" {
		sel.Subtypes = make([]string, 0, len(subtypes))
		for _, s := range subtypes {
			if s != "" {
				sel.Subtypes = append(sel.Subtypes, s)
			}
		}
	}

	if n, err := strconv.Atoi(q.Get("top")); err == nil && n > 0 {
		sel.TopN = n
	}
	return sel
}

// selectionQuery encodes the selection a report was built with.
func selectionQuery(report *model.Report) string {
	q := url.Values{}
	q.Set("filter", "1")
	for _, s := range report.SelectedSubtypes {
		q.Add("subtype", s)
	}
	if report.SelectedFile != "" {
		q.Set("file", report.SelectedFile)
	}
	q.Set("top", strconv.Itoa(report.TopN))
	return q.Encode()
}
