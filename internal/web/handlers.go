package web

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-chatlens/internal/analyzer"
	"github.com/penwyp/go-chatlens/internal/core/model"
	"github.com/penwyp/go-chatlens/internal/data/archive"
	"github.com/penwyp/go-chatlens/internal/presentation/charts"
	"github.com/penwyp/go-chatlens/internal/util"
)

const uploadField = "archive"

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string       `json:"status"`
	Version   string       `json:"version"`
	Session   *SessionInfo `json:"session,omitempty"`
	Reports   int          `json:"cached_reports"`
	Timestamp string       `json:"timestamp"`
}

// SessionInfo describes the loaded dataset.
type SessionInfo struct {
	Source   string          `json:"source"`
	Checksum string          `json:"checksum"`
	LoadedAt string          `json:"loaded_at"`
	Stats    model.LoadStats `json:"stats"`
}

// UploadResponse is returned to clients asking for JSON.
type UploadResponse struct {
	Session SessionInfo `json:"session"`
	Files   []string    `json:"files"`
}

// RecordsResponse is the flat table for a selection.
type RecordsResponse struct {
	Count   int         `json:"count"`
	Records model.Table `json:"records"`
}

// dashboardData feeds templates/dashboard.html.
type dashboardData struct {
	Title     string
	HasData   bool
	Report    *model.Report
	Session   SessionInfo
	Selected  map[string]bool
	ChartsURL template.URL
	MaxUpload string
}

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := sonic.Marshal(data)
	if err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError sends a JSON error response with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) sessionInfo(ds *model.Dataset) SessionInfo {
	return SessionInfo{
		Source:   ds.Source,
		Checksum: ds.Checksum,
		LoadedAt: util.GetTimeProvider().Format(ds.LoadedAt, "2006-01-02 15:04:05"),
		Stats:    ds.Stats,
	}
}

// Health handles the health check endpoint.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Version:   version,
		Reports:   s.reports.Len(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if ds, ok := s.store.Current(); ok {
		info := s.sessionInfo(ds)
		resp.Session = &info
	}
	writeJSON(w, http.StatusOK, resp)
}

// Dashboard renders the upload form and, once an archive is loaded, every view.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := dashboardData{
		Title:     analyzer.DefaultTitle,
		MaxUpload: util.FormatBytes(s.cfg.MaxUploadBytes()),
	}

	if ds, ok := s.store.Current(); ok {
		report := s.buildReport(ds, parseSelection(r, s.cfg.TopN))
		data.HasData = true
		data.Report = report
		data.Session = s.sessionInfo(ds)
		data.ChartsURL = template.URL("/charts?" + selectionQuery(report))
		data.Selected = make(map[string]bool, len(report.SelectedSubtypes))
		for _, st := range report.SelectedSubtypes {
			data.Selected[st] = true
		}
	}

	var buf bytes.Buffer
	if err := s.dashboard.Execute(&buf, data); err != nil {
		s.logger.Error().Err(err).Msg("dashboard render failed")
		writeError(w, http.StatusInternalServerError, "failed to render dashboard")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Upload replaces the session with the posted archive.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "archive exceeds "+util.FormatBytes(s.cfg.MaxUploadBytes()))
			return
		}
		writeError(w, http.StatusBadRequest, "missing archive file in field '"+uploadField+"'")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".zip") {
		writeError(w, http.StatusBadRequest, "only .zip archives are accepted")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "archive exceeds "+util.FormatBytes(s.cfg.MaxUploadBytes()))
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	ds, err := s.Ingest(r.Context(), data, filepath.Base(header.Filename), OriginUpload)
	if err != nil {
		writeError(w, loadErrorStatus(err), err.Error())
		return
	}

	if wantsJSON(r) {
		report := s.buildReport(ds, model.Selection{TopN: s.cfg.TopN})
		writeJSON(w, http.StatusCreated, UploadResponse{Session: s.sessionInfo(ds), Files: report.Files})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Charts renders the chart page for the selection in the query string.
func (s *Server) Charts(w http.ResponseWriter, r *http.Request) {
	report, ok := s.report(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderPage(&buf, report); err != nil {
		s.logger.Error().Err(err).Msg("chart render failed")
		writeError(w, http.StatusInternalServerError, "failed to render charts")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Records returns the filtered record table.
func (s *Server) Records(w http.ResponseWriter, r *http.Request) {
	report, ok := s.report(w, r)
	if !ok {
		return
	}
	records := report.Records
	if records == nil {
		records = model.Table{}
	}
	writeJSON(w, http.StatusOK, RecordsResponse{Count: len(records), Records: records})
}

// Report returns every dashboard view as JSON.
func (s *Server) Report(w http.ResponseWriter, r *http.Request) {
	report, ok := s.report(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// report builds the report for the request, answering 404 when no
// archive has been uploaded yet.
func (s *Server) report(w http.ResponseWriter, r *http.Request) (*model.Report, bool) {
	ds, ok := s.store.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "no archive uploaded")
		return nil, false
	}
	return s.buildReport(ds, parseSelection(r, s.cfg.TopN)), true
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

// loadErrorStatus maps a load failure to a status code. Loading depends
// only on the uploaded bytes, so anything but cancellation is the client's.
func loadErrorStatus(err error) int {
	if errors.Is(err, archive.ErrTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// ClearSession discards the loaded archive and every report built from it.
func (s *Server) ClearSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.store.Current(); !ok {
		writeError(w, http.StatusNotFound, "no archive uploaded")
		return
	}
	s.store.Clear()
	s.reports.Clear()
	s.logger.Info().Msg("session cleared")
	w.WriteHeader(http.StatusNoContent)
}
