// Package web serves the upload form, the dashboard and its JSON views.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/penwyp/go-chatlens/internal/analyzer"
	"github.com/penwyp/go-chatlens/internal/config"
	"github.com/penwyp/go-chatlens/internal/core/cache"
	"github.com/penwyp/go-chatlens/internal/core/model"
	"github.com/penwyp/go-chatlens/internal/data/loader"
	"github.com/penwyp/go-chatlens/internal/metrics"
	"github.com/penwyp/go-chatlens/internal/session"
	"github.com/penwyp/go-chatlens/internal/util"
)

const version = "0.1.0"

// Archive origins reported in metrics
const (
	OriginUpload = "upload"
	OriginWatch  = "watch"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server holds the dependencies shared by all handlers.
type Server struct {
	cfg       *config.Config
	store     *session.Store
	loader    *loader.Loader
	reports   *cache.MemoryCache
	logger    zerolog.Logger
	dashboard *template.Template
}

// NewServer creates a Server. The timezone and folder come from cfg.
func NewServer(cfg *config.Config, store *session.Store, logger zerolog.Logger) (*Server, error) {
	loc, err := util.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("dashboard.html").Funcs(template.FuncMap{
		"number": util.FormatNumber,
		"join":   strings.Join,
	}).ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		cfg:       cfg,
		store:     store,
		loader:    loader.New(loader.Options{Folder: cfg.Folder, Location: loc}),
		reports:   cache.NewMemoryCache(cache.DefaultMaxEntries),
		logger:    logger,
		dashboard: tmpl,
	}, nil
}

// Ingest loads archive bytes and makes them the current session.
// The previous dataset is kept when loading fails.
func (s *Server) Ingest(ctx context.Context, data []byte, source, origin string) (*model.Dataset, error) {
	start := time.Now()
	ds, err := s.loader.LoadArchive(ctx, data, source)
	metrics.ArchiveLoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ArchivesLoaded.WithLabelValues(origin, metrics.ResultError).Inc()
		s.logger.Warn().Err(err).Str("source", source).Str("origin", origin).Msg("archive rejected")
		return nil, err
	}
	metrics.ArchivesLoaded.WithLabelValues(origin, metrics.ResultOK).Inc()

	s.store.Replace(ds)
	s.logger.Info().
		Str("source", source).
		Str("origin", origin).
		Str("folder", s.loader.Folder()).
		Str("checksum", ds.Checksum).
		Int("files", ds.Stats.Files).
		Int("records", ds.Stats.Records).
		Dur("elapsed", time.Since(start)).
		Msg("session replaced")
	return ds, nil
}

// buildReport returns the report for sel over ds, reusing earlier builds.
func (s *Server) buildReport(ds *model.Dataset, sel model.Selection) *model.Report {
	report, hit := s.reports.GetOrBuild(ds, sel, analyzer.BuildReport)
	result := "miss"
	if hit {
		result = "hit"
	}
	metrics.ReportCacheLookups.WithLabelValues(result).Inc()
	return report
}
