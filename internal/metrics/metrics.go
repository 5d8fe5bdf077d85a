package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Archive load results
const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatlens_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatlens_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "path"},
	)

	// Archive metrics
	ArchivesLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatlens_archives_loaded_total",
			Help: "Total archive loads",
		},
		[]string{"origin", "result"}, // "upload" or "watch"
	)

	ArchiveLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatlens_archive_load_duration_seconds",
			Help:    "Time spent extracting and flattening an archive",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	ReportCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatlens_report_cache_lookups_total",
			Help: "Report cache lookups",
		},
		[]string{"result"}, // "hit" or "miss"
	)

	SessionRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatlens_session_records",
			Help: "Records in the current session dataset",
		},
	)
)
