// Package metrics provides Prometheus metrics for shirushi.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Source label values for indexed bookmarks.
const (
	SourceAPI     = "api"
	SourceImport  = "import"
	SourceReindex = "reindex"
)

var (
	// SearchTotal counts searches by outcome.
	SearchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shirushi",
			Name:      "search_total",
			Help:      "Total number of searches",
		},
		[]string{"status"},
	)

	// SearchDuration measures search duration.
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shirushi",
			Name:      "search_duration_seconds",
			Help:      "Duration of searches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// BookmarksIndexedTotal counts bookmarks written to the index.
	BookmarksIndexedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shirushi",
			Name:      "bookmarks_indexed_total",
			Help:      "Total number of bookmarks indexed",
		},
		[]string{"source"},
	)

	// BackupsTotal counts database snapshots by outcome.
	BackupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shirushi",
			Name:      "backups_total",
			Help:      "Total number of database backups",
		},
		[]string{"status"},
	)
)

// RecordSearch records a search.
func RecordSearch(err error, duration float64) {
	SearchTotal.WithLabelValues(status(err)).Inc()
	SearchDuration.Observe(duration)
}

// RecordIndexed records n bookmarks indexed from source.
func RecordIndexed(source string, n int) {
	if n <= 0 {
		return
	}
	BookmarksIndexedTotal.WithLabelValues(source).Add(float64(n))
}

// RecordBackup records a backup attempt.
func RecordBackup(err error) {
	BackupsTotal.WithLabelValues(status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}
