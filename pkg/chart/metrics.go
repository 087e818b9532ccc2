package chart

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chartWriteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chartsmith_chart_write_duration_seconds",
			Help:    "Time taken to write a complete chart tree",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	chartWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartsmith_chart_writes_total",
			Help: "Total number of chart write attempts",
		},
		[]string{"status"}, // success or error
	)

	chartManifestsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chartsmith_manifests_written_total",
			Help: "Total number of manifest files written under templates/",
		},
	)
)
