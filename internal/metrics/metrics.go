package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Caption source metrics
var (
	SourceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caption_source_requests_total",
			Help: "Total number of caption provider searches by outcome.",
		},
		[]string{"source", "outcome"},
	)

	SourceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "caption_source_duration_seconds",
			Help:    "Duration of caption provider searches, including abandoned ones.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"source"},
	)
)

// Caption download and normalization metrics
var (
	CaptionDownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caption_downloads_total",
			Help: "Total number of caption downloads.",
		},
		[]string{"status"},
	)

	NormalizationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caption_normalizations_total",
			Help: "Total number of caption normalizations by result.",
		},
		[]string{"result"},
	)
)

// HTTP API metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caption_http_requests_total",
			Help: "Total number of API requests.",
		},
		[]string{"method", "route", "code"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "caption_http_request_duration_seconds",
			Help:    "API request handling time.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Source outcome label values
const (
	OutcomeSuccess   = "success"
	OutcomeEmpty     = "empty"
	OutcomeTimeout   = "timeout"
	OutcomeCancelled = "cancelled"
	OutcomePanic     = "panic"
)

func init() {
	prometheus.MustRegister(
		SourceRequestsTotal,
		SourceDuration,
		CaptionDownloadsTotal,
		NormalizationsTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
