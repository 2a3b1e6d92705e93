// Package metrics provides Prometheus metrics collection for the combination
// risk API. It exports HTTP request metrics plus counters and histograms for
// the scoring core:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//   - combination_rankings_total: Counter of completed ranking sweeps
//   - candidates_scored_total: Counter of scored candidate pairs
//   - model_inference_failures_total: Counter of per-candidate model failures
//   - ranking_duration_seconds: Histogram of full ranking sweep latency
//   - dataset_drugs / dataset_vocabulary_size: Gauges of the loaded snapshot
//
// All metrics are automatically registered with the Prometheus default
// registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	CombinationRankingsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "combination_rankings_total",
			Help: "Completed combination ranking sweeps",
		},
	)

	CandidatesScoredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "candidates_scored_total",
			Help: "Candidate drug pairs scored across all rankings",
		},
	)

	ModelInferenceFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "model_inference_failures_total",
			Help: "Candidates dropped from a ranking because severity inference failed",
		},
	)

	RankingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ranking_duration_seconds",
			Help:    "Full ranking sweep latency",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	DatasetDrugs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_drugs",
			Help: "Drugs in the loaded dataset snapshot",
		},
	)

	DatasetVocabularySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_vocabulary_size",
			Help: "Adverse-event labels in the loaded vocabulary",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(CombinationRankingsTotal)
	prometheus.MustRegister(CandidatesScoredTotal)
	prometheus.MustRegister(ModelInferenceFailuresTotal)
	prometheus.MustRegister(RankingDuration)
	prometheus.MustRegister(DatasetDrugs)
	prometheus.MustRegister(DatasetVocabularySize)
}
