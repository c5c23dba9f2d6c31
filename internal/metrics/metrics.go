package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments shared by the ingestion loop
// and the aggregation scheduler.
type Metrics struct {
	EventsAccepted  prometheus.Counter
	EventsDiscarded *prometheus.CounterVec
	InsertErrors    prometheus.Counter
	Reconnects      prometheus.Counter

	AggregationRuns     *prometheus.CounterVec
	AggregationDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		EventsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rtta_events_accepted_total",
			Help: "Stream events that produced a stored post row",
		}),
		EventsDiscarded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rtta_events_discarded_total",
			Help: "Stream events dropped before storage, by reason",
		}, []string{"reason"}),
		InsertErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rtta_insert_errors_total",
			Help: "Post rows dropped because the insert failed",
		}),
		Reconnects: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rtta_stream_reconnects_total",
			Help: "Stream connection attempts after a drop or rate limit",
		}),
		AggregationRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rtta_aggregation_runs_total",
			Help: "Aggregation passes by outcome",
		}, []string{"status"}),
		AggregationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rtta_aggregation_duration_seconds",
			Help:    "Wall time of one full aggregation pass",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
