package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL pipeline.
type Metrics struct {
	RecordsFetched  prometheus.Counter
	RecordsProduced prometheus.Counter
	TransformErrors prometheus.Counter
	PipelineRunning prometheus.Gauge

	// Normalization metrics.
	RecordsNormalized    *prometheus.CounterVec // labels: dataset={production,rainfall}
	RecordsDropped       *prometheus.CounterVec // labels: dataset, reason={bad_year,non_positive,missing_name}
	UnmappedSubdivisions prometheus.Counter
	ValidationViolations *prometheus.CounterVec // labels: dataset

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// data.gov.in API metrics.
	APIRequests     *prometheus.CounterVec   // labels: dataset, outcome={success,error,retry}
	APICache        *prometheus.CounterVec   // labels: dataset, result={hit,miss}
	APIDuration     *prometheus.HistogramVec // labels: dataset
	QueriesExecuted *prometheus.CounterVec   // labels: intent
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agri_etl",
			Name:      "records_fetched_total",
			Help:      "Total raw records fetched from source datasets.",
		}),
		RecordsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agri_etl",
			Name:      "records_produced_total",
			Help:      "Total canonical records written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agri_etl",
			Name:      "transform_errors_total",
			Help:      "Total transformation failures.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "agri_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		RecordsNormalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agri_etl",
			Name:      "records_normalized_total",
			Help:      "Records that survived normalization, by dataset.",
		}, []string{"dataset"}),
		RecordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agri_etl",
			Name:      "records_dropped_total",
			Help:      "Records dropped during normalization, by dataset and reason.",
		}, []string{"dataset", "reason"}),
		UnmappedSubdivisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agri_etl",
			Name:      "unmapped_subdivisions_total",
			Help:      "Rainfall rows excluded because their sub-division has no state mapping.",
		}),
		ValidationViolations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agri_etl",
			Name:      "validation_violations_total",
			Help:      "Hard invariant violations found by post-normalization validation.",
		}, []string{"dataset"}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agri_etl",
			Name:      "batch_size",
			Help:      "Number of raw records per extracted batch.",
			Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agri_etl",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agri_etl",
			Name:      "api_requests_total",
			Help:      "data.gov.in API requests by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		APICache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agri_etl",
			Name:      "api_cache_total",
			Help:      "Dataset cache lookups by dataset and result.",
		}, []string{"dataset", "result"}),
		APIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agri_etl",
			Name:      "api_request_duration_seconds",
			Help:      "data.gov.in API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"dataset"}),
		QueriesExecuted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agri_etl",
			Name:      "queries_executed_total",
			Help:      "Analysis query plans executed, by intent.",
		}, []string{"intent"}),
	}

	prometheus.MustRegister(
		m.RecordsFetched,
		m.RecordsProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.RecordsNormalized,
		m.RecordsDropped,
		m.UnmappedSubdivisions,
		m.ValidationViolations,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.APIRequests,
		m.APICache,
		m.APIDuration,
		m.QueriesExecuted,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsFetched:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "agri_etl", Name: "records_fetched_total"}),
		RecordsProduced:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "agri_etl", Name: "records_produced_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "agri_etl", Name: "transform_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "agri_etl", Name: "pipeline_running"}),
		RecordsNormalized:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "agri_etl", Name: "records_normalized_total"}, []string{"dataset"}),
		RecordsDropped:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "agri_etl", Name: "records_dropped_total"}, []string{"dataset", "reason"}),
		UnmappedSubdivisions:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "agri_etl", Name: "unmapped_subdivisions_total"}),
		ValidationViolations:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "agri_etl", Name: "validation_violations_total"}, []string{"dataset"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "agri_etl", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "agri_etl", Name: "batch_processing_duration_seconds"}),
		APIRequests:             prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "agri_etl", Name: "api_requests_total"}, []string{"dataset", "outcome"}),
		APICache:                prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "agri_etl", Name: "api_cache_total"}, []string{"dataset", "result"}),
		APIDuration:             prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "agri_etl", Name: "api_request_duration_seconds"}, []string{"dataset"}),
		QueriesExecuted:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "agri_etl", Name: "queries_executed_total"}, []string{"intent"}),
	}
}
