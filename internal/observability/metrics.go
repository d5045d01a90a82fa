package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the batch pipeline.
type Metrics struct {
	FilesProcessed  *prometheus.CounterVec // labels: outcome={success,failure}
	RecordsParsed   prometheus.Counter
	MissingValues   prometheus.Counter
	BucketsWritten  prometheus.Counter
	PipelineRunning prometheus.Gauge

	// Batch metrics.
	BatchRuns              *prometheus.CounterVec // labels: outcome={success,partial,failure}
	FileProcessingDuration prometheus.Histogram
	BatchDuration          prometheus.Histogram

	// Publishing metrics.
	SummariesPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FilesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "station_wind",
			Name:      "files_processed_total",
			Help:      "Station files processed, by outcome.",
		}, []string{"outcome"}),
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "station_wind",
			Name:      "records_parsed_total",
			Help:      "Total fixed-width data lines parsed into records.",
		}),
		MissingValues: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "station_wind",
			Name:      "missing_values_total",
			Help:      "Total sentinel values (999, 9999) replaced with missing.",
		}),
		BucketsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "station_wind",
			Name:      "hourly_buckets_written_total",
			Help:      "Total hourly summary rows written.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "station_wind",
			Name:      "pipeline_running",
			Help:      "1 while a batch is running, 0 otherwise.",
		}),
		BatchRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "station_wind",
			Name:      "batch_runs_total",
			Help:      "Completed batch runs, by outcome.",
		}, []string{"outcome"}),
		FileProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "station_wind",
			Name:      "file_processing_duration_seconds",
			Help:      "Duration of parse and analyse for one station file.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "station_wind",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete batch over the input folder.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "station_wind",
			Name:      "summaries_published_total",
			Help:      "Hourly summary rows published to the configured sink.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "station_wind",
			Name:      "publish_errors_total",
			Help:      "Failed summary publications.",
		}),
	}

	prometheus.MustRegister(
		m.FilesProcessed,
		m.RecordsParsed,
		m.MissingValues,
		m.BucketsWritten,
		m.PipelineRunning,
		m.BatchRuns,
		m.FileProcessingDuration,
		m.BatchDuration,
		m.SummariesPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FilesProcessed:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "station_wind", Name: "files_processed_total"}, []string{"outcome"}),
		RecordsParsed:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "station_wind", Name: "records_parsed_total"}),
		MissingValues:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "station_wind", Name: "missing_values_total"}),
		BucketsWritten:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "station_wind", Name: "hourly_buckets_written_total"}),
		PipelineRunning:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "station_wind", Name: "pipeline_running"}),
		BatchRuns:              prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "station_wind", Name: "batch_runs_total"}, []string{"outcome"}),
		FileProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "station_wind", Name: "file_processing_duration_seconds"}),
		BatchDuration:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "station_wind", Name: "batch_duration_seconds"}),
		SummariesPublished:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "station_wind", Name: "summaries_published_total"}),
		PublishErrors:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "station_wind", Name: "publish_errors_total"}),
	}
}
