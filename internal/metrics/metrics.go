// Package metrics records import activity for Prometheus.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultImported = "imported"
	ResultSkipped  = "skipped"
	ResultSuccess  = "success"
	ResultFailed   = "failed"
)

// Recorder receives import events. Nop discards them.
type Recorder interface {
	RowsImported(n int)
	RowsSkipped(n int)
	Batch(success bool, d time.Duration)
}

// Nop is a Recorder that does nothing.
type Nop struct{}

func (Nop) RowsImported(int)          {}
func (Nop) RowsSkipped(int)           {}
func (Nop) Batch(bool, time.Duration) {}

// Prometheus records into its own registry.
type Prometheus struct {
	registry       *prometheus.Registry
	rowsTotal      *prometheus.CounterVec
	batchesTotal   *prometheus.CounterVec
	importDuration prometheus.Histogram
}

// NewPrometheus creates a Recorder with a fresh registry.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		rowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budgetflow_import_rows_total",
				Help: "CSV rows seen by the importer",
			},
			[]string{"result"},
		),
		batchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budgetflow_import_batches_total",
				Help: "CSV files processed by the importer",
			},
			[]string{"result"},
		),
		importDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "budgetflow_import_duration_seconds",
				Help:    "Time to parse and store one CSV file",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),
	}
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

func (p *Prometheus) RowsImported(n int) {
	p.rowsTotal.WithLabelValues(ResultImported).Add(float64(n))
}

func (p *Prometheus) RowsSkipped(n int) {
	p.rowsTotal.WithLabelValues(ResultSkipped).Add(float64(n))
}

func (p *Prometheus) Batch(success bool, d time.Duration) {
	result := ResultSuccess
	if !success {
		result = ResultFailed
	}
	p.batchesTotal.WithLabelValues(result).Inc()
	p.importDuration.Observe(d.Seconds())
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (p *Prometheus) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
