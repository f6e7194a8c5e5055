// Package prom exports run reports as Prometheus metrics in the
// node-exporter textfile format.
package prom

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/aipsync/internal/core/domain"
	"github.com/custodia-labs/aipsync/internal/core/ports/driven"
)

// Ensure TextfileSink implements the interface.
var _ driven.MetricsSink = (*TextfileSink)(nil)

const namespace = "aipsync"

// TextfileSink writes the metrics of the latest run to a textfile.
// Each Record replaces the file atomically.
type TextfileSink struct {
	path string
}

// NewTextfileSink creates a sink writing to path.
func NewTextfileSink(path string) *TextfileSink {
	return &TextfileSink{path: path}
}

// Path returns the textfile path.
func (s *TextfileSink) Path() string {
	return s.path
}

// Record writes the metrics describing report.
func (s *TextfileSink) Record(report *domain.SyncReport) error {
	reg := prometheus.NewRegistry()
	if err := register(reg, report); err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(s.path, reg); err != nil {
		return fmt.Errorf("write metrics %s: %w", s.path, err)
	}
	return nil
}

// register builds gauges for report on reg.
func register(reg *prometheus.Registry, report *domain.SyncReport) error {
	documents := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "documents",
		Help:      "Documents per category and outcome in the last run.",
	}, []string{"category", "outcome"})

	listErrors := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "category_list_failed",
		Help:      "Whether the category listing failed in the last run.",
	}, []string{"category"})

	entries := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "bundle_entries",
		Help:      "Bookmarks in the last bundle written.",
	})

	success := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_success",
		Help:      "Whether the last run finalized a bundle.",
	})

	started := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run started.",
	})

	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_duration_seconds",
		Help:      "Duration of the last run.",
	})

	for _, c := range []prometheus.Collector{documents, listErrors, entries, success, started, duration} {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
	}

	for _, c := range report.Categories {
		cat := string(c.Category)
		documents.WithLabelValues(cat, "listed").Set(float64(c.Listed))
		documents.WithLabelValues(cat, "fetched").Set(float64(c.Fetched))
		documents.WithLabelValues(cat, "bundled").Set(float64(c.Bundled))
		documents.WithLabelValues(cat, "up_to_date").Set(float64(c.UpToDate))
		documents.WithLabelValues(cat, "not_yet_effective").Set(float64(c.NotYetEffective))
		documents.WithLabelValues(cat, "invalid_content_type").Set(float64(c.InvalidContentType))
		documents.WithLabelValues(cat, "failed").Set(float64(c.Failed))
		listErrors.WithLabelValues(cat).Set(boolValue(c.ListError != ""))
	}

	entries.Set(float64(len(report.Entries)))
	success.Set(boolValue(report.BundlePath != ""))
	if !report.StartedAt.IsZero() {
		started.Set(float64(report.StartedAt.Unix()))
	}
	duration.Set(report.Duration().Seconds())
	return nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
