// Package metrics records loader passes as Prometheus metrics.
//
// Metrics (namespace "fastaload"):
//   - passes_total: completed and failed passes by strategy and outcome
//   - records_total: records loaded by completed passes
//   - pass_duration_seconds: pass duration histogram
//   - storage_capacity: array capacity after the last pass
//   - storage_waste_percent: array waste after the last pass
//   - allocator_peak_bytes: peak reservation of the last pass
//
// The collector owns a private registry so several runners can coexist in
// one process. The metrics are written to a text file in the Prometheus
// exposition format, suitable for the node exporter textfile collector.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/0xRadioAc7iv/go-fastaload/core"
	"github.com/0xRadioAc7iv/go-fastaload/internal/fault"
)

const namespace = "fastaload"

// pass durations range from milliseconds for small files to minutes
var durationBuckets = []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300}

// Collector implements core.Observer.
type Collector struct {
	registry *prometheus.Registry

	passesTotal  *prometheus.CounterVec
	recordsTotal *prometheus.CounterVec
	passDuration *prometheus.HistogramVec
	capacity     *prometheus.GaugeVec
	wastePercent *prometheus.GaugeVec
	peakBytes    *prometheus.GaugeVec
}

var _ core.Observer = (*Collector)(nil)

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		passesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "passes_total",
				Help:      "Total number of load passes by outcome",
			},
			[]string{"strategy", "outcome"},
		),

		recordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_total",
				Help:      "Total number of records loaded by completed passes",
			},
			[]string{"strategy"},
		),

		passDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pass_duration_seconds",
				Help:      "Duration of completed load passes in seconds",
				Buckets:   durationBuckets,
			},
			[]string{"strategy"},
		),

		capacity: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "storage_capacity",
				Help:      "Slots allocated by the array at the end of the last pass",
			},
			[]string{"strategy"},
		),

		wastePercent: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "storage_waste_percent",
				Help:      "Share of array slots not holding records at the end of the last pass",
			},
			[]string{"strategy"},
		),

		peakBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "allocator_peak_bytes",
				Help:      "Largest number of bytes reserved during the last pass",
			},
			[]string{"strategy"},
		),
	}

	c.registry.MustRegister(
		c.passesTotal,
		c.recordsTotal,
		c.passDuration,
		c.capacity,
		c.wastePercent,
		c.peakBytes,
	)
	return c
}

// PassCompleted records a successful pass.
func (c *Collector) PassCompleted(result core.Result) {
	strategy := result.Strategy.String()

	c.passesTotal.WithLabelValues(strategy, fault.Kind(nil)).Inc()
	c.recordsTotal.WithLabelValues(strategy).Add(float64(result.Records))
	c.passDuration.WithLabelValues(strategy).Observe(result.Elapsed.Seconds())
	c.peakBytes.WithLabelValues(strategy).Set(float64(result.PeakBytes))

	if result.Strategy == core.ArrayStrategy {
		c.capacity.WithLabelValues(strategy).Set(float64(result.Capacity))
		c.wastePercent.WithLabelValues(strategy).Set(result.Waste)
	}
}

// PassFailed records a failed pass, labelled with the class of err.
func (c *Collector) PassFailed(path string, strategy core.Strategy, err error) {
	c.passesTotal.WithLabelValues(strategy.String(), fault.Kind(err)).Inc()
}

// WriteText writes every metric in the text exposition format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}
	return writeFamilies(w, families)
}

func writeFamilies(w io.Writer, families []*dto.MetricFamily) error {
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// WriteTextfile replaces fileName with the current metrics. The file is
// written beside the target and renamed so readers never see a partial
// file.
func (c *Collector) WriteTextfile(fileName string) error {
	return prometheus.WriteToTextfile(fileName, c.registry)
}
