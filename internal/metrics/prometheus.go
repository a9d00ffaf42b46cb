package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus wraps another collector and mirrors its snapshot into a
// private registry, which can be written as a node-exporter textfile.
type Prometheus struct {
	inner    Collector
	registry *prometheus.Registry

	files    prometheus.Counter
	findings prometheus.Counter
	elapsed  prometheus.Gauge
	memDelta prometheus.Gauge
	runs     prometheus.Counter
}

// NewPrometheus returns a collector that forwards to inner (Nop when nil)
// and records into its own registry.
func NewPrometheus(inner Collector) *Prometheus {
	if inner == nil {
		inner = Nop{}
	}
	p := &Prometheus{
		inner:    inner,
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "codeguardian",
			Name:      "files_scanned_total",
			Help:      "Files inspected by the scan.",
		}),
		findings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "codeguardian",
			Name:      "secret_findings_total",
			Help:      "Secret findings reported by the scan.",
		}),
		elapsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "codeguardian",
			Name:      "scan_duration_seconds",
			Help:      "Wall clock duration of the last scan.",
		}),
		memDelta: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "codeguardian",
			Name:      "scan_heap_delta_bytes",
			Help:      "Heap growth over the last scan.",
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "codeguardian",
			Name:      "scans_total",
			Help:      "Completed scans.",
		}),
	}
	p.registry.MustRegister(p.files, p.findings, p.elapsed, p.memDelta, p.runs)
	return p
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

func (p *Prometheus) Start() { p.inner.Start() }

func (p *Prometheus) FileScanned() {
	p.files.Inc()
	p.inner.FileScanned()
}

func (p *Prometheus) Findings(n int) {
	p.findings.Add(float64(n))
	p.inner.Findings(n)
}

func (p *Prometheus) Finish() Snapshot {
	s := p.inner.Finish()
	p.elapsed.Set(s.Elapsed.Seconds())
	p.memDelta.Set(float64(s.MemDelta))
	p.runs.Inc()
	return s
}

// WriteTextfile writes the registry in the text exposition format.
func (p *Prometheus) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
