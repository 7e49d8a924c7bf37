package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg            *prom.Registry
	buildDuration  *prom.HistogramVec
	buildOutcome   *prom.CounterVec
	cacheLookups   *prom.CounterVec
	skippedRecords prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
// A nil registry gets a private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		buildDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "testbin",
			Name:      "build_duration_seconds",
			Help:      "Wall time of cargo build invocations",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"binary"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "testbin",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by result",
		}, []string{"outcome"}),
		cacheLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "testbin",
			Name:      "cache_lookups_total",
			Help:      "Build cache lookups by hit or miss",
		}, []string{"result"}),
		skippedRecords: prom.NewCounter(prom.CounterOpts{
			Namespace: "testbin",
			Name:      "skipped_records_total",
			Help:      "Build tool output lines that were not valid JSON",
		}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.cacheLookups, pr.skippedRecords)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.reg
}

func (p *PrometheusRecorder) ObserveBuildDuration(binary string, d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.WithLabelValues(binary).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncCacheLookup(hit bool) {
	if p == nil {
		return
	}
	res := "miss"
	if hit {
		res = "hit"
	}
	p.cacheLookups.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) AddSkippedRecords(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.skippedRecords.Add(float64(n))
}

// WriteTextfile writes all gathered metrics to path in the text exposition format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}
