package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	fileActions   *prom.CounterVec
	lastBuild     prom.Gauge
}

// NewPrometheusRecorder constructs the build metrics and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "stitch",
			Name:      "build_duration_seconds",
			Help:      "Duration of a full build pass",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "stitch",
			Name:      "build_outcomes_total",
			Help:      "Build passes by final status",
		}, []string{"outcome"}),
		fileActions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "stitch",
			Name:      "file_actions_total",
			Help:      "Input files by the action taken on them",
		}, []string{"action"}),
		lastBuild: prom.NewGauge(prom.GaugeOpts{
			Namespace: "stitch",
			Name:      "last_build_timestamp_seconds",
			Help:      "Unix time of the last completed build pass",
		}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.fileActions, pr.lastBuild)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome Outcome) {
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncFileAction(action string) {
	p.fileActions.WithLabelValues(action).Inc()
}

func (p *PrometheusRecorder) SetLastBuild(t time.Time) {
	p.lastBuild.Set(float64(t.Unix()))
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

var _ Recorder = (*PrometheusRecorder)(nil)
var _ Recorder = NoopRecorder{}
