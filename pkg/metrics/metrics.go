// Package metrics exposes Prometheus collectors for hierarchy changes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder 汇总成员变更相关的指标。
type Recorder struct {
	registry *prometheus.Registry

	Removals     prometheus.Counter
	Restorations prometheus.Counter
	Promotions   prometheus.Counter
	Failures     *prometheus.CounterVec
	RosterLoads  *prometheus.CounterVec
	Members      prometheus.Gauge
}

// New 创建一组指标并注册到独立的 registry 上，避免测试之间互相污染。
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		Removals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "succession",
			Name:      "removals_total",
			Help:      "Members removed from the hierarchy.",
		}),
		Restorations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "succession",
			Name:      "restorations_total",
			Help:      "Members restored to the hierarchy.",
		}),
		Promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "succession",
			Name:      "promotions_total",
			Help:      "Removals resolved by promoting a subordinate.",
		}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "succession",
			Name:      "operation_failures_total",
			Help:      "Rejected remove/restore operations by reason.",
		}, []string{"operation", "reason"}),
		RosterLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "succession",
			Name:      "roster_loads_total",
			Help:      "Bulk roster loads by source.",
		}, []string{"source"}),
		Members: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "succession",
			Name:      "members",
			Help:      "Members currently held by the engine.",
		}),
	}
	r.registry.MustRegister(r.Removals, r.Restorations, r.Promotions, r.Failures, r.RosterLoads, r.Members)
	return r
}

// Registry returns the registry the collectors live on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the collectors in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
