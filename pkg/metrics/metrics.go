// Package metrics prometheus 指标
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/d60-Lab/chirp/pkg/apperr"
)

// Metrics 持有服务的全部指标；nil 接收者上的方法都是空操作
type Metrics struct {
	registry         *prometheus.Registry
	mutations        *prometheus.CounterVec
	timelineDuration prometheus.Histogram
	counterDrift     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chirp_mutations_total",
			Help: "Mutating operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		timelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chirp_timeline_duration_seconds",
			Help:    "Latency of timeline assembly.",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		counterDrift: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chirp_counter_drift_total",
			Help: "Denormalized counters found out of sync with their edges.",
		}, []string{"counter"}),
	}
	m.registry.MustRegister(
		m.mutations,
		m.timelineDuration,
		m.counterDrift,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler /metrics 输出
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Outcome 错误到 outcome 标签
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return apperr.KindOf(err).String()
}

// ObserveMutation 记一次写操作及其结果
func (m *Metrics) ObserveMutation(op string, err error) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, Outcome(err)).Inc()
}

func (m *Metrics) ObserveTimeline(d time.Duration) {
	if m == nil {
		return
	}
	m.timelineDuration.Observe(d.Seconds())
}

func (m *Metrics) AddDrift(counter string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.counterDrift.WithLabelValues(counter).Add(float64(n))
}
