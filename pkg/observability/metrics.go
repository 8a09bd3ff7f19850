package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records query outcomes.
type Metrics struct {
	checks    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	states    *prometheus.HistogramVec
	cacheHits prometheus.Counter
	gatherer  prometheus.Gatherer
}

// NewMetrics registers the zonecheck collectors with reg. A nil reg gets a
// fresh registry, which keeps tests independent of the global one.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zonecheck_checks_total",
				Help: "Total number of checked queries by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "zonecheck_check_duration_seconds",
				Help:    "Duration of query checks",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
			[]string{"kind"},
		),
		states: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "zonecheck_explored_states",
				Help:    "Number of symbolic states explored per check",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"kind"},
		),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zonecheck_cache_hits_total",
			Help: "Total number of verdicts served from a store",
		}),
		gatherer: reg,
	}
	reg.MustRegister(m.checks, m.duration, m.states, m.cacheHits)
	return m
}

// Hooks returns lifecycle hooks feeding m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCheckFinish: func(_ context.Context, e *domain.CheckEvent) {
			kind := string(e.Kind)
			m.checks.WithLabelValues(kind, outcome(e)).Inc()
			m.duration.WithLabelValues(kind).Observe(e.Duration.Seconds())
			if e.Verdict != nil {
				m.states.WithLabelValues(kind).Observe(float64(e.Verdict.States))
			}
		},
		OnCacheHit: func(context.Context, *domain.CheckEvent) {
			m.cacheHits.Inc()
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func outcome(e *domain.CheckEvent) string {
	switch {
	case e.Err != nil:
		return "error"
	case e.Verdict != nil && e.Verdict.Satisfied:
		return "satisfied"
	}
	return "violated"
}

// Merge chains several hook sets; each callback runs in order.
func Merge(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		out.OnCheckStart = chain(out.OnCheckStart, h.OnCheckStart)
		out.OnCheckFinish = chain(out.OnCheckFinish, h.OnCheckFinish)
		out.OnCacheHit = chain(out.OnCacheHit, h.OnCacheHit)
	}
	return out
}

func chain(a, b func(context.Context, *domain.CheckEvent)) func(context.Context, *domain.CheckEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *domain.CheckEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
