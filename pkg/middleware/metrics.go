package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kadirpekel/agentcore/pkg/strategy"
)

// Metrics collects Prometheus counters/histograms for strategy executions:
// calls, duration, and errors for the one dimension this core owns,
// strategy execution.
type Metrics struct {
	registry *prometheus.Registry

	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	steps    *prometheus.HistogramVec
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.calls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "strategy", Name: "calls_total",
		Help: "Total number of strategy executions.",
	}, []string{"strategy"})

	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "strategy", Name: "duration_seconds",
		Help:    "Strategy execution duration in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 15),
	}, []string{"strategy"})

	m.errors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "strategy", Name: "errors_total",
		Help: "Total number of strategy execution errors.",
	}, []string{"strategy", "error"})

	m.steps = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "strategy", Name: "steps",
		Help:    "Number of steps a strategy execution ran for.",
		Buckets: prometheus.LinearBuckets(1, 1, 20),
	}, []string{"strategy"})

	m.registry.MustRegister(m.calls, m.duration, m.errors, m.steps)
	return m
}

// Registry exposes the underlying registry, e.g. for promhttp.HandlerFor.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

type timingKeyType struct{}

var timingKey = timingKeyType{}

// Recording returns a Middleware that records call counts, duration, steps,
// and errors for every strategy execution.
func Recording(m *Metrics) Middleware {
	return Middleware{
		Name: "metrics",
		Before: func(ctx context.Context, ec strategy.ExecutionContext) (context.Context, strategy.ExecutionContext, error) {
			return context.WithValue(ctx, timingKey, time.Now()), ec, nil
		},
		After: func(ctx context.Context, res strategy.Result, err error) strategy.Result {
			start, _ := ctx.Value(timingKey).(time.Time)
			label := "unknown"
			if n, ok := ctx.Value(strategyNameKey{}).(string); ok {
				label = n
			}
			if !start.IsZero() {
				m.duration.WithLabelValues(label).Observe(time.Since(start).Seconds())
			}
			m.calls.WithLabelValues(label).Inc()
			m.steps.WithLabelValues(label).Observe(float64(res.State.Step()))
			if err != nil {
				m.errors.WithLabelValues(label, err.Error()).Inc()
			}
			return res
		},
	}
}

type strategyNameKey struct{}

// WithStrategyName stamps the strategy name onto the context so the
// Recording middleware can label metrics by it. Chain stamps the wrapped
// strategy's name on its own; a name stamped here before Chain.Execute/
// Stream takes precedence over it.
func WithStrategyName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, strategyNameKey{}, name)
}
