package teamsai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for rendering and function calls.
// A nil *Metrics records nothing.
type Metrics struct {
	rendersTotal     *prometheus.CounterVec
	renderDuration   *prometheus.HistogramVec
	functionsTotal   *prometheus.CounterVec
	truncationsTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// Passing prometheus.DefaultRegisterer exposes them on the default registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		rendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      MetricNameRenders,
				Help:      MetricHelpRenders,
			},
			[]string{MetricLabelStatus}, // status: success, error
		),
		renderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Name:      MetricNameRenderDuration,
				Help:      MetricHelpRenderDuration,
				Buckets:   MetricRenderDurationBuckets,
			},
			[]string{MetricLabelStatus},
		),
		functionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      MetricNameFunctions,
				Help:      MetricHelpFunctions,
			},
			[]string{MetricLabelFunc, MetricLabelStatus},
		),
		truncationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      MetricNameTruncations,
				Help:      MetricHelpTruncations,
			},
			[]string{MetricLabelSource},
		),
	}

	for _, c := range []prometheus.Collector{m.rendersTotal, m.renderDuration, m.functionsTotal, m.truncationsTotal} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeRender(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rendersTotal.WithLabelValues(status).Inc()
	m.renderDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

func (m *Metrics) observeFunction(name, status string) {
	if m == nil {
		return
	}
	m.functionsTotal.WithLabelValues(name, status).Inc()
}

func (m *Metrics) observeTruncation(source string) {
	if m == nil {
		return
	}
	m.truncationsTotal.WithLabelValues(source).Inc()
}
