// Package observability records gateway call outcomes as Prometheus metrics.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/ports"
)

var _ ports.CallObserver = (*PromObserver)(nil)

// PromObserver implements ports.CallObserver.
type PromObserver struct {
	calls    *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewPromObserver creates the collectors and registers them with reg.
// A nil reg means prometheus.DefaultRegisterer.
func NewPromObserver(reg prometheus.Registerer) (*PromObserver, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atmdensity_calls_total",
		Help: "get_atm_density calls by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "atmdensity_call_duration_seconds",
		Help:    "Wall time of a get_atm_density call, model construction included.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	for _, c := range []prometheus.Collector{calls, duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	// Pre-create every outcome so the series exist before the first call.
	for _, o := range []string{
		ports.OutcomeOK, ports.OutcomeValidationError, ports.OutcomeModelInitError,
		ports.OutcomeModelEvalError, ports.OutcomeInternalError,
	} {
		calls.WithLabelValues(o)
	}

	return &PromObserver{calls: calls, duration: duration}, nil
}

// ObserveCall implements ports.CallObserver.
func (p *PromObserver) ObserveCall(outcome string, elapsed time.Duration) {
	p.calls.WithLabelValues(outcome).Inc()
	p.duration.Observe(elapsed.Seconds())
}
