package observability

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := NewPromObserver(reg)
	require.NoError(t, err)

	obs.ObserveCall(ports.OutcomeOK, 20*time.Millisecond)
	obs.ObserveCall(ports.OutcomeOK, 30*time.Millisecond)
	obs.ObserveCall(ports.OutcomeValidationError, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(obs.calls.WithLabelValues(ports.OutcomeOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(obs.calls.WithLabelValues(ports.OutcomeValidationError)))
	assert.Equal(t, float64(0), testutil.ToFloat64(obs.calls.WithLabelValues(ports.OutcomeModelInitError)))
	assert.Equal(t, 1, testutil.CollectAndCount(obs.duration))

	expected := `
# HELP atmdensity_calls_total get_atm_density calls by outcome.
# TYPE atmdensity_calls_total counter
atmdensity_calls_total{outcome="internal_error"} 0
atmdensity_calls_total{outcome="model_eval_error"} 0
atmdensity_calls_total{outcome="model_init_error"} 0
atmdensity_calls_total{outcome="ok"} 2
atmdensity_calls_total{outcome="validation_error"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "atmdensity_calls_total"))
}

func TestNewPromObserver_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromObserver(reg)
	require.NoError(t, err)

	_, err = NewPromObserver(reg)
	assert.Error(t, err)
}
