package host

import (
	"context"
	"errors"
	"testing"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/host/registry"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/infrastructure/diagnostics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*Session, *diagnostics.Recorder) {
	t.Helper()
	rec := diagnostics.NewRecorder()
	functions := registry.NewRegistry()

	double := registry.FunctionFunc(func(_ context.Context, _ int, in []entities.Argument) []entities.Argument {
		if len(in) != 1 || len(in[0].Real) != 1 {
			rec.Report("One real input is required.")
			return nil
		}
		return []entities.Argument{entities.ScalarArgument(2 * in[0].Real[0])}
	})
	silent := registry.FunctionFunc(func(context.Context, int, []entities.Argument) []entities.Argument {
		return nil
	})

	require.NoError(t, functions.Register(double, entities.Signature{Name: "double"}))
	require.NoError(t, functions.Register(silent, entities.Signature{Name: "silent"}))
	return NewSession(functions, rec, nil), rec
}

func TestSession_Call(t *testing.T) {
	s, _ := newTestSession(t)

	out, err := s.Call(context.Background(), "double", 1, []entities.Argument{entities.ScalarArgument(21)})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 42.0, out[0].Real[0])
	assert.Equal(t, []string{"double", "silent"}, s.Functions().List())
}

func TestSession_ReportedError(t *testing.T) {
	s, rec := newTestSession(t)

	out, err := s.Call(context.Background(), "double", 1, nil)
	assert.Nil(t, out)

	var callErr *CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, "double", callErr.Function)
	assert.Equal(t, "One real input is required.", callErr.Message)
	assert.Equal(t, "Error using double\nOne real input is required.", err.Error())
	assert.Empty(t, rec.Messages(), "reported errors are consumed by the call")
}

func TestSession_StaleErrorsIgnored(t *testing.T) {
	s, rec := newTestSession(t)
	rec.Report("left over")

	_, err := s.Call(context.Background(), "double", 1, []entities.Argument{entities.ScalarArgument(1)})
	assert.NoError(t, err)
}

func TestSession_UndefinedFunction(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.Call(context.Background(), "get_density", 1, nil)
	var callErr *CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, "Undefined function 'get_density'.", callErr.Message)
}

func TestSession_NoOutput(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.Call(context.Background(), "silent", 1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Function returned no output.")

	out, err := s.Call(context.Background(), "silent", 0, nil)
	assert.NoError(t, err)
	assert.Nil(t, out)
}
