package hostfuncs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	domainerrors "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvaluator struct {
	density float64
	err     error
	nargout int
	inputs  []entities.Argument
}

func (s *stubEvaluator) Evaluate(_ context.Context, nargout int, inputs []entities.Argument) (float64, error) {
	s.nargout = nargout
	s.inputs = inputs
	return s.density, s.err
}

const densityRequest = `{"nargout":1,"inputs":[
	{"class":"double","real":[20]},
	{"class":"double","real":[30]},
	{"class":"double","real":[120]},
	{"class":"char","text":"2019-01-25 14:30:00"}]}`

func TestDensityBundle(t *testing.T) {
	bundle := DensityBundle(&stubEvaluator{}, map[string]string{"name": DensityFunction})
	handlers := bundle.Handlers()

	assert.Len(t, handlers, 2)
	assert.Contains(t, handlers, "get_atm_density")
	assert.Contains(t, handlers, "get_atm_density_signature")
}

func TestDensityBundle_Success(t *testing.T) {
	eval := &stubEvaluator{density: 0.0889}
	reg, err := NewRegistry(WithBundle(DensityBundle(eval, nil)))
	require.NoError(t, err)

	resp, err := reg.Invoke(context.Background(), DensityFunction, []byte(densityRequest))
	require.NoError(t, err)
	assert.JSONEq(t, `{"outputs":[{"class":"double","real":[0.0889]}]}`, string(resp))

	assert.Equal(t, 1, eval.nargout)
	require.Len(t, eval.inputs, 4)
	assert.Equal(t, "2019-01-25 14:30:00", eval.inputs[3].Text)
}

func TestDensityBundle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType string
		wantCode int
	}{
		{"validation", domainerrors.NewTooManyOutputs(2), "VALIDATION_ERROR", 400},
		{"init", &domainerrors.ModelInitError{Err: errors.New("no reference data")}, "MODEL_INIT_ERROR", 503},
		{"eval", &domainerrors.ModelEvalError{Err: errors.New("diverged")}, "MODEL_EVAL_ERROR", 422},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewRegistry(WithBundle(DensityBundle(&stubEvaluator{err: tt.err}, nil)))
			require.NoError(t, err)

			resp, err := reg.Invoke(context.Background(), DensityFunction, []byte(densityRequest))
			require.NoError(t, err)

			var decoded DensityResponse
			require.NoError(t, json.Unmarshal(resp, &decoded))
			assert.Empty(t, decoded.Outputs)
			require.NotNil(t, decoded.ErrorResponse)
			assert.Equal(t, tt.wantType, decoded.Error)
			assert.Equal(t, tt.wantCode, decoded.Code)
			assert.Equal(t, tt.err.Error(), decoded.Message)
		})
	}
}

func TestDensityBundle_Signature(t *testing.T) {
	doc := entities.Signature{Name: DensityFunction, Inputs: []entities.Parameter{{Name: "altitude", Unit: "km"}}}
	reg, err := NewRegistry(WithBundle(DensityBundle(&stubEvaluator{}, doc)))
	require.NoError(t, err)

	resp, err := reg.Invoke(context.Background(), DensitySignatureFunction, nil)
	require.NoError(t, err)

	var got entities.Signature
	require.NoError(t, json.Unmarshal(resp, &got))
	assert.Equal(t, doc.Name, got.Name)
	assert.Equal(t, "km", got.Inputs[0].Unit)
}
