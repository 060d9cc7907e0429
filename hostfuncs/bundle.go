package hostfuncs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
)

// Host function names.
const (
	DensityFunction          = "get_atm_density"
	DensitySignatureFunction = "get_atm_density_signature"
)

// HostFuncBundle is a pre-configured set of related host functions.
// Bundles allow registering multiple handlers at once for common use cases.
type HostFuncBundle interface {
	// Handlers returns a map of handler names to ByteHandler functions.
	Handlers() map[string]ByteHandler
}

// staticBundle implements HostFuncBundle with a fixed set of handlers.
type staticBundle struct {
	handlers map[string]ByteHandler
}

func (b *staticBundle) Handlers() map[string]ByteHandler {
	return b.handlers
}

// DensityEvaluator is the gateway as seen by the host functions.
type DensityEvaluator interface {
	Evaluate(ctx context.Context, nargout int, inputs []entities.Argument) (float64, error)
}

// DensityResponse is the get_atm_density result: the output slot on success,
// the flattened ErrorResponse otherwise.
type DensityResponse struct {
	Outputs []entities.Argument `json:"outputs,omitempty"`
	*ErrorResponse
}

// CallDensity runs one get_atm_density request.
func CallDensity(ctx context.Context, eval DensityEvaluator, req entities.CallRequest) DensityResponse {
	density, err := eval.Evaluate(ctx, req.Nargout, req.Inputs)
	if err != nil {
		resp := NewErrorResponse(err)
		return DensityResponse{ErrorResponse: &resp}
	}
	return DensityResponse{Outputs: []entities.Argument{entities.ScalarArgument(density)}}
}

// DensityBundle returns get_atm_density and get_atm_density_signature.
// The signature handler ignores its payload and returns doc as JSON.
func DensityBundle(eval DensityEvaluator, doc any) HostFuncBundle {
	return &staticBundle{
		handlers: map[string]ByteHandler{
			DensityFunction: NewJSONHandler(func(ctx context.Context, req entities.CallRequest) DensityResponse {
				return CallDensity(ctx, eval, req)
			}),
			DensitySignatureFunction: func(context.Context, []byte) ([]byte, error) {
				data, err := json.Marshal(doc)
				if err != nil {
					return nil, fmt.Errorf("failed to marshal signature: %w", err)
				}
				return data, nil
			},
		},
	}
}

// WithBundle registers all handlers from a bundle.
func WithBundle(bundle HostFuncBundle) RegistryOption {
	return func(b *registryBuilder) {
		for name, handler := range bundle.Handlers() {
			if err := b.addHandler(name, handler); err != nil {
				b.errors = append(b.errors, err)
			}
		}
	}
}
