// Package wasm lets a WASM guest call the density host functions.
//
// Inside a wasip1 build the client talks to the atmdensity_host import
// module. In a native build every call fails with ErrNativeBuild.
package wasm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/hostfuncs"
)

// ErrNativeBuild is returned when the host functions are not linked in.
var ErrNativeBuild = errors.New("wasm: host functions are only available to wasip1 guests")

// RemoteError is a failure the host reported for a call.
type RemoteError struct {
	Kind    string
	Message string
	Code    int
	Detail  *entities.ErrorDetail
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

// transport invokes host function name with a JSON request.
type transport func(name string, request []byte) ([]byte, error)

// Client calls get_atm_density from a guest.
type Client struct {
	call transport
}

// NewClient returns a client bound to the host imports.
func NewClient() *Client {
	return &Client{call: hostCall}
}

// Call sends a raw get_atm_density request.
func (c *Client) Call(ctx context.Context, nargout int, inputs []entities.Argument) ([]entities.Argument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req, err := json.Marshal(entities.CallRequest{Nargout: nargout, Inputs: inputs})
	if err != nil {
		return nil, fmt.Errorf("wasm: marshal request: %w", err)
	}
	raw, err := c.call(hostfuncs.DensityFunction, req)
	if err != nil {
		return nil, err
	}

	var resp hostfuncs.DensityResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("wasm: decode response: %w", err)
	}
	if resp.ErrorResponse != nil && resp.ErrorResponse.Error != "" {
		return nil, &RemoteError{
			Kind:    resp.ErrorResponse.Error,
			Message: resp.ErrorResponse.Message,
			Code:    resp.ErrorResponse.Code,
			Detail:  resp.ErrorResponse.Detail,
		}
	}
	return resp.Outputs, nil
}

// Density returns the atmospheric density in kg/m^3 at altitude (km),
// latitude and longitude (deg), and epoch ("YYYY-MM-DD hh:mm:ss").
func (c *Client) Density(ctx context.Context, altitude, latitude, longitude float64, epoch string) (float64, error) {
	outputs, err := c.Call(ctx, 1, []entities.Argument{
		entities.ScalarArgument(altitude),
		entities.ScalarArgument(latitude),
		entities.ScalarArgument(longitude),
		entities.CharArgument(epoch),
	})
	if err != nil {
		return 0, err
	}
	if len(outputs) != 1 || len(outputs[0].Real) != 1 {
		return 0, fmt.Errorf("wasm: expected one scalar output, got %d outputs", len(outputs))
	}
	return outputs[0].Real[0], nil
}

// Signature fetches the host's description of get_atm_density.
func (c *Client) Signature(ctx context.Context) (entities.Signature, error) {
	if err := ctx.Err(); err != nil {
		return entities.Signature{}, err
	}
	raw, err := c.call(hostfuncs.DensitySignatureFunction, []byte("{}"))
	if err != nil {
		return entities.Signature{}, err
	}
	var doc struct {
		Signature entities.Signature `json:"signature"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return entities.Signature{}, fmt.Errorf("wasm: decode signature: %w", err)
	}
	return doc.Signature, nil
}
