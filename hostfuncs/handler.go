package hostfuncs

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultMaxRequestSize bounds a single request payload (1MB).
const DefaultMaxRequestSize = 1 * 1024 * 1024

// HostFunc is a typed host function: a context and a request in, a response out.
type HostFunc[Req any, Resp any] func(context.Context, Req) Resp

// ByteHandler is a function that accepts raw bytes (JSON) and returns raw bytes (JSON).
// This is the common interface that WASM runtimes can easily use.
type ByteHandler func(context.Context, []byte) ([]byte, error)

// NewJSONHandler wraps a typed HostFunc into a ByteHandler.
// A request that does not decode yields a VALIDATION_ERROR response, not a Go error.
// A request already decoded by PayloadValidationMiddleware is used as is.
//
// Usage:
//
//	density := hostfuncs.NewJSONHandler(func(ctx context.Context, req entities.CallRequest) hostfuncs.DensityResponse {
//	    return callDensity(ctx, eval, req)
//	})
//	respBytes, err := density(ctx, reqBytes)
func NewJSONHandler[Req any, Resp any](fn HostFunc[Req, Resp]) ByteHandler {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		req, ok := decodedRequest[Req](ctx)
		if !ok {
			if err := json.Unmarshal(payload, &req); err != nil {
				return NewValidationError(fmt.Sprintf("failed to unmarshal request: %v", err)).ToJSON(), nil
			}
		}

		resp := fn(ctx, req)

		respBytes, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return respBytes, nil
	}
}

func decodedRequest[Req any](ctx context.Context) (Req, bool) {
	var zero Req
	hc, ok := ctx.(HostContext)
	if !ok {
		return zero, false
	}
	v, ok := hc.GetValue(decodedRequestKey{})
	if !ok {
		return zero, false
	}
	req, ok := v.(Req)
	return req, ok
}
