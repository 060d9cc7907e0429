package hostfuncs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
)

// Middleware is a function that wraps a ByteHandler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
type Middleware func(next ByteHandler) ByteHandler

// RegistryOption is a functional option for configuring a HandlerRegistry.
type RegistryOption func(*registryBuilder)

// PayloadValidator checks a raw request before it is decoded.
type PayloadValidator interface {
	ValidatePayload(payload []byte) error
}

// PanicRecoveryMiddleware returns a middleware that catches panics and converts
// them to structured ErrorResponse JSON instead of crashing the host.
func PanicRecoveryMiddleware() Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) (resp []byte, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp = NewPanicError(r).ToJSON()
					err = nil // Return JSON error, not Go error
				}
			}()
			return next(ctx, payload)
		}
	}
}

// LoggingMiddleware logs every invocation with its function name and duration.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			funcName := functionName(ctx)
			start := time.Now()
			logger.DebugContext(ctx, "hostfuncs: invoking", "function", funcName, "request_bytes", len(payload))

			resp, err := next(ctx, payload)
			if err != nil {
				logger.ErrorContext(ctx, "hostfuncs: handler failed", "function", funcName, "error", err)
				return resp, err
			}
			logger.DebugContext(ctx, "hostfuncs: completed", "function", funcName,
				"response_bytes", len(resp), "elapsed", time.Since(start))
			return resp, nil
		}
	}
}

// MaxRequestSizeMiddleware rejects payloads larger than limit bytes.
func MaxRequestSizeMiddleware(limit int) Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			if len(payload) > limit {
				msg := fmt.Sprintf("request size %d exceeds maximum %d bytes", len(payload), limit)
				return NewValidationError(msg).ToJSON(), nil
			}
			return next(ctx, payload)
		}
	}
}

// decodedRequestKey holds the CallRequest PayloadValidationMiddleware decoded.
type decodedRequestKey struct{}

// PayloadValidationMiddleware validates the payloads of the named functions
// before they reach the handler. Other functions pass through unchecked.
// A payload that passes is decoded once into the HostContext, where
// NewJSONHandler picks it up instead of decoding again.
func PayloadValidationMiddleware(v PayloadValidator, functions ...string) Middleware {
	checked := make(map[string]bool, len(functions))
	for _, name := range functions {
		checked[name] = true
	}
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			if checked[functionName(ctx)] {
				if err := v.ValidatePayload(payload); err != nil {
					return NewErrorResponse(err).ToJSON(), nil
				}
				if hc, ok := ctx.(HostContext); ok {
					var req entities.CallRequest
					if err := json.Unmarshal(payload, &req); err != nil {
						return NewValidationError(fmt.Sprintf("failed to unmarshal request: %v", err)).ToJSON(), nil
					}
					hc.SetValue(decodedRequestKey{}, req)
				}
			}
			return next(ctx, payload)
		}
	}
}

func functionName(ctx context.Context) string {
	if hc, ok := ctx.(HostContext); ok {
		return hc.FunctionName()
	}
	return "unknown"
}
