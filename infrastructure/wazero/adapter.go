// Package wazero exposes a hostfuncs registry to WASM guests running under wazero.
package wazero

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/hostfuncs"
	hostlog "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/log"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// DefaultModuleName is the import module guests use for host functions.
const DefaultModuleName = "atmdensity_host"

// AdapterConfig holds configuration for the wazero adapter.
type AdapterConfig struct {
	// Logger receives adapter failures. Default is slog.Default().
	Logger *slog.Logger

	// ModuleName is the host module name (default: "atmdensity_host").
	ModuleName string

	// CustomHandlers are exported next to the registry handlers, for
	// functions that do not follow the packed i64 request/response shape.
	CustomHandlers []CustomHandler

	// MaxRequestSize limits the size of incoming requests from guest memory.
	// Default is 1MB.
	MaxRequestSize uint32
}

// CustomHandler represents a custom wazero handler that doesn't use the standard
// packed i64 request/response pattern.
type CustomHandler struct {
	// Handler is the wazero GoModuleFunc implementation.
	Handler api.GoModuleFunc

	// Name is the exported function name.
	Name string

	// ParamTypes are the WASM parameter types.
	ParamTypes []api.ValueType

	// ResultTypes are the WASM result types.
	ResultTypes []api.ValueType
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithModuleName sets the host module name.
func WithModuleName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.ModuleName = name
	}
}

// WithMaxRequestSize sets the maximum request size from guest memory.
func WithMaxRequestSize(size uint32) AdapterOption {
	return func(c *AdapterConfig) {
		c.MaxRequestSize = size
	}
}

// WithCustomHandler adds a custom wazero handler.
func WithCustomHandler(h CustomHandler) AdapterOption {
	return func(c *AdapterConfig) {
		c.CustomHandlers = append(c.CustomHandlers, h)
	}
}

// WithLogger sets the adapter's logger.
func WithLogger(l *slog.Logger) AdapterOption {
	return func(c *AdapterConfig) {
		c.Logger = l
	}
}

func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		Logger:         slog.Default(),
		ModuleName:     DefaultModuleName,
		MaxRequestSize: hostfuncs.DefaultMaxRequestSize,
	}
}

// RegisterWithRuntime instantiates a host module exporting every handler of
// registry. Each export takes and returns a packed i64 ptr+len: the request
// is read from guest memory, and the response is written into memory the
// guest hands out from its "allocate" export.
//
//	registry, _ := hostfuncs.NewRegistry(hostfuncs.WithBundle(hostfuncs.DensityBundle(gw, doc)))
//	err := wazero.RegisterWithRuntime(ctx, runtime, registry,
//	    wazero.WithCustomHandler(wazero.LogMessageHandler(logger)),
//	)
func RegisterWithRuntime(ctx context.Context, runtime wazero.Runtime, registry *hostfuncs.HandlerRegistry, opts ...AdapterOption) error {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	builder := runtime.NewHostModuleBuilder(cfg.ModuleName)

	for _, name := range registry.Names() {
		funcName := name
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				handleRegistryCall(ctx, mod, stack, registry, funcName, cfg)
			}), []api.ValueType{api.ValueTypeI64}, []api.ValueType{api.ValueTypeI64}).
			Export(funcName)
	}

	for _, ch := range cfg.CustomHandlers {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(ch.Handler, ch.ParamTypes, ch.ResultTypes).
			Export(ch.Name)
	}

	_, err := builder.Instantiate(ctx)
	return err
}

// LogMessageHandler returns the log_message export: the guest passes a packed
// ptr+len of a JSON log record, which is replayed through logger.
func LogMessageHandler(logger *slog.Logger) CustomHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return CustomHandler{
		Name: "log_message",
		Handler: api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			ptr, length := unpackPtrLen(stack[0])
			payload, ok := mod.Memory().Read(ptr, length)
			if !ok {
				logger.WarnContext(ctx, "wazero: log_message out of guest memory bounds", "guest", GuestName(ctx, mod))
				return
			}
			var msg hostlog.LogMessageWire
			if err := json.Unmarshal(payload, &msg); err != nil {
				logger.InfoContext(ctx, "wazero: guest log (raw)", "guest", GuestName(ctx, mod), "payload", string(payload))
				return
			}
			hostlog.Replay(ctx, logger, msg, slog.String("guest", GuestName(ctx, mod)))
		}),
		ParamTypes:  []api.ValueType{api.ValueTypeI64},
		ResultTypes: []api.ValueType{},
	}
}

func handleRegistryCall(ctx context.Context, mod api.Module, stack []uint64, registry *hostfuncs.HandlerRegistry, name string, cfg AdapterConfig) {
	ptr, length := unpackPtrLen(stack[0])

	if length > cfg.MaxRequestSize {
		errMsg := fmt.Sprintf("request size %d exceeds maximum %d bytes", length, cfg.MaxRequestSize)
		cfg.Logger.ErrorContext(ctx, "wazero: "+errMsg, "function", name)
		stack[0] = writeErrorResponse(ctx, cfg.Logger, mod, hostfuncs.NewValidationError(errMsg))
		return
	}

	requestBytes, ok := mod.Memory().Read(ptr, length)
	if !ok {
		errMsg := "failed to read request from guest memory"
		cfg.Logger.ErrorContext(ctx, "wazero: "+errMsg, "function", name)
		stack[0] = writeErrorResponse(ctx, cfg.Logger, mod, hostfuncs.NewInternalError(errMsg))
		return
	}

	responseBytes, err := registry.Invoke(ctx, name, requestBytes)
	if err != nil {
		cfg.Logger.ErrorContext(ctx, "wazero: handler invocation failed", "function", name, "error", err)
		stack[0] = writeErrorResponse(ctx, cfg.Logger, mod, hostfuncs.NewInternalError(err.Error()))
		return
	}

	stack[0] = writeResponse(ctx, cfg.Logger, mod, responseBytes)
}

// writeResponse copies data into memory from the guest's allocate export.
// Returns packed ptr+len, or 0 on failure.
func writeResponse(ctx context.Context, logger *slog.Logger, mod api.Module, data []byte) uint64 {
	allocateFn := mod.ExportedFunction("allocate")
	if allocateFn == nil {
		logger.ErrorContext(ctx, "wazero: guest module missing 'allocate' export", "guest", GuestName(ctx, mod))
		return 0
	}

	results, err := allocateFn.Call(ctx, uint64(len(data)))
	if err != nil {
		logger.ErrorContext(ctx, "wazero: failed to call guest allocate", "error", err)
		return 0
	}
	ptr := uint32(results[0]) //nolint:gosec // G115: WASM32 pointers are always 32-bit

	if !mod.Memory().Write(ptr, data) {
		logger.ErrorContext(ctx, "wazero: failed to write response to guest memory")
		return 0
	}

	return packPtrLen(ptr, uint32(len(data))) //nolint:gosec // G115: Data length is bounded by config
}

func writeErrorResponse(ctx context.Context, logger *slog.Logger, mod api.Module, errResp hostfuncs.ErrorResponse) uint64 {
	return writeResponse(ctx, logger, mod, errResp.ToJSON())
}

// packPtrLen packs a pointer and length into a single i64.
// Upper 32 bits: pointer, lower 32 bits: length.
func packPtrLen(ptr, length uint32) uint64 {
	return (uint64(ptr) << 32) | uint64(length)
}

// unpackPtrLen unpacks a pointer and length from a packed i64.
func unpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr = uint32(packed >> 32)           //nolint:gosec // G115: Packed format stores 32-bit values
	length = uint32(packed & 0xFFFFFFFF) //nolint:gosec // G115: Packed format stores 32-bit values
	return ptr, length
}
