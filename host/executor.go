package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/hostfuncs"
	hostwazero "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/infrastructure/wazero"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
)

// Executor runs WASM guests that import the host functions.
type Executor struct {
	runtime  wazero.Runtime
	registry *hostfuncs.HandlerRegistry
	logger   *slog.Logger
	stdout   io.Writer
	stderr   io.Writer
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	e := &Executor{
		logger: slog.Default(),
		stdout: io.Discard,
		stderr: io.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		reg, err := hostfuncs.NewRegistry()
		if err != nil {
			return nil, fmt.Errorf("failed to create default registry: %w", err)
		}
		e.registry = reg
	}

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	e.runtime = rt

	err := hostwazero.RegisterWithRuntime(ctx, rt, e.registry,
		hostwazero.WithLogger(e.logger),
		hostwazero.WithCustomHandler(hostwazero.LogMessageHandler(e.logger)),
	)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}

	return e, nil
}

// Close releases resources held by the executor.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Run executes a WASI command module to completion and returns its exit
// code. args are passed after the program name.
func (e *Executor) Run(ctx context.Context, name string, wasmBytes []byte, args ...string) (uint32, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return 0, fmt.Errorf("failed to compile %s: %w", name, err)
	}
	defer compiled.Close(ctx) //nolint:errcheck

	cfg := e.moduleConfig(name).WithArgs(append([]string{name}, args...)...)
	mod, err := e.runtime.InstantiateModule(hostwazero.WithGuestName(ctx, name), compiled, cfg)
	if err != nil {
		var exitErr *sys.ExitError
		if errors.As(err, &exitErr) {
			e.logger.DebugContext(ctx, "host: guest exited", "guest", name, "code", exitErr.ExitCode())
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return 0, mod.Close(ctx)
}

// Instance is a loaded reactor guest whose exports can be called repeatedly.
type Instance struct {
	name   string
	module api.Module
}

// Load instantiates a reactor module, running its _initialize export if any.
func (e *Executor) Load(ctx context.Context, name string, wasmBytes []byte) (*Instance, error) {
	cfg := e.moduleConfig(name).WithStartFunctions("_initialize")
	mod, err := e.runtime.InstantiateWithConfig(hostwazero.WithGuestName(ctx, name), wasmBytes, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate %s: %w", name, err)
	}
	return &Instance{name: name, module: mod}, nil
}

// Call invokes a parameterless export returning a packed ptr+len and copies
// the bytes it points at. A zero result yields nil.
func (i *Instance) Call(ctx context.Context, export string) ([]byte, error) {
	fn := i.module.ExportedFunction(export)
	if fn == nil {
		return nil, fmt.Errorf("export %q not found in %s", export, i.name)
	}

	results, err := fn.Call(hostwazero.WithGuestName(ctx, i.name))
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", i.name, export, err)
	}
	if len(results) == 0 || results[0] == 0 {
		return nil, nil
	}

	ptr := uint32(results[0] >> 32) //nolint:gosec // G115: packed format stores 32-bit values
	length := uint32(results[0])    //nolint:gosec // G115: packed format stores 32-bit values
	data, ok := i.module.Memory().Read(ptr, length)
	if !ok {
		return nil, fmt.Errorf("%s.%s: result out of memory bounds", i.name, export)
	}
	return append([]byte(nil), data...), nil
}

// Close releases the instance.
func (i *Instance) Close(ctx context.Context) error {
	return i.module.Close(ctx)
}

func (e *Executor) moduleConfig(name string) wazero.ModuleConfig {
	return wazero.NewModuleConfig().
		WithName(name).
		WithStdout(e.stdout).
		WithStderr(e.stderr).
		WithSysWalltime().
		WithSysNanotime()
}
