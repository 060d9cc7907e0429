// Package wasmmodel runs a WebAssembly build of the atmospheric model under
// wazero. Every model instance gets its own guest module instance, so no
// model state survives between calls.
//
// The guest must export:
//
//	allocate(size i32) i32
//	initdata(ptr, len i32) i32                       JSON InitParams in, 0 on success
//	traj(h, lat, lon, t f64, update, first i32) i64  packed ptr/len of JSON AtmosphereState
//
// and may export _initialize. A traj result of {"error": "..."} is a model fault.
package wasmmodel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/ports"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// GuestReferenceDir is where the reference directory is mounted in the guest.
const GuestReferenceDir = "/refdata"

// Required guest exports.
const (
	exportAllocate = "allocate"
	exportInit     = "initdata"
	exportTraj     = "traj"
)

var (
	// ErrMissingExport means the module does not implement the model ABI.
	ErrMissingExport = errors.New("wasmmodel: required export missing")

	// ErrNotInitialized means Trajectory was called before a successful Init.
	ErrNotInitialized = errors.New("wasmmodel: model not initialized")

	// ErrAlreadyInitialized means Init was called twice on one model.
	ErrAlreadyInitialized = errors.New("wasmmodel: model already initialized")
)

var (
	_ ports.ModelFactory    = (*Factory)(nil)
	_ ports.AtmosphereModel = (*Model)(nil)
)

// Factory compiles the guest once and hands out fresh, uninitialized models.
type Factory struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	logger   *slog.Logger
	stdout   io.Writer
	stderr   io.Writer
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(f *Factory) {
		f.logger = l
	}
}

// WithOutput routes the guest's stdout and stderr. Both are discarded by default.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(f *Factory) {
		f.stdout = stdout
		f.stderr = stderr
	}
}

// NewFactory compiles wasm and checks that it exports the model ABI.
func NewFactory(ctx context.Context, wasm []byte, opts ...Option) (*Factory, error) {
	f := &Factory{
		logger: slog.Default(),
		stdout: io.Discard,
		stderr: io.Discard,
	}
	for _, opt := range opts {
		opt(f)
	}

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("wasmmodel: failed to instantiate WASI: %w", err)
	}

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("wasmmodel: failed to compile module: %w", err)
	}

	exports := compiled.ExportedFunctions()
	for _, name := range []string{exportAllocate, exportInit, exportTraj} {
		if _, ok := exports[name]; !ok {
			_ = rt.Close(ctx)
			return nil, fmt.Errorf("%w: %q", ErrMissingExport, name)
		}
	}

	f.runtime = rt
	f.compiled = compiled
	return f, nil
}

// NewFactoryFromFile reads and compiles the module at path.
func NewFactoryFromFile(ctx context.Context, path string, opts ...Option) (*Factory, error) {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wasmmodel: failed to read module: %w", err)
	}
	return NewFactory(ctx, wasm, opts...)
}

// NewModel implements ports.ModelFactory. The guest is instantiated by Init,
// once the reference directory to mount is known.
func (f *Factory) NewModel(context.Context) (ports.AtmosphereModel, error) {
	return &Model{factory: f}, nil
}

// Close releases the runtime and every module instance still open.
func (f *Factory) Close(ctx context.Context) error {
	return f.runtime.Close(ctx)
}

// Model is one guest instance.
type Model struct {
	factory *Factory
	module  api.Module
}

// Init instantiates the guest with params.ReferencePath mounted read-only and
// calls initdata. The guest sees the reference path as GuestReferenceDir.
func (m *Model) Init(ctx context.Context, params entities.InitParams) error {
	if m.module != nil {
		return ErrAlreadyInitialized
	}
	if params.ReferencePath == "" {
		return errors.New("reference data directory is not set")
	}
	if st, err := os.Stat(params.ReferencePath); err != nil {
		return fmt.Errorf("reference data directory: %w", err)
	} else if !st.IsDir() {
		return fmt.Errorf("reference data directory: %s is not a directory", params.ReferencePath)
	}

	cfg := wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions("_initialize").
		WithStdout(m.factory.stdout).
		WithStderr(m.factory.stderr).
		WithFSConfig(wazero.NewFSConfig().WithReadOnlyDirMount(params.ReferencePath, GuestReferenceDir))

	mod, err := m.factory.runtime.InstantiateModule(ctx, m.factory.compiled, cfg)
	if err != nil {
		return fmt.Errorf("failed to instantiate model: %w", err)
	}
	m.module = mod

	guest := params
	guest.ReferencePath = GuestReferenceDir + "/"
	payload, err := json.Marshal(guest)
	if err != nil {
		return fmt.Errorf("failed to marshal init params: %w", err)
	}

	ptr, err := m.write(ctx, payload)
	if err != nil {
		return err
	}
	results, err := m.module.ExportedFunction(exportInit).Call(ctx, uint64(ptr), uint64(len(payload)))
	if err != nil {
		return fmt.Errorf("initdata trapped: %w", err)
	}
	if len(results) == 0 {
		return errors.New("initdata returned no status")
	}
	if status := int32(results[0]); status != 0 { //nolint:gosec // G115: i32 result
		return fmt.Errorf("initdata failed with status %d", status)
	}

	m.factory.logger.DebugContext(ctx, "wasmmodel: initialized", "reference", params.ReferencePath, "epoch", params.Epoch)
	return nil
}

// Trajectory calls traj and decodes the state it returns.
func (m *Model) Trajectory(ctx context.Context, in entities.TrajectoryInput) (entities.AtmosphereState, error) {
	if m.module == nil {
		return entities.AtmosphereState{}, ErrNotInitialized
	}

	results, err := m.module.ExportedFunction(exportTraj).Call(ctx,
		api.EncodeF64(in.Altitude),
		api.EncodeF64(in.Latitude),
		api.EncodeF64(in.Longitude),
		api.EncodeF64(in.ElapsedTime),
		api.EncodeI32(boolToI32(in.Update)),
		api.EncodeI32(boolToI32(in.FirstCall)),
	)
	if err != nil {
		return entities.AtmosphereState{}, fmt.Errorf("traj trapped: %w", err)
	}
	if len(results) == 0 {
		return entities.AtmosphereState{}, errors.New("traj returned no result")
	}

	data, err := m.read(results[0])
	if err != nil {
		return entities.AtmosphereState{}, err
	}

	var out struct {
		entities.AtmosphereState
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return entities.AtmosphereState{}, fmt.Errorf("failed to decode traj result: %w", err)
	}
	if out.Error != "" {
		return entities.AtmosphereState{}, errors.New(out.Error)
	}
	return out.AtmosphereState, nil
}

// Close closes the guest instance. It is safe to call on an uninitialized model.
func (m *Model) Close(ctx context.Context) error {
	if m.module == nil {
		return nil
	}
	err := m.module.Close(ctx)
	m.module = nil
	return err
}

// write copies data into guest memory obtained from allocate.
func (m *Model) write(ctx context.Context, data []byte) (uint32, error) {
	results, err := m.module.ExportedFunction(exportAllocate).Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to allocate in guest: %w", err)
	}
	if len(results) == 0 {
		return 0, errors.New("allocate returned no results")
	}
	ptr := uint32(results[0]) //nolint:gosec // G115: WASM32 pointers are always 32-bit
	if !m.module.Memory().Write(ptr, data) {
		return 0, errors.New("failed to write to guest memory")
	}
	return ptr, nil
}

// read copies the packed ptr/len region out of guest memory.
func (m *Model) read(packed uint64) ([]byte, error) {
	ptr, length := uint32(packed>>32), uint32(packed) //nolint:gosec // G115: packed 32-bit halves
	if ptr == 0 || length == 0 {
		return nil, errors.New("null response from model")
	}
	data, ok := m.module.Memory().Read(ptr, length)
	if !ok {
		return nil, errors.New("response out of guest memory bounds")
	}
	return append([]byte(nil), data...), nil
}

func boolToI32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
