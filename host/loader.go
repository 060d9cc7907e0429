package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	appconfig "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/application/config"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/application/gateway"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/application/invoker"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/application/schema"
	apptemplate "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/application/template"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/application/validation"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	domainerrors "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/errors"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/ports"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/host/registry"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/hostfuncs"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/infrastructure/diagnostics"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/infrastructure/earthgram"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/infrastructure/observability"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/infrastructure/parser"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/infrastructure/wasmmodel"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/internal/refdata"
)

// maxRequestSize bounds a single host-function payload.
const maxRequestSize = 1 << 20

// loaderConfig holds configuration for the Loader.
type loaderConfig struct {
	parser         ports.ConfigParser
	templateEngine ports.TemplateEngine
	env            map[string]string
	logger         *slog.Logger
	registerer     prometheus.Registerer
	factory        ports.ModelFactory
}

func defaultLoaderConfig() loaderConfig {
	return loaderConfig{
		parser:         parser.NewYamlConfigParser(),
		templateEngine: apptemplate.NewGoTemplateEngine(),
		logger:         slog.Default(),
	}
}

// Loader turns configuration into a wired Environment.
type Loader struct {
	config loaderConfig
}

// LoaderOption configures the Loader.
type LoaderOption func(*loaderConfig)

// WithParser sets a custom config parser.
func WithParser(p ports.ConfigParser) LoaderOption {
	return func(c *loaderConfig) {
		c.parser = p
	}
}

// WithTemplateEngine sets the engine that expands the config before parsing.
// A nil engine disables expansion.
func WithTemplateEngine(t ports.TemplateEngine) LoaderOption {
	return func(c *loaderConfig) {
		c.templateEngine = t
	}
}

// WithEnvironment sets the variables available to the config as .env.
// Defaults to the process environment.
func WithEnvironment(env map[string]string) LoaderOption {
	return func(c *loaderConfig) {
		c.env = env
	}
}

// WithLoaderLogger sets the logger handed to every component.
func WithLoaderLogger(l *slog.Logger) LoaderOption {
	return func(c *loaderConfig) {
		c.logger = l
	}
}

// WithRegisterer enables call metrics, registered with r.
func WithRegisterer(r prometheus.Registerer) LoaderOption {
	return func(c *loaderConfig) {
		c.registerer = r
	}
}

// WithModelFactory bypasses backend selection and uses f for every model.
func WithModelFactory(f ports.ModelFactory) LoaderOption {
	return func(c *loaderConfig) {
		c.factory = f
	}
}

// NewLoader creates a new Loader with defaults.
func NewLoader(opts ...LoaderOption) *Loader {
	cfg := defaultLoaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Loader{config: cfg}
}

// LoadConfig expands, parses, defaults and validates raw configuration.
// Empty input yields the defaults.
func (l *Loader) LoadConfig(raw []byte) (*entities.Config, error) {
	data := raw
	if l.config.templateEngine != nil && len(raw) > 0 {
		env := l.config.env
		if env == nil {
			env = apptemplate.Environ()
		}
		var err error
		data, err = l.config.templateEngine.Render(raw, env)
		if err != nil {
			return nil, &domainerrors.ConfigError{Err: err}
		}
	}
	return appconfig.NewLoader(l.config.parser).Load(data)
}

// Environment is a fully wired gateway with the surfaces that publish it.
type Environment struct {
	Config       *entities.Config
	ReferenceDir string

	// Gateway is the get_atm_density entry point.
	Gateway *gateway.Gateway

	// Session calls functions by name and collects their reported errors.
	Session *Session

	// HostFunctions publishes the gateway to WASM guests.
	HostFunctions *hostfuncs.HandlerRegistry

	closers []func(context.Context) error
}

// Close releases the model backend.
func (e *Environment) Close(ctx context.Context) error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build wires an Environment for cfg.
func (l *Loader) Build(ctx context.Context, cfg *entities.Config) (*Environment, error) {
	logger := l.config.logger

	refDir, err := refdata.Dir(cfg.Reference.Dir)
	if err != nil {
		return nil, &domainerrors.ConfigError{Field: "reference.dir", Err: err}
	}

	env := &Environment{Config: cfg, ReferenceDir: refDir}

	factory, err := l.modelFactory(ctx, cfg, env)
	if err != nil {
		_ = env.Close(ctx)
		return nil, err
	}

	gwOpts := []gateway.Option{gateway.WithLogger(logger)}
	if l.config.registerer != nil {
		obs, err := observability.NewPromObserver(l.config.registerer)
		if err != nil {
			_ = env.Close(ctx)
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		gwOpts = append(gwOpts, gateway.WithObserver(obs))
	}

	recorder := diagnostics.NewRecorder()
	sink := diagnostics.Tee{recorder, diagnostics.NewSlogSink(logger, "function", gateway.FunctionName)}
	gw := gateway.New(sink, invoker.New(factory, refDir, invoker.WithLogger(logger)), gwOpts...)
	env.Gateway = gw

	functions := registry.NewRegistry()
	if err := functions.Register(gw, gateway.Signature()); err != nil {
		_ = env.Close(ctx)
		return nil, err
	}
	env.Session = NewSession(functions, recorder, logger)

	env.HostFunctions, err = hostFunctions(gw, logger)
	if err != nil {
		_ = env.Close(ctx)
		return nil, err
	}

	logger.DebugContext(ctx, "host: environment ready",
		"backend", cfg.Model.Backend, "reference_dir", refDir, "functions", functions.List())
	return env, nil
}

func (l *Loader) modelFactory(ctx context.Context, cfg *entities.Config, env *Environment) (ports.ModelFactory, error) {
	if l.config.factory != nil {
		return l.config.factory, nil
	}

	switch cfg.Model.Backend {
	case entities.BackendWasm:
		f, err := wasmmodel.NewFactoryFromFile(ctx, cfg.Model.WasmPath, wasmmodel.WithLogger(l.config.logger))
		if err != nil {
			return nil, &domainerrors.ConfigError{Field: "model.wasm_path", Err: err}
		}
		env.closers = append(env.closers, f.Close)
		return f, nil
	case entities.BackendEarthGRAM:
		if !earthgram.Available {
			l.config.logger.WarnContext(ctx, "host: native model not compiled in, every call will fail",
				"backend", cfg.Model.Backend)
		}
		return earthgram.NewFactory(), nil
	default:
		return nil, &domainerrors.ConfigError{Field: "model.backend", Err: fmt.Errorf("unknown backend %q", cfg.Model.Backend)}
	}
}

func hostFunctions(gw *gateway.Gateway, logger *slog.Logger) (*hostfuncs.HandlerRegistry, error) {
	doc, err := schema.Describe(gateway.Signature())
	if err != nil {
		return nil, fmt.Errorf("failed to describe %s: %w", gateway.FunctionName, err)
	}
	validator, err := validation.NewRequestValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to compile request schema: %w", err)
	}
	return hostfuncs.NewRegistry(
		hostfuncs.WithMiddleware(
			hostfuncs.PanicRecoveryMiddleware(),
			hostfuncs.LoggingMiddleware(logger),
			hostfuncs.MaxRequestSizeMiddleware(maxRequestSize),
			hostfuncs.PayloadValidationMiddleware(validator, hostfuncs.DensityFunction),
		),
		hostfuncs.WithBundle(hostfuncs.DensityBundle(gw, doc)),
	)
}
