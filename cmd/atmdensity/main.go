// Command atmdensity evaluates atmospheric density through the gateway.
//
//	atmdensity eval 20 30 120 '2019-01-25 14:30:00'
//	atmdensity repl
//	atmdensity schema
//	atmdensity run profile.wasm -- -lat 30
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/application/gateway"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/host"
	hostlog "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/log"
)

const appName = "atmdensity"

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	args := os.Args[2:]
	switch os.Args[1] {
	case "eval":
		os.Exit(cmdEval(args, os.Stdout, os.Stderr))
	case "repl":
		os.Exit(cmdRepl(args))
	case "schema":
		os.Exit(cmdSchema(args, os.Stdout, os.Stderr))
	case "run":
		os.Exit(cmdRun(args, os.Stdout, os.Stderr))
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `Usage:
  %[1]s eval [flags] <altitude_km> <latitude_deg> <longitude_deg> <epoch>
  %[1]s repl [flags]
  %[1]s schema [flags]
  %[1]s run [flags] <module.wasm> [-- args...]

Put -- before the positional arguments of eval when any is negative.

Flags:
  -config string        YAML configuration file
  -metrics-addr string  serve prometheus metrics on this address
`, appName)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	config      string
	metricsAddr string
}

func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	cf := &commonFlags{}
	fs.StringVar(&cf.config, "config", "", "YAML configuration file")
	fs.StringVar(&cf.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	return fs, cf
}

// app is a built environment plus the process resources around it.
type app struct {
	env     *host.Environment
	logger  *slog.Logger
	metrics *http.Server
}

func (a *app) Close(ctx context.Context) {
	if a.metrics != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		_ = a.metrics.Shutdown(shutdownCtx)
	}
	if err := a.env.Close(ctx); err != nil {
		a.logger.WarnContext(ctx, "close failed", "error", err)
	}
}

func setup(ctx context.Context, cf *commonFlags, stderr io.Writer) (*app, error) {
	var raw []byte
	if cf.config != "" {
		data, err := os.ReadFile(cf.config)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		raw = data
	}

	cfg, err := host.NewLoader().LoadConfig(raw)
	if err != nil {
		return nil, err
	}
	if cf.metricsAddr != "" {
		cfg.Metrics.Addr = cf.metricsAddr
	}

	level, err := hostlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := slog.New(hostlog.NewHandler(stderr,
		hostlog.WithLevel(level),
		hostlog.WithFormat(hostlog.Format(cfg.Log.Format)),
	))

	opts := []host.LoaderOption{host.WithLoaderLogger(logger)}
	var reg *prometheus.Registry
	if cfg.Metrics.Addr != "" {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, host.WithRegisterer(reg))
	}

	env, err := host.NewLoader(opts...).Build(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{env: env, logger: logger}
	if reg != nil {
		a.metrics = serveMetrics(ctx, cfg.Metrics.Addr, reg, logger)
	}
	return a, nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "metrics server stopped", "addr", addr, "error", err)
		}
	}()
	logger.InfoContext(ctx, "serving metrics", "addr", addr)
	return srv
}

// cmdEval calls get_atm_density once with arguments from the command line.
func cmdEval(args []string, stdout, stderr io.Writer) int {
	fs, cf := newFlagSet("eval", stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(stderr, "usage: %s eval [flags] <altitude_km> <latitude_deg> <longitude_deg> <epoch>\n", appName)
		return 2
	}

	ctx := context.Background()
	a, err := setup(ctx, cf, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close(ctx)

	out, err := a.env.Session.Call(ctx, gateway.FunctionName, 1, evalArguments(fs.Args()))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, strconv.FormatFloat(out[0].Real[0], 'g', -1, 64))
	return 0
}

// evalArguments passes numbers as double scalars and anything else as char.
func evalArguments(args []string) []entities.Argument {
	out := make([]entities.Argument, len(args))
	for i, s := range args {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			out[i] = entities.ScalarArgument(v)
			continue
		}
		out[i] = entities.CharArgument(s)
	}
	return out
}

// cmdSchema prints the description of get_atm_density.
func cmdSchema(args []string, stdout, stderr io.Writer) int {
	fs, cf := newFlagSet("schema", stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ctx := context.Background()
	a, err := setup(ctx, cf, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close(ctx)

	doc, ok := a.env.Session.Functions().Describe(gateway.FunctionName)
	if !ok {
		fmt.Fprintf(stderr, "Error: %s is not registered\n", gateway.FunctionName)
		return 1
	}
	fmt.Fprintln(stdout, string(doc))
	return 0
}

// cmdRun executes a WASI module that imports the host functions.
func cmdRun(args []string, stdout, stderr io.Writer) int {
	fs, cf := newFlagSet("run", stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(stderr, "usage: %s run [flags] <module.wasm> [-- args...]\n", appName)
		return 2
	}
	path := fs.Arg(0)
	guestArgs := fs.Args()[1:]
	if len(guestArgs) > 0 && guestArgs[0] == "--" {
		guestArgs = guestArgs[1:]
	}

	wasmBytes, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx := context.Background()
	a, err := setup(ctx, cf, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close(ctx)

	exec, err := host.NewExecutor(ctx,
		host.WithHostFunctions(a.env.HostFunctions),
		host.WithLogger(a.logger),
		host.WithOutput(stdout, stderr),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer exec.Close(ctx) //nolint:errcheck

	code, err := exec.Run(ctx, path, wasmBytes, guestArgs...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return int(code)
}
