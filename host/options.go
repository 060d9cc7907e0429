package host

import (
	"io"
	"log/slog"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/hostfuncs"
)

// Option defines a functional option for configuring the Executor.
type Option func(*Executor)

// WithHostFunctions configures the executor with a host function registry.
func WithHostFunctions(registry *hostfuncs.HandlerRegistry) Option {
	return func(e *Executor) {
		e.registry = registry
	}
}

// WithLogger sets the logger that receives executor and guest logs.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// WithOutput sets the guests' stdout and stderr. Both default to io.Discard.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(e *Executor) {
		e.stdout = stdout
		e.stderr = stderr
	}
}
