package host

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/host/registry"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/infrastructure/diagnostics"
)

// CallError is a failure a function reported through the session's error
// channel, or a call to a function the session does not know.
type CallError struct {
	Function string
	Message  string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("Error using %s\n%s", e.Function, e.Message)
}

// Session is an in-process host environment: a function table and the error
// channel its functions report to. Calls are serialized.
type Session struct {
	mu        sync.Mutex
	functions *registry.Registry
	errors    *diagnostics.Recorder
	logger    *slog.Logger
}

// NewSession creates a Session. errs must be the recorder the registered
// functions report into.
func NewSession(functions *registry.Registry, errs *diagnostics.Recorder, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{functions: functions, errors: errs, logger: logger}
}

// Functions returns the session's function table.
func (s *Session) Functions() *registry.Registry {
	return s.functions
}

// Call invokes name. It returns the outputs on success and a *CallError when
// the function reported a failure.
func (s *Session) Call(ctx context.Context, name string, nargout int, inputs []entities.Argument) ([]entities.Argument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.functions.Lookup(name)
	if !ok {
		return nil, &CallError{Function: name, Message: fmt.Sprintf("Undefined function '%s'.", name)}
	}

	if stale := s.errors.Drain(); len(stale) > 0 {
		s.logger.DebugContext(ctx, "host: discarding stale errors", "count", len(stale))
	}

	outputs := entry.Function.Call(ctx, nargout, inputs)
	if reported := s.errors.Drain(); len(reported) > 0 {
		return nil, &CallError{Function: name, Message: strings.Join(reported, "\n")}
	}
	if nargout > 0 && len(outputs) == 0 {
		return nil, &CallError{Function: name, Message: "Function returned no output."}
	}
	return outputs, nil
}
