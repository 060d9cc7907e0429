// Package gateway enforces the get_atm_density call contract and reports
// failures through the host's error channel.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	domainerrors "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/errors"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/ports"
)

// FunctionName is the name the gateway is published under in the host.
const FunctionName = "get_atm_density"

// MaxOutputs is the number of outputs the call can produce.
const MaxOutputs = 1

// Evaluator computes a density for a validated query.
type Evaluator interface {
	Evaluate(ctx context.Context, q entities.Query) (float64, error)
}

// Gateway validates host arguments and forwards them to an Evaluator.
type Gateway struct {
	sink      ports.DiagnosticsSink
	evaluator Evaluator
	observer  ports.CallObserver
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithObserver records every call outcome.
func WithObserver(o ports.CallObserver) Option {
	return func(g *Gateway) {
		g.observer = o
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = l
	}
}

type discardSink struct{}

func (discardSink) Report(string) {}

// New creates a Gateway. The sink is held for the Gateway's lifetime.
// A nil sink drops reports; Evaluate still returns every error.
func New(sink ports.DiagnosticsSink, evaluator Evaluator, opts ...Option) *Gateway {
	if sink == nil {
		sink = discardSink{}
	}
	g := &Gateway{
		sink:      sink,
		evaluator: evaluator,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Validate checks the call contract and stops at the first violated rule:
// input count, then each input slot in order, then the output count.
func (g *Gateway) Validate(inputs []entities.Argument, nargout int) error {
	_, err := bind(inputs, nargout)
	return err
}

// Evaluate validates the call and returns the density in kg/m^3.
func (g *Gateway) Evaluate(ctx context.Context, nargout int, inputs []entities.Argument) (float64, error) {
	start := g.now()
	q, err := bind(inputs, nargout)
	if err == nil {
		var density float64
		density, err = g.evaluator.Evaluate(ctx, q)
		if err == nil {
			g.finish(ctx, start, ports.OutcomeOK, nil)
			return density, nil
		}
	}
	g.finish(ctx, start, outcome(err), err)
	return 0, err
}

// Call is the host entry point. On success it returns the single output slot.
// On failure it reports one message through the sink and returns no output.
func (g *Gateway) Call(ctx context.Context, nargout int, inputs []entities.Argument) (outputs []entities.Argument) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.ErrorContext(ctx, "gateway: recovered panic", "function", FunctionName, "panic", r)
			g.sink.Report(fmt.Sprintf("%s: internal error: %v", FunctionName, r))
			outputs = nil
		}
	}()

	density, err := g.Evaluate(ctx, nargout, inputs)
	if err != nil {
		g.sink.Report(err.Error())
		return nil
	}
	return []entities.Argument{entities.ScalarArgument(density)}
}

func (g *Gateway) finish(ctx context.Context, start time.Time, result string, err error) {
	elapsed := g.now().Sub(start)
	if g.observer != nil {
		g.observer.ObserveCall(result, elapsed)
	}
	if err != nil {
		g.logger.WarnContext(ctx, "gateway: call failed", "function", FunctionName, "outcome", result, "error", err)
		return
	}
	g.logger.DebugContext(ctx, "gateway: call completed", "function", FunctionName, "elapsed", elapsed)
}

// bind runs every check in order and converts the accepted slots into a Query.
func bind(inputs []entities.Argument, nargout int) (entities.Query, error) {
	if len(inputs) != len(signature) {
		return entities.Query{}, domainerrors.NewWrongInputCount(len(signature), len(inputs))
	}

	values := make([]entities.Value, len(signature))
	for i, s := range signature {
		v, reason := s.accept(inputs[i])
		if reason != "" {
			return entities.Query{}, s.reject(i, s.name, reason)
		}
		values[i] = v
	}

	if nargout < 0 {
		return entities.Query{}, domainerrors.NewNegativeOutputs(nargout)
	}
	if nargout > MaxOutputs {
		return entities.Query{}, domainerrors.NewTooManyOutputs(nargout)
	}

	return entities.Query{
		Altitude:  float64(values[0].(entities.Scalar)),
		Latitude:  float64(values[1].(entities.Scalar)),
		Longitude: float64(values[2].(entities.Scalar)),
		Epoch:     string(values[3].(entities.Text)),
	}, nil
}

func outcome(err error) string {
	var (
		validationErr *domainerrors.ValidationError
		initErr       *domainerrors.ModelInitError
		evalErr       *domainerrors.ModelEvalError
	)
	switch {
	case errors.As(err, &validationErr):
		return ports.OutcomeValidationError
	case errors.As(err, &initErr):
		return ports.OutcomeModelInitError
	case errors.As(err, &evalErr):
		return ports.OutcomeModelEvalError
	default:
		return ports.OutcomeInternalError
	}
}
