// Package invoker performs exactly one atmospheric model evaluation per call.
package invoker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	domainerrors "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/errors"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/ports"
)

// Invoker turns a validated Query into a density by driving a fresh model
// instance through Init and Trajectory.
type Invoker struct {
	factory       ports.ModelFactory
	referencePath string
	logger        *slog.Logger
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(i *Invoker) {
		i.logger = l
	}
}

// New creates an Invoker that loads reference data from referencePath.
func New(factory ports.ModelFactory, referencePath string, opts ...Option) *Invoker {
	i := &Invoker{
		factory:       factory,
		referencePath: referencePath,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ReferencePath returns the reference-data directory handed to every model.
func (i *Invoker) ReferencePath() string {
	return i.referencePath
}

// Evaluate returns the density in kg/m^3 at the queried point.
// Init failures are ModelInitError, evaluation failures ModelEvalError.
func (i *Invoker) Evaluate(ctx context.Context, q entities.Query) (density float64, err error) {
	model, err := i.factory.NewModel(ctx)
	if err != nil {
		return 0, i.initError(err)
	}
	defer func() {
		if cerr := model.Close(ctx); cerr != nil {
			i.logger.WarnContext(ctx, "invoker: failed to close model", "error", cerr)
		}
	}()

	params := entities.InitParams{
		ReferencePath: i.referencePath,
		ReferenceFile: entities.ReferenceFile,
		Epoch:         q.Epoch,
	}
	if err := model.Init(ctx, params); err != nil {
		return 0, i.initError(err)
	}

	state, err := model.Trajectory(ctx, entities.NewTrajectoryInput(q))
	if err != nil {
		var evalErr *domainerrors.ModelEvalError
		if errors.As(err, &evalErr) {
			return 0, err
		}
		return 0, &domainerrors.ModelEvalError{Err: err}
	}
	if math.IsNaN(state.Density) || math.IsInf(state.Density, 0) {
		return 0, &domainerrors.ModelEvalError{Err: fmt.Errorf("non-finite density %v", state.Density)}
	}

	i.logger.DebugContext(ctx, "invoker: density evaluated",
		"altitude_km", q.Altitude, "latitude_deg", q.Latitude, "longitude_deg", q.Longitude,
		"epoch", q.Epoch, "density", state.Density)
	return state.Density, nil
}

func (i *Invoker) initError(err error) error {
	var initErr *domainerrors.ModelInitError
	if errors.As(err, &initErr) {
		return err
	}
	return &domainerrors.ModelInitError{Err: err, ReferencePath: i.referencePath}
}
