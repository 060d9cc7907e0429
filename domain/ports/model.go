package ports

import (
	"context"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
)

// AtmosphereModel is one evaluation context of the external atmospheric model.
// An instance is owned by a single call: it is initialized once, evaluated
// once and closed.
type AtmosphereModel interface {
	// Init loads the reference data and sets the epoch.
	Init(ctx context.Context, params entities.InitParams) error

	// Trajectory evaluates the model at a single point.
	Trajectory(ctx context.Context, in entities.TrajectoryInput) (entities.AtmosphereState, error)

	// Close releases the instance.
	Close(ctx context.Context) error
}

// ModelFactory constructs fresh model instances.
//
// A factory that hands out cached, already initialized instances keyed by
// reference path and epoch would skip the reference-data load on repeated
// epochs. No such factory exists: every call starts from a new instance.
type ModelFactory interface {
	NewModel(ctx context.Context) (AtmosphereModel, error)
}
