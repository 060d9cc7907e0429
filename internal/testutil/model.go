package testutil

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/ports"
)

// FakeFactory builds FakeModel instances and remembers each of them.
// Its density is an exponential profile so tests see altitude-dependent,
// deterministic values without the real reference data.
type FakeFactory struct {
	// NewErr fails NewModel.
	NewErr error
	// InitErr fails Init on every model.
	InitErr error
	// EvalErr fails Trajectory on every model.
	EvalErr error
	// Density overrides the computed density when non-nil.
	Density *float64

	mu     sync.Mutex
	models []*FakeModel
}

// FakeModel records what the invoker passed to it.
type FakeModel struct {
	factory *FakeFactory

	InitParams *entities.InitParams
	Evaluated  *entities.TrajectoryInput
	Closed     bool
}

// NewModel implements ports.ModelFactory.
func (f *FakeFactory) NewModel(context.Context) (ports.AtmosphereModel, error) {
	if f.NewErr != nil {
		return nil, f.NewErr
	}
	m := &FakeModel{factory: f}
	f.mu.Lock()
	f.models = append(f.models, m)
	f.mu.Unlock()
	return m, nil
}

// Models returns every model built so far.
func (f *FakeFactory) Models() []*FakeModel {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*FakeModel, len(f.models))
	copy(out, f.models)
	return out
}

// Init implements ports.AtmosphereModel.
func (m *FakeModel) Init(_ context.Context, params entities.InitParams) error {
	if m.InitParams != nil {
		return fmt.Errorf("model initialized twice")
	}
	p := params
	m.InitParams = &p
	return m.factory.InitErr
}

// Trajectory implements ports.AtmosphereModel.
func (m *FakeModel) Trajectory(_ context.Context, in entities.TrajectoryInput) (entities.AtmosphereState, error) {
	if m.InitParams == nil {
		return entities.AtmosphereState{}, fmt.Errorf("model not initialized")
	}
	if m.factory.EvalErr != nil {
		return entities.AtmosphereState{}, m.factory.EvalErr
	}
	t := in
	m.Evaluated = &t

	density := 1.225 * math.Exp(-in.Altitude/7.9)
	if m.factory.Density != nil {
		density = *m.factory.Density
	}
	return entities.AtmosphereState{
		Density:         density,
		MeanPressure:    101325 * math.Exp(-in.Altitude/7.9),
		MeanTemperature: 216.65,
		SpeedOfSound:    295.1,
	}, nil
}

// Close implements ports.AtmosphereModel.
func (m *FakeModel) Close(context.Context) error {
	m.Closed = true
	return nil
}
