package wasmmodel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/application/invoker"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	domainerrors "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/errors"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory(t *testing.T, wasm []byte) *Factory {
	t.Helper()
	f, err := NewFactory(context.Background(), wasm)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close(context.Background()) })
	return f
}

func initParams(dir string) entities.InitParams {
	return entities.InitParams{ReferencePath: dir, ReferenceFile: entities.ReferenceFile, Epoch: "2019-01-25 14:30:00"}
}

func TestNewFactory_InvalidModule(t *testing.T) {
	_, err := NewFactory(context.Background(), []byte("not wasm"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile module")
}

func TestNewFactory_MissingExports(t *testing.T) {
	_, err := NewFactory(context.Background(), testutil.EmptyGuest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingExport))
	assert.Contains(t, err.Error(), `"allocate"`)
}

func TestNewFactoryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.wasm")
	require.NoError(t, os.WriteFile(path, testutil.ModelGuest, 0o600))

	f, err := NewFactoryFromFile(context.Background(), path)
	require.NoError(t, err)
	assert.NoError(t, f.Close(context.Background()))

	_, err = NewFactoryFromFile(context.Background(), filepath.Join(t.TempDir(), "missing.wasm"))
	assert.Error(t, err)
}

func TestModel_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFactory(t, testutil.ModelGuest)

	m, err := f.NewModel(ctx)
	require.NoError(t, err)

	_, err = m.Trajectory(ctx, entities.TrajectoryInput{})
	assert.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, m.Init(ctx, initParams(t.TempDir())))
	assert.ErrorIs(t, m.Init(ctx, initParams(t.TempDir())), ErrAlreadyInitialized)

	state, err := m.Trajectory(ctx, entities.NewTrajectoryInput(entities.Query{Altitude: 20, Latitude: 30, Longitude: 120}))
	require.NoError(t, err)
	assert.Equal(t, 0.0889, state.Density)
	assert.Equal(t, 295.1, state.SpeedOfSound)

	assert.NoError(t, m.Close(ctx))
	assert.NoError(t, m.Close(ctx))
}

func TestModel_FreshInstancePerModel(t *testing.T) {
	ctx := context.Background()
	f := newFactory(t, testutil.ModelGuest)
	dir := t.TempDir()

	var models []entities.AtmosphereState
	for i := 0; i < 2; i++ {
		m, err := f.NewModel(ctx)
		require.NoError(t, err)
		require.NoError(t, m.Init(ctx, initParams(dir)))
		state, err := m.Trajectory(ctx, entities.TrajectoryInput{Update: true, FirstCall: true})
		require.NoError(t, err)
		models = append(models, state)
		defer m.Close(ctx) //nolint:errcheck
	}
	assert.Equal(t, models[0], models[1])
}

func TestModel_InitErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		wasm   []byte
		params entities.InitParams
		want   string
	}{
		{"no reference dir", testutil.ModelGuest, initParams(""), "not set"},
		{"missing reference dir", testutil.ModelGuest, initParams(filepath.Join(os.TempDir(), "does-not-exist-earthgram")), "reference data directory"},
		{"guest status", testutil.ModelGuestInitFail, initParams(t.TempDir()), "status 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := newFactory(t, tt.wasm).NewModel(ctx)
			require.NoError(t, err)
			defer m.Close(ctx) //nolint:errcheck

			err = m.Init(ctx, tt.params)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestModel_InitRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), entities.ReferenceFile)
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	m, err := newFactory(t, testutil.ModelGuest).NewModel(context.Background())
	require.NoError(t, err)
	err = m.Init(context.Background(), initParams(file))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestModel_GuestError(t *testing.T) {
	ctx := context.Background()
	m, err := newFactory(t, testutil.ModelGuestEvalFail).NewModel(ctx)
	require.NoError(t, err)
	defer m.Close(ctx) //nolint:errcheck

	require.NoError(t, m.Init(ctx, initParams(t.TempDir())))
	_, err = m.Trajectory(ctx, entities.TrajectoryInput{})
	require.Error(t, err)
	assert.Equal(t, "altitude out of range", err.Error())
}

func TestFactory_WithInvoker(t *testing.T) {
	ctx := context.Background()
	q := entities.Query{Altitude: 20, Latitude: 30, Longitude: 120, Epoch: "2019-01-25 14:30:00"}

	density, err := invoker.New(newFactory(t, testutil.ModelGuest), t.TempDir()).Evaluate(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 0.0889, density)

	_, err = invoker.New(newFactory(t, testutil.ModelGuestInitFail), t.TempDir()).Evaluate(ctx, q)
	var initErr *domainerrors.ModelInitError
	assert.True(t, errors.As(err, &initErr))

	_, err = invoker.New(newFactory(t, testutil.ModelGuestEvalFail), t.TempDir()).Evaluate(ctx, q)
	var evalErr *domainerrors.ModelEvalError
	assert.True(t, errors.As(err, &evalErr))
}
