//go:build !cgo || !earthgram

package earthgram

import (
	"context"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/ports"
)

// Available reports whether the native model is compiled in.
const Available = false

// Factory stands in for the native factory.
type Factory struct{}

// NewFactory returns the stand-in factory.
func NewFactory() *Factory {
	return &Factory{}
}

// NewModel implements ports.ModelFactory. It always fails with ErrUnavailable.
func (*Factory) NewModel(context.Context) (ports.AtmosphereModel, error) {
	return nil, ErrUnavailable
}
