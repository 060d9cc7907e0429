//go:build cgo && earthgram

package earthgram

/*
#cgo CXXFLAGS: -std=c++11
#cgo LDFLAGS: -learthgram2016 -lstdc++
#include <stdlib.h>
#include "earthgram_shim.h"
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/ports"
)

// Available reports whether the native model is compiled in.
const Available = true

const errBufLen = 512

var (
	_ ports.ModelFactory    = (*Factory)(nil)
	_ ports.AtmosphereModel = (*Model)(nil)
)

// Factory builds native model instances.
type Factory struct{}

// NewFactory returns a native factory.
func NewFactory() *Factory {
	return &Factory{}
}

// NewModel implements ports.ModelFactory.
func (*Factory) NewModel(context.Context) (ports.AtmosphereModel, error) {
	m := C.eg_new()
	if m == nil {
		return nil, errors.New("earthgram: failed to allocate model")
	}
	return &Model{ptr: m}, nil
}

// Model owns one native Atm1 instance. It is not safe for concurrent use.
type Model struct {
	ptr *C.eg_model
}

// Init implements ports.AtmosphereModel.
func (m *Model) Init(_ context.Context, p entities.InitParams) error {
	if m.ptr == nil {
		return errors.New("earthgram: model is closed")
	}

	// The library concatenates path and file name.
	path := p.ReferencePath
	if path != "" && path[len(path)-1] != '/' && path[len(path)-1] != '\\' {
		path += "/"
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	cfile := C.CString(p.ReferenceFile)
	defer C.free(unsafe.Pointer(cfile))
	cepoch := C.CString(p.Epoch)
	defer C.free(unsafe.Pointer(cepoch))

	var errBuf [errBufLen]C.char
	if C.eg_init(m.ptr, cpath, cfile, cepoch, &errBuf[0], errBufLen) != 0 {
		return fmt.Errorf("initdata: %s", C.GoString(&errBuf[0]))
	}
	return nil
}

// Trajectory implements ports.AtmosphereModel.
func (m *Model) Trajectory(_ context.Context, in entities.TrajectoryInput) (entities.AtmosphereState, error) {
	if m.ptr == nil {
		return entities.AtmosphereState{}, errors.New("earthgram: model is closed")
	}

	var out [numOutputs]C.double
	var errBuf [errBufLen]C.char
	rc := C.eg_traj(m.ptr,
		C.double(in.Altitude), C.double(in.Latitude), C.double(in.Longitude), C.double(in.ElapsedTime),
		cbool(in.Update), cbool(in.FirstCall),
		&out[0], &errBuf[0], errBufLen)
	if rc != 0 {
		return entities.AtmosphereState{}, fmt.Errorf("traj: %s", C.GoString(&errBuf[0]))
	}

	var values [numOutputs]float64
	for i, v := range out {
		values[i] = float64(v)
	}
	return stateFrom(&values), nil
}

// Close implements ports.AtmosphereModel.
func (m *Model) Close(context.Context) error {
	if m.ptr != nil {
		C.eg_free(m.ptr)
		m.ptr = nil
	}
	return nil
}

func cbool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}
