// Package earthgram adapts the native EarthGRAM2016 C++ library to
// ports.AtmosphereModel through cgo.
//
// The adapter is compiled only with cgo enabled and the earthgram build tag:
//
//	CGO_CXXFLAGS="-I/opt/earthgram2016/include" \
//	CGO_LDFLAGS="-L/opt/earthgram2016/lib" \
//	go build -tags earthgram ./...
//
// Without the tag, NewFactory returns a factory whose models fail with
// ErrUnavailable.
package earthgram

import "errors"

// ErrUnavailable means the binary was built without the native library.
var ErrUnavailable = errors.New("earthgram: native model not compiled in (build with -tags earthgram)")

// traj output order, as the library fills its out-parameters.
const (
	outDensity = iota
	outPm
	outTm
	outUm
	outVm
	outWm
	outDp
	outPp
	outTp
	outUp
	outVp
	outWp
	outDs
	outPs
	outTs
	outUs
	outVs
	outWs
	outDsmall
	outPsmall
	outTsmall
	outUsmall
	outVsmall
	outWsmall
	outSos
	outSosp
	numOutputs
)
