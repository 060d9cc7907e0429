//go:build wasip1

package wasm

import (
	"fmt"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/hostfuncs"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/internal/abi"
	_ "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/log" // route slog to the host
)

//go:wasmimport atmdensity_host get_atm_density
//nolint:revive // snake_case matches the import name
func host_get_atm_density(requestPacked uint64) uint64

//go:wasmimport atmdensity_host get_atm_density_signature
//nolint:revive // snake_case matches the import name
func host_get_atm_density_signature(requestPacked uint64) uint64

func hostCall(name string, request []byte) ([]byte, error) {
	packed := abi.Send(request)
	defer abi.Free(packed)

	var resp uint64
	switch name {
	case hostfuncs.DensityFunction:
		resp = host_get_atm_density(packed)
	case hostfuncs.DensitySignatureFunction:
		resp = host_get_atm_density_signature(packed)
	default:
		return nil, fmt.Errorf("wasm: no host import for %q", name)
	}

	data := abi.Receive(resp)
	if data == nil {
		return nil, fmt.Errorf("wasm: %s returned no response", name)
	}
	return data, nil
}
