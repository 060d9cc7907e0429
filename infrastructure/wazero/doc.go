// Package wazero bridges the hostfuncs registry and the wazero runtime.
//
// It converts between the packed i64 pointer+length format and byte slices,
// reads requests from guest memory, and writes responses into memory the
// guest allocates.
//
//	registry, err := hostfuncs.NewRegistry(
//	    hostfuncs.WithMiddleware(hostfuncs.PanicRecoveryMiddleware()),
//	    hostfuncs.WithBundle(hostfuncs.DensityBundle(gw, doc)),
//	)
//	if err != nil {
//	    return err
//	}
//
//	runtime := wazero.NewRuntime(ctx)
//	err = wazero.RegisterWithRuntime(ctx, runtime, registry,
//	    wazero.WithCustomHandler(wazero.LogMessageHandler(logger)),
//	)
//
// Guests import the functions from module "atmdensity_host":
//
//	//go:wasmimport atmdensity_host get_atm_density
//	func hostGetAtmDensity(request uint64) uint64
package wazero
