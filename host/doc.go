// Package host wires the density gateway into the environments that call it.
//
// A Loader reads configuration, picks the model backend and builds an
// Environment. The Environment exposes the gateway three ways: as a Session
// (an in-process function table with an error channel, used by the REPL and
// the eval command), as a hostfuncs registry for WASM guests, and directly.
// An Executor runs WASM guests against that registry.
package host
