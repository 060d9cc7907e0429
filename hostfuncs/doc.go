// Package hostfuncs publishes the density gateway as named JSON host functions.
// Handlers exchange raw JSON bytes and have no WASM runtime dependencies, so
// the same registry serves in-process callers and WASM guests alike.
package hostfuncs
