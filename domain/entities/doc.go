// Package entities provides the core domain types of the density gateway.
// Arguments arrive untyped from the host environment; Values are what remains
// once a slot predicate accepted them. Everything here is call-scoped.
package entities
