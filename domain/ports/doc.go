// Package ports defines the interfaces the gateway depends on.
// The host error channel, the atmospheric model and metrics are all reached
// through these ports; adapters live under infrastructure/.
package ports
