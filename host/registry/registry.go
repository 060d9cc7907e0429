// Package registry holds the functions a host session can call by name.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/application/schema"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
)

// Function is a host-callable function. Failures are reported through the
// function's own error channel; a nil result means no output.
type Function interface {
	Call(ctx context.Context, nargout int, inputs []entities.Argument) []entities.Argument
}

// FunctionFunc adapts an ordinary function to Function.
type FunctionFunc func(ctx context.Context, nargout int, inputs []entities.Argument) []entities.Argument

// Call implements Function.
func (f FunctionFunc) Call(ctx context.Context, nargout int, inputs []entities.Argument) []entities.Argument {
	return f(ctx, nargout, inputs)
}

// Entry is a registered function with its signature.
type Entry struct {
	Function  Function
	Signature entities.Signature
}

// registryConfig holds configuration for the Registry.
type registryConfig struct {
	strictMode bool // Fail on duplicate registrations
}

func defaultRegistryConfig() registryConfig {
	return registryConfig{
		strictMode: true,
	}
}

// RegistryOption configures a Registry instance.
type RegistryOption func(*registryConfig)

// WithStrictMode enables/disables strict mode for duplicate registrations.
// Default is true (fail on duplicates). Disable only for testing or hot-reloading.
func WithStrictMode(enabled bool) RegistryOption {
	return func(c *registryConfig) {
		c.strictMode = enabled
	}
}

// Registry maps function names to functions and their described signatures.
// It is safe for concurrent use.
type Registry struct {
	config  registryConfig
	entries sync.Map // map[string]Entry
	docs    sync.Map // map[string][]byte
}

// NewRegistry creates a new Registry with the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{config: cfg}
}

// Register adds fn under sig.Name.
func (r *Registry) Register(fn Function, sig entities.Signature) error {
	if sig.Name == "" {
		return fmt.Errorf("function signature has no name")
	}
	if r.config.strictMode {
		if _, exists := r.entries.Load(sig.Name); exists {
			return fmt.Errorf("function %q already registered", sig.Name)
		}
	}

	doc, err := schema.Describe(sig)
	if err != nil {
		return fmt.Errorf("failed to describe %s: %w", sig.Name, err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal description of %s: %w", sig.Name, err)
	}

	r.entries.Store(sig.Name, Entry{Function: fn, Signature: sig})
	r.docs.Store(sig.Name, data)
	return nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	v, ok := r.entries.Load(name)
	if !ok {
		return Entry{}, false
	}
	return v.(Entry), true
}

// Describe returns the JSON description (signature and request schema) of name.
func (r *Registry) Describe(name string) ([]byte, bool) {
	v, ok := r.docs.Load(name)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

// List returns all registered function names, sorted.
func (r *Registry) List() []string {
	var names []string
	r.entries.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	sort.Strings(names)
	return names
}
