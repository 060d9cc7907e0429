package entities

// Backend names a model implementation.
const (
	BackendWasm      = "wasm"
	BackendEarthGRAM = "earthgram"
)

// Config is the gateway configuration as read from YAML.
type Config struct {
	Model     ModelConfig     `yaml:"model"`
	Reference ReferenceConfig `yaml:"reference"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ModelConfig selects the atmospheric model backend.
type ModelConfig struct {
	// Backend is "wasm" or "earthgram".
	Backend string `yaml:"backend" validate:"required,oneof=wasm earthgram"`

	// WasmPath is the WASM build of the model, required by the wasm backend.
	WasmPath string `yaml:"wasm_path" validate:"required_if=Backend wasm"`
}

// ReferenceConfig locates the model's reference data.
type ReferenceConfig struct {
	// Dir overrides the build-time reference-data directory.
	Dir string `yaml:"dir" validate:"omitempty,dir"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// MetricsConfig controls the prometheus endpoint. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}
