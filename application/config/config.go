// Package config applies defaults to and validates gateway configuration.
package config

import (
	stdErrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/errors"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/ports"
)

// validate is a package-level singleton for better performance.
// Creating a new validator on each call is expensive; reusing is recommended.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their YAML names so errors match the config file.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Default returns the configuration used when no file is given.
func Default() entities.Config {
	return entities.Config{
		Model: entities.ModelConfig{Backend: entities.BackendEarthGRAM},
		Log:   entities.LogConfig{Level: "info", Format: "text"},
	}
}

// ApplyDefaults fills unset fields with their defaults.
func ApplyDefaults(cfg *entities.Config) {
	def := Default()
	if cfg.Model.Backend == "" {
		cfg.Model.Backend = def.Model.Backend
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}

// Validate checks cfg against its struct tags.
// The first violation is returned as a *errors.ConfigError.
func Validate(cfg *entities.Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if stdErrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &errors.ConfigError{
			Field: fieldPath(fe.Namespace()),
			Err:   fmt.Errorf("failed on the '%s' rule (value %v)", fe.Tag(), fe.Value()),
		}
	}
	return &errors.ConfigError{Err: err}
}

// fieldPath turns "Config.model.wasm_path" into "model.wasm_path".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// Loader parses, defaults and validates configuration files.
type Loader struct {
	parser ports.ConfigParser
}

// NewLoader creates a Loader using the given parser.
func NewLoader(parser ports.ConfigParser) *Loader {
	return &Loader{parser: parser}
}

// Load turns raw configuration bytes into a validated Config.
func (l *Loader) Load(raw []byte) (*entities.Config, error) {
	cfg, err := l.parser.Parse(raw)
	if err != nil {
		return nil, &errors.ConfigError{Err: fmt.Errorf("failed to parse config: %w", err)}
	}

	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
