// Package template expands environment references in configuration files,
// e.g. "dir: {{ .env.EARTHGRAM_DIR }}".
package template

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/ports"
)

// templateConfig holds configuration for the GoTemplateEngine.
type templateConfig struct {
	strict bool // Fail on missing keys
}

func defaultTemplateConfig() templateConfig {
	return templateConfig{
		strict: true,
	}
}

// TemplateOption configures a GoTemplateEngine.
type TemplateOption func(*templateConfig)

// WithStrict enables/disables strict mode for missing keys.
// When enabled (default), rendering fails if a referenced variable is unset.
func WithStrict(enabled bool) TemplateOption {
	return func(c *templateConfig) {
		c.strict = enabled
	}
}

// GoTemplateEngine implements TemplateEngine using text/template.
type GoTemplateEngine struct {
	config templateConfig
}

// NewGoTemplateEngine creates a new GoTemplateEngine.
func NewGoTemplateEngine(opts ...TemplateOption) ports.TemplateEngine {
	cfg := defaultTemplateConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GoTemplateEngine{config: cfg}
}

// Render expands raw with vars available as .env.
func (e *GoTemplateEngine) Render(raw []byte, vars map[string]string) ([]byte, error) {
	tmpl := template.New("config")
	if e.config.strict {
		tmpl = tmpl.Option("missingkey=error")
	}

	tmpl, err := tmpl.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{"env": vars}); err != nil {
		return nil, fmt.Errorf("failed to expand config template: %w", err)
	}
	return buf.Bytes(), nil
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	env := os.Environ()
	vars := make(map[string]string, len(env))
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars
}
