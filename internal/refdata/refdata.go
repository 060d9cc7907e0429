// Package refdata resolves the directory holding the model's reference data
// (NameRef.txt and the tables it names).
//
// The directory is fixed at build time:
//
//	go build -ldflags "-X github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/internal/refdata.buildPath=/opt/earthgram2016" ./cmd/atmdensity
//
// When no path is linked in, each platform falls back to its own default.
package refdata

import (
	"path/filepath"
)

// buildPath is set with -ldflags -X.
var buildPath string

// BuildPath returns the directory linked into the binary, or "".
func BuildPath() string {
	return buildPath
}

// Dir returns the reference-data directory. A non-empty override wins over
// the linked-in path, which wins over the platform default.
func Dir(override string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}
	if buildPath != "" {
		return filepath.Clean(buildPath), nil
	}
	return defaultDir()
}
