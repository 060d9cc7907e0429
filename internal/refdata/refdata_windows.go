//go:build windows

package refdata

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDir is used when no directory is linked in, relative to the
// directory of the executable.
const DefaultDir = "earthgram2016"

func defaultDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("refdata: locate executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), DefaultDir), nil
}
