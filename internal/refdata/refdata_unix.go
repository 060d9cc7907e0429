//go:build !windows

package refdata

// DefaultDir is used when no directory is linked in.
const DefaultDir = "/usr/local/share/earthgram2016"

func defaultDir() (string, error) {
	return DefaultDir, nil
}
