//go:build !wasip1

package wasm

func hostCall(string, []byte) ([]byte, error) {
	return nil, ErrNativeBuild
}
