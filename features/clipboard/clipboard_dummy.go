//go:build !windows

// https://github.com/golang-design/clipboard requires CGO or external dependencies on non-Windows platform.

package clipboard

import (
	"fmt"
	"runtime"
)

var ErrUnsupported = fmt.Errorf("clipboard is not supported on %s", runtime.GOOS)

func Init() error {
	return ErrUnsupported
}

func CopyString(str string) error {
	return ErrUnsupported
}

func CopyImage(name string) error {
	return ErrUnsupported
}
