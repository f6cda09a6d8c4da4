//go:build windows

package stderr

import (
	"errors"
	"os"
)

// Start reports that capture is unavailable; native libraries on Windows
// write to their own console handle.
func Start(func(string)) error {
	return errors.ErrUnsupported
}

func WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

func Stop() {}
