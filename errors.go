package oledmenu

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned by rendering entry points called before Init.
var ErrNotInitialized = errors.New("oledmenu: not initialized")

// DisplayError reports a failure of the display surface. Once Init fails the
// Menu keeps returning it and every rendering entry point becomes a no-op.
type DisplayError struct {
	Op  string // Operation that failed (e.g., "init")
	Err error  // Underlying error
}

func (e *DisplayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("oledmenu: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("oledmenu: %s", e.Op)
}

func (e *DisplayError) Unwrap() error {
	return e.Err
}

// IsDisplayError checks if an error is a display error.
func IsDisplayError(err error) bool {
	var de *DisplayError
	return errors.As(err, &de)
}
