package tree

import (
	"errors"
	"fmt"
)

// ErrCanceled reports that the user aborted an interactive selection.
// No output is written when a run ends with this error.
var ErrCanceled = errors.New("file selection canceled by user")

// ErrNoValidSelection reports that a previous-selection list contained no
// path that still resolves to a regular file under the root.
var ErrNoValidSelection = errors.New("no valid files from previous selection")

// CountLimitError reports that safe mode rejected the selection because it
// contains more files than the configured ceiling.
type CountLimitError struct {
	Selected int
	Limit    int
}

func (e *CountLimitError) Error() string {
	return fmt.Sprintf("safe mode: too many files selected (%d > %d); rerun with --disable-safe-mode to lift the limit",
		e.Selected, e.Limit)
}

// SizeLimitError reports that safe mode rejected the selection because the
// cumulative on-disk size of the selected files crossed the configured
// ceiling.
type SizeLimitError struct {
	Limit int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("safe mode: combined file size too large (> %d bytes); rerun with --disable-safe-mode to lift the limit",
		e.Limit)
}
