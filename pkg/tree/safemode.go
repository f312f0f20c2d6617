package tree

import (
	"fmt"
	"os"
)

// Safe-mode default ceilings. The byte ceiling is measured as the sum of
// on-disk file sizes, not post-read size.
const (
	SafeModeMaxFiles      = 30
	SafeModeMaxTotalBytes = 100_000
)

// checkSafeMode enforces the file-count and cumulative-size ceilings over
// the selected set before any file content is read. The size accumulation
// short-circuits as soon as the ceiling is crossed.
func checkSafeMode(selected []string, maxFiles int, maxTotalBytes int64) error {
	if maxFiles <= 0 {
		maxFiles = SafeModeMaxFiles
	}
	if maxTotalBytes <= 0 {
		maxTotalBytes = SafeModeMaxTotalBytes
	}

	if len(selected) > maxFiles {
		return &CountLimitError{Selected: len(selected), Limit: maxFiles}
	}

	var total int64
	for _, path := range selected {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		total += info.Size()
		if total > maxTotalBytes {
			return &SizeLimitError{Limit: maxTotalBytes}
		}
	}
	return nil
}
