package tree

import (
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// selectFiles builds the concrete file set for the run. The returned slice
// is the emission order for the assembler: traversal order for SelectAll
// and SelectInteractive, supplied-list order for SelectPrevious.
func selectFiles(opts Options, rootDir string, eligible []string, logger *zap.Logger) ([]string, error) {
	switch opts.Mode {
	case SelectPrevious:
		return resolvePreviousSelection(rootDir, opts.PreviousFiles, logger)

	case SelectInteractive:
		if opts.Selector == nil {
			return nil, errors.New("interactive selection requested without a selector")
		}
		chosen, err := opts.Selector.SelectFiles(eligible)
		if err != nil {
			return nil, err
		}
		selected := make([]string, 0, len(chosen))
		for _, path := range eligible {
			if chosen[path] {
				selected = append(selected, path)
			}
		}
		return selected, nil

	default:
		return append([]string(nil), eligible...), nil
	}
}

// resolvePreviousSelection resolves saved root-relative paths against the
// root. Paths that no longer exist or are not regular files are skipped
// with a warning; a list yielding nothing at all is a configuration error.
func resolvePreviousSelection(rootDir string, previous []string, logger *zap.Logger) ([]string, error) {
	var selected []string
	seen := make(map[string]bool, len(previous))

	for _, relPath := range previous {
		absPath, err := filepath.Abs(filepath.Join(rootDir, relPath))
		if err != nil {
			logger.Warn("Previously selected path could not be resolved",
				zap.String("path", relPath), zap.Error(err))
			continue
		}
		info, err := os.Stat(absPath)
		if err != nil || !info.Mode().IsRegular() {
			logger.Warn("Previously selected file not found",
				zap.String("path", relPath))
			continue
		}
		if !seen[absPath] {
			seen[absPath] = true
			selected = append(selected, absPath)
		}
	}

	if len(selected) == 0 {
		return nil, ErrNoValidSelection
	}
	return selected, nil
}
