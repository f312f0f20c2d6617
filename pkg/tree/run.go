package tree

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"contextree/pkg/ignore"
)

// Run executes the full pipeline for one invocation: compile patterns,
// render the tree, select files, enforce safe mode, and assemble the
// artifact. Nothing is written to disk; the caller owns the single
// write of the artifact after Run succeeds.
func Run(opts Options, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rootDir, err := filepath.Abs(opts.RootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve root directory: %w", err)
	}

	var gitignoreSpec *ignore.GitignoreSpec
	if opts.UseGitignore {
		gitignoreSpec, err = ignore.LoadGitignore(rootDir, logger)
		if err != nil {
			return nil, fmt.Errorf("load gitignore: %w", err)
		}
	}

	includeSpec, err := ignore.CompilePatterns(opts.IncludePatterns)
	if err != nil {
		return nil, fmt.Errorf("compile include patterns: %w", err)
	}
	excludeSpec, err := ignore.CompilePatterns(opts.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("compile exclude patterns: %w", err)
	}

	treeText, eligible, err := Render(RenderConfig{
		RootDir:            rootDir,
		Gitignore:          gitignoreSpec,
		Include:            includeSpec,
		Exclude:            excludeSpec,
		ShowIgnored:        opts.ShowIgnoredInTree,
		ShowDefaultIgnored: opts.ShowDefaultIgnoredInTree,
		Logger:             logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Rendered directory tree",
		zap.Int("eligibleFiles", len(eligible)))

	selected, err := selectFiles(opts, rootDir, eligible, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("Selected files", zap.Int("count", len(selected)))

	if opts.SafeMode {
		if err := checkSafeMode(selected, opts.MaxFiles, opts.MaxTotalBytes); err != nil {
			return nil, err
		}
	}

	artifact := assemble(rootDir, treeText, selected, opts.LineNumbers, logger)

	return &Result{
		Artifact:        artifact,
		Tree:            treeText,
		SelectedFiles:   selected,
		EstimatedTokens: EstimateTokens(artifact),
	}, nil
}

// WriteArtifact writes the assembled artifact to the destination path in a
// single operation. It is only called after every filtering, selection,
// and safety check has succeeded.
func WriteArtifact(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output file %s: %w", path, err)
	}
	return nil
}
