package tree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"contextree/pkg/ignore"
)

// RenderConfig carries everything the tree renderer needs for one pass.
type RenderConfig struct {
	RootDir            string
	Gitignore          *ignore.GitignoreSpec
	Include            *ignore.PatternSpec
	Exclude            *ignore.PatternSpec
	ShowIgnored        bool
	ShowDefaultIgnored bool
	Logger             *zap.Logger
}

// Render walks the root directory depth-first and produces the rendered
// tree text plus the flat list of eligible files (absolute paths, traversal
// order). Both come from the same filtering pass and never diverge: every
// file leaf printed in the tree is in the list and vice versa. Symlinks are
// followed; entries resolving to neither a directory nor a regular file are
// omitted from both.
func Render(cfg RenderConfig) (string, []string, error) {
	rootDir, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return "", nil, fmt.Errorf("resolve root directory: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	r := &renderer{cfg: cfg, root: rootDir}
	r.lines = append(r.lines, ".")
	if err := r.walk(rootDir, ""); err != nil {
		return "", nil, err
	}

	return strings.Join(r.lines, "\n"), r.files, nil
}

type renderer struct {
	cfg   RenderConfig
	root  string
	lines []string
	files []string
}

// treeEntry is one surviving directory entry with its symlink-resolved kind.
type treeEntry struct {
	name  string
	path  string
	isDir bool
}

// walk appends one rendered line per surviving child of dirPath and
// recurses into surviving directories. indentPrefix carries the
// last-sibling state of every ancestor level.
func (r *renderer) walk(dirPath, indentPrefix string) error {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", dirPath, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var kept []treeEntry
	for _, entry := range entries {
		entryPath := filepath.Join(dirPath, entry.Name())
		// Stat, not the DirEntry type, so symlinks resolve to their target.
		info, statErr := os.Stat(entryPath)
		if statErr != nil {
			r.cfg.Logger.Debug("Skipping unresolvable entry",
				zap.String("path", entryPath), zap.Error(statErr))
			continue
		}
		isDir := info.IsDir()
		if !isDir && !info.Mode().IsRegular() {
			r.cfg.Logger.Debug("Skipping non-regular entry", zap.String("path", entryPath))
			continue
		}
		if !r.visible(entryPath, isDir) {
			r.cfg.Logger.Debug("Hiding ignored entry", zap.String("path", entryPath))
			continue
		}
		if !r.passesPatterns(entryPath, isDir) {
			r.cfg.Logger.Debug("Entry filtered by patterns", zap.String("path", entryPath))
			continue
		}
		kept = append(kept, treeEntry{name: entry.Name(), path: entryPath, isDir: isDir})
	}

	for i, entry := range kept {
		isLast := i == len(kept)-1
		connector := "├── "
		extension := "│   "
		if isLast {
			connector = "└── "
			extension = "    "
		}

		if entry.isDir {
			r.lines = append(r.lines, indentPrefix+connector+entry.name+"/")
			if err := r.walk(entry.path, indentPrefix+extension); err != nil {
				return err
			}
			continue
		}

		r.lines = append(r.lines, indentPrefix+connector+entry.name)
		r.files = append(r.files, entry.path)
	}

	return nil
}

// visible applies the tree-visibility policy (default ignores + gitignore).
func (r *renderer) visible(path string, isDir bool) bool {
	return ignore.IsTreeVisible(path, r.cfg.Gitignore, r.root,
		r.cfg.ShowIgnored, r.cfg.ShowDefaultIgnored, isDir)
}

// passesPatterns applies the include/exclude specifications as a second
// filtering stage over whatever the visibility policy already allowed.
func (r *renderer) passesPatterns(path string, isDir bool) bool {
	relPath := ignore.Relativize(path, r.root)

	if r.cfg.Include != nil && !r.cfg.Include.Matches(relPath, isDir) {
		if !isDir || !mightContainIncluded(relPath, r.cfg.Include.Patterns()) {
			return false
		}
	}
	if r.cfg.Exclude != nil && r.cfg.Exclude.Matches(relPath, isDir) {
		return false
	}
	return true
}

// mightContainIncluded reports whether any include pattern could plausibly
// match a descendant of the directory at relDir. The check is a heuristic
// (pattern anchored at or below the directory, or carrying a recursive
// wildcard); it errs toward keeping the directory so that a matching
// descendant is never pruned away.
func mightContainIncluded(relDir string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, relDir+"/") {
			return true
		}
		if strings.HasPrefix(pattern, "**/") || strings.Contains(pattern, "**") {
			return true
		}
	}
	return false
}
