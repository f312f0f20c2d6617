// Package ignore decides which paths are visible in the rendered tree and
// which files are eligible for content inclusion. It layers three
// independent sources: a fixed default-ignore name set, an optional
// .gitignore specification, and optional include/exclude glob
// specifications.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/pathrules"
	"go.uber.org/zap"
)

// DefaultIgnores lists path-segment names that are ignored unconditionally
// unless an explicit show-ignored override is active. A path is ignored when
// any of its segments equals a member of this set.
var DefaultIgnores = map[string]bool{
	".git":        true,
	".vscode":     true,
	"__pycache__": true,
	".DS_Store":   true,
	".idea":       true,
	".gitignore":  true,
}

// PatternSpec is a compiled include or exclude glob specification.
// A nil *PatternSpec means "no restriction": Matches returns true for
// every path. CompilePatterns returns nil for an empty pattern list and
// for the single-element wildcard list ["*"].
type PatternSpec struct {
	matcher  *pathrules.Matcher
	patterns []string
}

// CompilePatterns compiles glob patterns (gitignore syntax) into a
// PatternSpec. Empty pattern strings are dropped.
func CompilePatterns(patterns []string) (*PatternSpec, error) {
	cleaned := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern != "" {
			cleaned = append(cleaned, pattern)
		}
	}
	if len(cleaned) == 0 || (len(cleaned) == 1 && cleaned[0] == "*") {
		return nil, nil
	}

	rules := make([]pathrules.Rule, 0, len(cleaned))
	for _, pattern := range cleaned {
		rules = append(rules, pathrules.Rule{
			Pattern: pattern,
			Action:  pathrules.ActionInclude,
		})
	}

	matcher, err := pathrules.NewMatcher(rules, pathrules.MatcherOptions{
		DefaultAction: pathrules.ActionExclude,
	})
	if err != nil {
		return nil, fmt.Errorf("compile patterns: %w", err)
	}

	return &PatternSpec{matcher: matcher, patterns: cleaned}, nil
}

// Matches reports whether the relative path matches the specification.
// Path separators are normalized to '/' before matching.
func (s *PatternSpec) Matches(relPath string, isDir bool) bool {
	if s == nil {
		return true
	}
	return s.matcher.Included(filepath.ToSlash(relPath), isDir)
}

// Patterns returns the source patterns the specification was built from.
func (s *PatternSpec) Patterns() []string {
	if s == nil {
		return nil
	}
	return s.patterns
}

// GitignoreSpec is a compiled .gitignore rule set. A nil *GitignoreSpec
// matches nothing.
type GitignoreSpec struct {
	matcher *pathrules.Matcher
}

// CompileGitignore compiles gitignore rule lines into a GitignoreSpec.
func CompileGitignore(lines []string) (*GitignoreSpec, error) {
	rules, err := pathrules.ParseRulesString(strings.Join(lines, "\n"), pathrules.ParseOptions{})
	if err != nil {
		return nil, fmt.Errorf("parse gitignore rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, pathrules.MatcherOptions{
		DefaultAction: pathrules.ActionInclude,
	})
	if err != nil {
		return nil, fmt.Errorf("compile gitignore rules: %w", err)
	}

	return &GitignoreSpec{matcher: matcher}, nil
}

// LoadGitignore searches for a .gitignore file starting at rootDir and
// walking up through parent directories, compiling the first one found.
// Returns nil when no .gitignore exists anywhere on the chain.
func LoadGitignore(rootDir string, logger *zap.Logger) (*GitignoreSpec, error) {
	currentDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve root directory: %w", err)
	}

	for {
		gitignorePath := filepath.Join(currentDir, ".gitignore")
		if _, statErr := os.Stat(gitignorePath); statErr == nil {
			logger.Debug("Found .gitignore", zap.String("directory", currentDir))
			rules, loadErr := pathrules.LoadRulesFile(gitignorePath, pathrules.ParseOptions{})
			if loadErr != nil {
				return nil, fmt.Errorf("load %s: %w", gitignorePath, loadErr)
			}
			if len(rules) == 0 {
				return nil, nil
			}
			matcher, compileErr := pathrules.NewMatcher(rules, pathrules.MatcherOptions{
				DefaultAction: pathrules.ActionInclude,
			})
			if compileErr != nil {
				return nil, fmt.Errorf("compile %s: %w", gitignorePath, compileErr)
			}
			return &GitignoreSpec{matcher: matcher}, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return nil, nil
		}
		currentDir = parentDir
	}
}

// Matches reports whether the gitignore specification ignores the path.
func (g *GitignoreSpec) Matches(path string, isDir bool) bool {
	if g == nil {
		return false
	}
	return g.matcher.Excluded(filepath.ToSlash(path), isDir)
}

// IsDefaultOrGitignored reports whether the path is ignored by the default
// name set or by the gitignore specification. The gitignore check runs
// against both the root-relative path and the raw path, so callers may
// hold either form.
func IsDefaultOrGitignored(path string, gitignoreSpec *GitignoreSpec, rootDir string, isDir bool) bool {
	relPath := Relativize(path, rootDir)

	for _, segment := range strings.Split(relPath, "/") {
		if DefaultIgnores[segment] {
			return true
		}
	}

	if gitignoreSpec.Matches(relPath, isDir) {
		return true
	}
	return gitignoreSpec.Matches(path, isDir)
}

// IsTreeVisible reports whether the path should appear in the rendered
// tree. showIgnored disables all filtering; showDefaultIgnoredOnly keeps
// default-ignored names visible while still honoring gitignore rules.
func IsTreeVisible(path string, gitignoreSpec *GitignoreSpec, rootDir string, showIgnored, showDefaultIgnoredOnly, isDir bool) bool {
	if showIgnored {
		return true
	}
	if showDefaultIgnoredOnly {
		return !gitignoreSpec.Matches(Relativize(path, rootDir), isDir)
	}
	return !IsDefaultOrGitignored(path, gitignoreSpec, rootDir, isDir)
}

// Relativize expresses path relative to rootDir with separators normalized
// to '/'. Paths that cannot be made relative are returned normalized as-is.
func Relativize(path, rootDir string) string {
	relPath, err := filepath.Rel(rootDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(relPath)
}
