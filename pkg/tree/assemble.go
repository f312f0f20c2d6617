package tree

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"contextree/pkg/ignore"
)

// assemble reads each selected file and concatenates the tree rendering and
// the per-file blocks into the final artifact. A file that cannot be read
// or does not decode as text is skipped with a warning; the run continues.
//
// The artifact is newline-joined from its parts, which pins the layout to:
//
//	# Project Directory Structure:
//	<tree>
//
//	# BEGIN FILE CONTENTS
//
//	# File: <relative path>
//
//	<content>
//
//	# END FILE CONTENTS
func assemble(rootDir, treeText string, selected []string, lineNumbers bool, logger *zap.Logger) string {
	parts := []string{
		"# Project Directory Structure:",
		treeText,
		"\n# BEGIN FILE CONTENTS",
	}

	for _, path := range selected {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Could not read file, skipping",
				zap.String("file", path), zap.Error(err))
			continue
		}
		if !isTextContent(data) {
			logger.Warn("File is not valid text, skipping",
				zap.String("file", path))
			continue
		}

		content := string(data)
		if lineNumbers {
			content = addLineNumbers(content)
		}

		relPath := ignore.Relativize(path, rootDir)
		parts = append(parts,
			fmt.Sprintf("\n# File: %s\n", relPath),
			content,
			"\n# END FILE CONTENTS\n",
		)
	}

	return strings.Join(parts, "\n")
}

// addLineNumbers prefixes every line of content with a fixed-width,
// right-aligned 1-based line number. An empty file still yields exactly
// one numbered blank line.
func addLineNumbers(content string) string {
	if content == "" {
		return "   1 | "
	}

	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	numbered := make([]string, len(lines))
	for i, line := range lines {
		numbered[i] = fmt.Sprintf("%4d | %s", i+1, strings.TrimSuffix(line, "\r"))
	}
	return strings.Join(numbered, "\n")
}

// isTextContent reports whether data can be included as text: it must be
// valid UTF-8 and free of NUL bytes (the usual binary giveaway).
func isTextContent(data []byte) bool {
	if bytes.IndexByte(data, 0) >= 0 {
		return false
	}
	return utf8.Valid(data)
}

// EstimateTokens is a rough token-count heuristic: one token per four
// characters of artifact text.
func EstimateTokens(text string) int {
	return len(text) / 4
}
