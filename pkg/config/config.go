// Package config resolves the per-invocation option set from a global
// config file, a per-project config file, and CLI overrides, in that
// order of precedence (later wins).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ProjectConfigFile is the per-project configuration file name,
	// looked up in the root directory.
	ProjectConfigFile = ".contextree.yaml"
	// globalConfigDir is the directory under $HOME/.config holding the
	// global configuration file.
	globalConfigDir = "contextree"
	// globalConfigFile is the global configuration file name.
	globalConfigFile = "config.yaml"
	// DefaultOutputFile is the artifact destination when none is configured.
	DefaultOutputFile = "contextree_output.txt"
)

// Config is the resolved option set handed to the engine and the CLI.
type Config struct {
	UseGitignore             bool     `mapstructure:"use_gitignore"`
	IncludeFileTypes         []string `mapstructure:"include_file_types"`
	ExcludeFileTypes         []string `mapstructure:"exclude_file_types"`
	IncludePatterns          []string `mapstructure:"include_patterns"`
	ExcludePatterns          []string `mapstructure:"exclude_patterns"`
	OutputFile               string   `mapstructure:"output_file"`
	OutputFileLocally        bool     `mapstructure:"output_file_locally"`
	CopyToClipboard          bool     `mapstructure:"copy_to_clipboard"`
	SafeMode                 bool     `mapstructure:"safe_mode"`
	MaxFiles                 int      `mapstructure:"max_files"`
	MaxTotalBytes            int64    `mapstructure:"max_total_bytes"`
	StoreFilesChosen         bool     `mapstructure:"store_files_chosen"`
	LineNumbers              bool     `mapstructure:"line_numbers"`
	ShowIgnoredInTree        bool     `mapstructure:"show_ignored_in_tree"`
	ShowDefaultIgnoredInTree bool     `mapstructure:"show_default_ignored_in_tree"`
	PreviousFiles            []string `mapstructure:"previous_files"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		UseGitignore:      true,
		IncludeFileTypes:  []string{"*"},
		OutputFile:        DefaultOutputFile,
		OutputFileLocally: true,
		SafeMode:          true,
	}
}

// Load merges the global config file (if any) and the project config file
// in rootDir (if any) over the defaults. A missing file is not an error.
func Load(rootDir string) (Config, error) {
	cfg := Default()

	if homeDir, err := os.UserHomeDir(); err == nil && homeDir != "" {
		globalPath := filepath.Join(homeDir, ".config", globalConfigDir, globalConfigFile)
		if err := mergeFile(&cfg, globalPath); err != nil {
			return Config{}, err
		}
	}

	projectPath := filepath.Join(rootDir, ProjectConfigFile)
	if err := mergeFile(&cfg, projectPath); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// mergeFile overlays the keys present in the YAML file at path onto cfg.
func mergeFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("inspect config file %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// SavePreviousFiles persists the selection as root-relative paths into the
// project config file, preserving any other keys already present.
func SavePreviousFiles(rootDir string, selected []string) error {
	relPaths := make([]string, 0, len(selected))
	for _, path := range selected {
		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			relPath = path
		}
		relPaths = append(relPaths, filepath.ToSlash(relPath))
	}

	projectPath := filepath.Join(rootDir, ProjectConfigFile)
	v := viper.New()
	v.SetConfigFile(projectPath)
	v.SetConfigType("yaml")
	if _, err := os.Stat(projectPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", projectPath, err)
		}
	}
	v.Set("previous_files", relPaths)
	if err := v.WriteConfigAs(projectPath); err != nil {
		return fmt.Errorf("write config file %s: %w", projectPath, err)
	}
	return nil
}

// NormalizeFileTypes parses a comma-separated extension list ("py,.js")
// into dotted extensions ([".py", ".js"]). The single wildcard "*" means
// all types.
func NormalizeFileTypes(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if raw == "*" {
		return []string{"*"}
	}

	var types []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimLeft(part, ".")
		if part != "" {
			types = append(types, "."+part)
		}
	}
	return types
}

// NormalizePatterns parses a comma-separated glob pattern list.
func NormalizePatterns(raw string) []string {
	var patterns []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			patterns = append(patterns, part)
		}
	}
	return patterns
}

// FileTypesToPatterns converts dotted extensions to recursive include
// globs. The wildcard list (or an empty list) means no restriction.
func FileTypesToPatterns(types []string) []string {
	if len(types) == 0 {
		return []string{"*"}
	}
	if len(types) == 1 && types[0] == "*" {
		return []string{"*"}
	}

	patterns := make([]string, 0, len(types))
	for _, fileType := range types {
		fileType = strings.TrimSpace(fileType)
		if fileType == "" {
			continue
		}
		if !strings.HasPrefix(fileType, ".") {
			fileType = "." + fileType
		}
		patterns = append(patterns, "**/*"+fileType)
	}
	if len(patterns) == 0 {
		return []string{"*"}
	}
	return patterns
}

// ResolvedIncludePatterns returns the effective include globs: explicit
// patterns when present, otherwise the type-derived ones.
func (c Config) ResolvedIncludePatterns() []string {
	if len(c.IncludePatterns) > 0 {
		return c.IncludePatterns
	}
	return FileTypesToPatterns(c.IncludeFileTypes)
}

// ResolvedExcludePatterns returns the effective exclude globs: the
// type-derived ones unioned with the explicit patterns.
func (c Config) ResolvedExcludePatterns() []string {
	var patterns []string
	if len(c.ExcludeFileTypes) > 0 {
		patterns = append(patterns, FileTypesToPatterns(c.ExcludeFileTypes)...)
	}
	patterns = append(patterns, c.ExcludePatterns...)
	return patterns
}
