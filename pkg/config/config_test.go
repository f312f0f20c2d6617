package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.UseGitignore {
		t.Error("gitignore filtering should be on by default")
	}
	if !cfg.SafeMode {
		t.Error("safe mode should be on by default")
	}
	if !cfg.OutputFileLocally {
		t.Error("output should land in the working directory by default")
	}
	if cfg.OutputFile != DefaultOutputFile {
		t.Errorf("OutputFile = %q, want %q", cfg.OutputFile, DefaultOutputFile)
	}
	if !reflect.DeepEqual(cfg.IncludeFileTypes, []string{"*"}) {
		t.Errorf("IncludeFileTypes = %v, want [*]", cfg.IncludeFileTypes)
	}
}

func TestNormalizeFileTypes(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"*", []string{"*"}},
		{"py", []string{".py"}},
		{".py", []string{".py"}},
		{"py,js", []string{".py", ".js"}},
		{" py , .js ", []string{".py", ".js"}},
		{"py,,js", []string{".py", ".js"}},
	}

	for _, tt := range tests {
		if got := NormalizeFileTypes(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("NormalizeFileTypes(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizePatterns(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"**/*.log", []string{"**/*.log"}},
		{"**/*.log, node_modules/**", []string{"**/*.log", "node_modules/**"}},
	}

	for _, tt := range tests {
		if got := NormalizePatterns(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("NormalizePatterns(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestFileTypesToPatterns(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  []string
	}{
		{"empty means no restriction", nil, []string{"*"}},
		{"wildcard means no restriction", []string{"*"}, []string{"*"}},
		{"dotted extension", []string{".py"}, []string{"**/*.py"}},
		{"bare extension gets a dot", []string{"js"}, []string{"**/*.js"}},
		{"multiple types", []string{".py", ".js"}, []string{"**/*.py", "**/*.js"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileTypesToPatterns(tt.types); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FileTypesToPatterns(%v) = %v, want %v", tt.types, got, tt.want)
			}
		})
	}
}

func TestResolvedIncludePatterns(t *testing.T) {
	t.Run("explicit patterns win over types", func(t *testing.T) {
		cfg := Config{
			IncludeFileTypes: []string{".py"},
			IncludePatterns:  []string{"src/**"},
		}
		if got := cfg.ResolvedIncludePatterns(); !reflect.DeepEqual(got, []string{"src/**"}) {
			t.Errorf("ResolvedIncludePatterns() = %v, want [src/**]", got)
		}
	})

	t.Run("types used when no explicit patterns", func(t *testing.T) {
		cfg := Config{IncludeFileTypes: []string{".py"}}
		if got := cfg.ResolvedIncludePatterns(); !reflect.DeepEqual(got, []string{"**/*.py"}) {
			t.Errorf("ResolvedIncludePatterns() = %v, want [**/*.py]", got)
		}
	})
}

func TestResolvedExcludePatterns(t *testing.T) {
	cfg := Config{
		ExcludeFileTypes: []string{".log"},
		ExcludePatterns:  []string{"tmp/**"},
	}
	want := []string{"**/*.log", "tmp/**"}
	if got := cfg.ResolvedExcludePatterns(); !reflect.DeepEqual(got, want) {
		t.Errorf("ResolvedExcludePatterns() = %v, want %v", got, want)
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing files fall back to defaults", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		cfg, err := Load(t.TempDir())
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if !reflect.DeepEqual(cfg, Default()) {
			t.Errorf("Load() = %+v, want defaults %+v", cfg, Default())
		}
	})

	t.Run("project file overlays defaults", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		root := t.TempDir()
		yaml := strings.Join([]string{
			"use_gitignore: false",
			"output_file: custom.txt",
			"exclude_patterns:",
			"  - '**/*.log'",
		}, "\n")
		if err := os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte(yaml), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(root)
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if cfg.UseGitignore {
			t.Error("use_gitignore: false must override the default")
		}
		if cfg.OutputFile != "custom.txt" {
			t.Errorf("OutputFile = %q, want custom.txt", cfg.OutputFile)
		}
		if !reflect.DeepEqual(cfg.ExcludePatterns, []string{"**/*.log"}) {
			t.Errorf("ExcludePatterns = %v, want [**/*.log]", cfg.ExcludePatterns)
		}
		if !cfg.SafeMode {
			t.Error("keys absent from the file must keep their defaults")
		}
	})

	t.Run("global file loads then project file wins", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		globalDir := filepath.Join(home, ".config", globalConfigDir)
		if err := os.MkdirAll(globalDir, 0o755); err != nil {
			t.Fatal(err)
		}
		globalYAML := "output_file: global.txt\nline_numbers: true\n"
		if err := os.WriteFile(filepath.Join(globalDir, globalConfigFile), []byte(globalYAML), 0o644); err != nil {
			t.Fatal(err)
		}

		root := t.TempDir()
		projectYAML := "output_file: project.txt\n"
		if err := os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte(projectYAML), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(root)
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if cfg.OutputFile != "project.txt" {
			t.Errorf("OutputFile = %q, the project file must win", cfg.OutputFile)
		}
		if !cfg.LineNumbers {
			t.Error("global-only keys must still apply")
		}
	})

	t.Run("malformed project file is an error", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		root := t.TempDir()
		if err := os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte(":\n  - bad"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(root); err == nil {
			t.Fatal("expected an error for malformed YAML")
		}
	})
}

func TestSavePreviousFiles(t *testing.T) {
	t.Run("round trip through Load", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		root := t.TempDir()
		selected := []string{
			filepath.Join(root, "a.py"),
			filepath.Join(root, "src", "b.py"),
		}

		if err := SavePreviousFiles(root, selected); err != nil {
			t.Fatalf("SavePreviousFiles error: %v", err)
		}

		cfg, err := Load(root)
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		want := []string{"a.py", "src/b.py"}
		if !reflect.DeepEqual(cfg.PreviousFiles, want) {
			t.Errorf("PreviousFiles = %v, want %v", cfg.PreviousFiles, want)
		}
	})

	t.Run("preserves other keys", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		root := t.TempDir()
		existing := "output_file: kept.txt\n"
		if err := os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte(existing), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := SavePreviousFiles(root, []string{filepath.Join(root, "a.py")}); err != nil {
			t.Fatalf("SavePreviousFiles error: %v", err)
		}

		cfg, err := Load(root)
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if cfg.OutputFile != "kept.txt" {
			t.Errorf("OutputFile = %q, existing keys must survive the rewrite", cfg.OutputFile)
		}
		if !reflect.DeepEqual(cfg.PreviousFiles, []string{"a.py"}) {
			t.Errorf("PreviousFiles = %v, want [a.py]", cfg.PreviousFiles)
		}
	})
}
