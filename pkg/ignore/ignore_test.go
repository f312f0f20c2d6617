package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestCompilePatterns_NoRestriction(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
	}{
		{"nil list", nil},
		{"empty list", []string{}},
		{"single wildcard", []string{"*"}},
		{"blank entries only", []string{"", "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := CompilePatterns(tt.patterns)
			if err != nil {
				t.Fatalf("CompilePatterns(%v) error: %v", tt.patterns, err)
			}
			if spec != nil {
				t.Fatalf("CompilePatterns(%v) = %v, want nil (no restriction)", tt.patterns, spec)
			}
			for _, path := range []string{"a.txt", "deep/nested/file.py", ""} {
				if !spec.Matches(path, false) {
					t.Errorf("nil spec must match everything, rejected %q", path)
				}
			}
		})
	}
}

func TestPatternSpec_Matches(t *testing.T) {
	spec, err := CompilePatterns([]string{"**/*.log", "src/**/*.py"})
	if err != nil {
		t.Fatalf("CompilePatterns error: %v", err)
	}
	if spec == nil {
		t.Fatal("expected a compiled spec, got nil")
	}

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"test.log", false, true},
		{"nested/deep/test.log", false, true},
		{"src/app/main.py", false, true},
		{"file1.py", false, false},
		{"file2.js", false, false},
		{"src", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := spec.Matches(tt.path, tt.isDir); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsDefaultOrGitignored_DefaultSegments(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		rel  string
		want bool
	}{
		{".git", true},
		{".git/config", true},
		{"src/__pycache__/mod.pyc", true},
		{".DS_Store", true},
		{"nested/.idea/workspace.xml", true},
		{"src/main.py", false},
		{"gitignore.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			path := filepath.Join(root, filepath.FromSlash(tt.rel))
			if got := IsDefaultOrGitignored(path, nil, root, false); got != tt.want {
				t.Errorf("IsDefaultOrGitignored(%q) = %v, want %v", tt.rel, got, tt.want)
			}
		})
	}
}

func TestIsDefaultOrGitignored_Gitignore(t *testing.T) {
	root := t.TempDir()
	spec, err := CompileGitignore([]string{"*.log", "build/"})
	if err != nil {
		t.Fatalf("CompileGitignore error: %v", err)
	}

	tests := []struct {
		rel   string
		isDir bool
		want  bool
	}{
		{"app.log", false, true},
		{"deep/app.log", false, true},
		{"build", true, true},
		{"main.py", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			path := filepath.Join(root, filepath.FromSlash(tt.rel))
			if got := IsDefaultOrGitignored(path, spec, root, tt.isDir); got != tt.want {
				t.Errorf("IsDefaultOrGitignored(%q) = %v, want %v", tt.rel, got, tt.want)
			}
		})
	}
}

func TestCompileGitignore_Negation(t *testing.T) {
	spec, err := CompileGitignore([]string{"*.log", "!keep.log"})
	if err != nil {
		t.Fatalf("CompileGitignore error: %v", err)
	}

	if !spec.Matches("drop.log", false) {
		t.Error("drop.log should be ignored")
	}
	if spec.Matches("keep.log", false) {
		t.Error("keep.log is negated and should not be ignored")
	}
}

func TestIsTreeVisible_Policies(t *testing.T) {
	root := t.TempDir()
	spec, err := CompileGitignore([]string{"*.log"})
	if err != nil {
		t.Fatalf("CompileGitignore error: %v", err)
	}

	tests := []struct {
		name                   string
		rel                    string
		showIgnored            bool
		showDefaultIgnoredOnly bool
		want                   bool
	}{
		{"show ignored overrides everything", ".git", true, false, true},
		{"show ignored overrides gitignore", "app.log", true, true, true},
		{"default-only keeps default names", ".git", false, true, true},
		{"default-only still honors gitignore", "app.log", false, true, false},
		{"full filtering hides default names", ".git", false, false, false},
		{"full filtering hides gitignored", "app.log", false, false, false},
		{"full filtering keeps plain files", "main.py", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(root, filepath.FromSlash(tt.rel))
			got := IsTreeVisible(path, spec, root, tt.showIgnored, tt.showDefaultIgnoredOnly, false)
			if got != tt.want {
				t.Errorf("IsTreeVisible(%q, showIgnored=%v, defaultOnly=%v) = %v, want %v",
					tt.rel, tt.showIgnored, tt.showDefaultIgnoredOnly, got, tt.want)
			}
		})
	}
}

func TestLoadGitignore_WalksParents(t *testing.T) {
	parent := t.TempDir()
	child := filepath.Join(parent, "project")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(parent, ".gitignore"), []byte("*.tmp\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	spec, err := LoadGitignore(child, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadGitignore error: %v", err)
	}
	if spec == nil {
		t.Fatal("expected gitignore spec from parent directory, got nil")
	}
	if !spec.Matches("scratch.tmp", false) {
		t.Error("pattern from parent .gitignore should apply")
	}
}

func TestLoadGitignore_NoneFound(t *testing.T) {
	spec, err := LoadGitignore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("LoadGitignore error: %v", err)
	}
	if spec != nil && spec.Matches("anything", false) {
		t.Error("absent gitignore must match nothing")
	}
}
