package tree

// SelectionMode determines how the concrete file set is chosen from the
// eligible-file list.
type SelectionMode int

const (
	// SelectAll includes every eligible file.
	SelectAll SelectionMode = iota
	// SelectPrevious resolves a previously saved list of root-relative paths.
	SelectPrevious
	// SelectInteractive delegates the choice to a FileSelector.
	SelectInteractive
)

// FileSelector picks a subset of the eligible files. Implementations own
// their interaction loop and return the chosen absolute paths; a canceled
// selection is reported as ErrCanceled and aborts the run before any
// output is written.
type FileSelector interface {
	SelectFiles(candidates []string) (map[string]bool, error)
}

// Options holds the resolved configuration for one invocation.
type Options struct {
	RootDir                  string        // Root directory of the project.
	UseGitignore             bool          // Honor .gitignore rules discovered at or above the root.
	IncludePatterns          []string      // Glob patterns a file must match to be eligible.
	ExcludePatterns          []string      // Glob patterns that remove files from eligibility.
	Mode                     SelectionMode // How the selected set is built.
	PreviousFiles            []string      // Root-relative paths for SelectPrevious.
	Selector                 FileSelector  // Collaborator for SelectInteractive.
	SafeMode                 bool          // Enforce count and size ceilings before reading content.
	MaxFiles                 int           // Safe-mode file-count ceiling; 0 uses SafeModeMaxFiles.
	MaxTotalBytes            int64         // Safe-mode cumulative-size ceiling; 0 uses SafeModeMaxTotalBytes.
	LineNumbers              bool          // Prefix file content with 1-based line numbers.
	ShowIgnoredInTree        bool          // Render everything, ignoring all filters.
	ShowDefaultIgnoredInTree bool          // Render default-ignored names while honoring gitignore.
}

// Result is the outcome of a successful run.
type Result struct {
	Artifact        string   // The complete output artifact.
	Tree            string   // The rendered directory tree.
	SelectedFiles   []string // Absolute paths in emission order.
	EstimatedTokens int      // Rough token estimate for the artifact.
}
