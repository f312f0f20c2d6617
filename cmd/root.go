package cmd

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contextree/pkg/clipboard"
	"contextree/pkg/config"
	"contextree/pkg/picker"
	"contextree/pkg/tree"
)

// logger is injected by Execute and shared by all commands.
var logger = zap.NewNop()

var rootFlags struct {
	interactive        bool
	ignoreGitignore    bool
	includeFileTypes   string
	excludeFileTypes   string
	includePatterns    string
	excludePatterns    string
	outputFile         string
	outputFileLocally  bool
	noConfig           bool
	copyToClipboard    bool
	usePrevious        bool
	saveSelection      bool
	lineNumbers        bool
	disableSafeMode    bool
	showIgnored        bool
	showDefaultIgnored bool
}

// RootCmd is the base command; running it performs the combine operation.
var RootCmd = &cobra.Command{
	Use:   "contextree [path]",
	Short: "Combine a project directory into one LLM-ready text artifact",
	Long: `contextree walks a project directory, renders its structure as an
indented tree, and concatenates the contents of the selected files into a
single text artifact with the tree at the top.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the root command with the provided logger.
func Execute(log *zap.Logger) error {
	if log != nil {
		logger = log
	}
	return RootCmd.Execute()
}

func init() {
	flags := RootCmd.Flags()
	flags.BoolVarP(&rootFlags.interactive, "interactive", "i", false, "Select files interactively")
	flags.BoolVar(&rootFlags.ignoreGitignore, "ignore-gitignore", false, "Ignore .gitignore patterns")
	flags.StringVar(&rootFlags.includeFileTypes, "include-file-types", "", "Comma-separated file types to include (e.g. '.py,.js' or 'py,js'); '*' for all")
	flags.StringVar(&rootFlags.excludeFileTypes, "exclude-file-types", "", "Comma-separated file types to exclude (e.g. '.log,.tmp')")
	flags.StringVar(&rootFlags.includePatterns, "include-patterns", "", "Advanced: comma-separated glob patterns to include (overrides include-file-types)")
	flags.StringVar(&rootFlags.excludePatterns, "exclude-patterns", "", "Advanced: comma-separated glob patterns to exclude (combined with exclude-file-types)")
	flags.StringVar(&rootFlags.outputFile, "output-file", "", "Name of the output file")
	flags.BoolVar(&rootFlags.outputFileLocally, "output-file-locally", false, "Save the output file in the current working directory")
	flags.BoolVarP(&rootFlags.noConfig, "no-config", "", false, "Disable use of configuration files")
	flags.BoolVarP(&rootFlags.copyToClipboard, "copy", "c", false, "Copy the output to the clipboard")
	flags.BoolVarP(&rootFlags.usePrevious, "previous", "p", false, "Use the previous file selection")
	flags.BoolVarP(&rootFlags.saveSelection, "save", "s", false, "Save the selected files to the project config")
	flags.BoolVarP(&rootFlags.lineNumbers, "line-numbers", "n", false, "Add line numbers to the output")
	flags.BoolVar(&rootFlags.disableSafeMode, "disable-safe-mode", false, "Disable safe mode limits")
	flags.BoolVar(&rootFlags.showIgnored, "show-ignored-in-tree", false, "Show ignored files in the directory tree")
	flags.BoolVar(&rootFlags.showDefaultIgnored, "show-default-ignored-in-tree", false, "Show default-ignored files in the tree (still respects gitignore)")
}

func runRoot(cmd *cobra.Command, args []string) error {
	rootDir := "."
	if len(args) == 1 {
		rootDir = args[0]
	}

	cfg := config.Default()
	if !rootFlags.noConfig {
		loaded, err := config.Load(rootDir)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	applyFlagOverrides(cmd, &cfg)

	outputPath := cfg.OutputFile
	if !cfg.OutputFileLocally {
		outputPath = filepath.Join(rootDir, outputPath)
	}

	opts := tree.Options{
		RootDir:                  rootDir,
		UseGitignore:             cfg.UseGitignore && !rootFlags.ignoreGitignore,
		IncludePatterns:          cfg.ResolvedIncludePatterns(),
		ExcludePatterns:          cfg.ResolvedExcludePatterns(),
		Mode:                     tree.SelectAll,
		SafeMode:                 cfg.SafeMode,
		MaxFiles:                 cfg.MaxFiles,
		MaxTotalBytes:            cfg.MaxTotalBytes,
		LineNumbers:              cfg.LineNumbers,
		ShowIgnoredInTree:        cfg.ShowIgnoredInTree,
		ShowDefaultIgnoredInTree: cfg.ShowDefaultIgnoredInTree,
	}

	switch {
	case rootFlags.usePrevious:
		if rootFlags.noConfig {
			return errors.New("--previous requires configuration files (remove --no-config)")
		}
		if len(cfg.PreviousFiles) == 0 {
			logger.Warn("No previous file selection found, selecting all files")
			break
		}
		opts.Mode = tree.SelectPrevious
		opts.PreviousFiles = cfg.PreviousFiles
	case rootFlags.interactive:
		opts.Mode = tree.SelectInteractive
		opts.Selector = picker.New()
	}

	logger.Info("Combining files",
		zap.String("root", rootDir),
		zap.String("output", outputPath))

	result, err := tree.Run(opts, logger)
	if err != nil {
		return err
	}

	logger.Info("Estimated tokens", zap.Int("tokens", result.EstimatedTokens))

	if err := tree.WriteArtifact(outputPath, result.Artifact); err != nil {
		return err
	}

	if rootFlags.copyToClipboard || cfg.CopyToClipboard {
		if err := clipboard.NewService().Copy(result.Artifact); err != nil {
			logger.Warn("Failed to copy output to clipboard", zap.Error(err))
		} else {
			logger.Info("Output copied to clipboard")
		}
	}

	if (rootFlags.saveSelection || cfg.StoreFilesChosen) && !rootFlags.noConfig && !rootFlags.usePrevious {
		absRoot, absErr := filepath.Abs(rootDir)
		if absErr != nil {
			absRoot = rootDir
		}
		if err := config.SavePreviousFiles(absRoot, result.SelectedFiles); err != nil {
			logger.Warn("Failed to save selection to config", zap.Error(err))
		}
	}

	logger.Info("Done",
		zap.String("output", outputPath),
		zap.Int("files", len(result.SelectedFiles)))
	return nil
}

// applyFlagOverrides lays explicitly set CLI flags over the file-derived
// configuration.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("include-file-types") {
		cfg.IncludeFileTypes = config.NormalizeFileTypes(rootFlags.includeFileTypes)
	}
	if flags.Changed("exclude-file-types") {
		cfg.ExcludeFileTypes = config.NormalizeFileTypes(rootFlags.excludeFileTypes)
	}
	if flags.Changed("include-patterns") {
		cfg.IncludePatterns = config.NormalizePatterns(rootFlags.includePatterns)
	}
	if flags.Changed("exclude-patterns") {
		cfg.ExcludePatterns = config.NormalizePatterns(rootFlags.excludePatterns)
	}
	if flags.Changed("output-file") {
		cfg.OutputFile = rootFlags.outputFile
	}
	if rootFlags.outputFileLocally {
		cfg.OutputFileLocally = true
	}
	if rootFlags.lineNumbers {
		cfg.LineNumbers = true
	}
	if rootFlags.disableSafeMode {
		cfg.SafeMode = false
	}
	if rootFlags.showIgnored {
		cfg.ShowIgnoredInTree = true
	}
	if rootFlags.showDefaultIgnored {
		cfg.ShowDefaultIgnoredInTree = true
	}
}
