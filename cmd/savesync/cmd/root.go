package cmd

import (
	"errors"
	"fmt"

	"github.com/bianoble/savesync/internal/config"
	"github.com/bianoble/savesync/internal/copier"
	"github.com/bianoble/savesync/internal/engine"
	"github.com/bianoble/savesync/internal/prompt"
	"github.com/bianoble/savesync/internal/target"
	"github.com/spf13/cobra"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	outputDir  string
	logFile    string
	logLevel   string
	verbose    bool
	quiet      bool
	osWindows  bool
	osLinux    bool
	osMacOS    bool
)

// Root command flags.
var (
	assumeYes bool
	dryRun    bool
)

var rootCmd = &cobra.Command{
	Use:   "savesync [push|pull] [index]",
	Short: "Back up and restore game saves",
	Long: `savesync copies game save directories between this machine and a backup
directory, following a catalog that maps save tags to per-OS paths.

Without an action it lists the known tags with their index. With an action,
the OS flag is required:

  savesync push -l       copy every save from this Linux machine to the backup
  savesync pull 2 -w     restore the tag at index 2 on this Windows machine

The catalog is read from $CONFIG_FILE_PATH (default ./config/config.json) and
backups live under $OUTPUT_DIR (default ./output) as <tag>[/<subdir>].`,
	Args:          validateArgs,
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "savesync %s\n", version)
		fmt.Fprintf(out, "  commit:  %s\n", commit)
		fmt.Fprintf(out, "  built:   %s\n", date)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to the save catalog (overrides $"+config.EnvConfigPath+")")
	pf.StringVar(&outputDir, "output", "", "backup root directory (overrides $"+config.EnvOutputDir+")")
	pf.StringVar(&logFile, "log-file", "", "append an operation log to this file (overrides $"+config.EnvLogFile+")")
	pf.StringVar(&logLevel, "log-level", "info", "operation log level: debug, info, warn, error")
	pf.BoolVar(&verbose, "verbose", false, "detailed output")
	pf.BoolVar(&quiet, "quiet", false, "minimal output (warnings and errors only)")
	pf.BoolVarP(&osWindows, "windows", "w", false, "use the Windows paths")
	pf.BoolVarP(&osLinux, "linux", "l", false, "use the Linux paths")
	pf.BoolVarP(&osMacOS, "macos", "m", false, "use the macOS paths")

	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "overwrite non-empty destinations without asking")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be copied without copying")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	rootCmd.AddCommand(versionCmd)
}

// validateArgs checks the positional grammar [push|pull] [index] and that
// at most one OS flag is set.
func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 2 {
		return &UsageError{Err: fmt.Errorf("accepts at most 2 arguments, received %d", len(args))}
	}
	if len(args) > 0 {
		if _, err := target.ParseAction(args[0]); err != nil {
			return &UsageError{Err: err}
		}
	}
	if len(args) > 1 {
		if _, err := parseIndex(args[1]); err != nil {
			return err
		}
	}
	_, err := selectedOS(cmd)
	return err
}

func runRoot(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	cat, err := loadCatalog(settings)
	if err != nil {
		return err
	}

	p := newPrinter(cmd)

	if len(args) == 0 {
		listTags(p, *cat)
		return nil
	}

	action := target.Action(args[0])
	var index *int
	if len(args) > 1 {
		i, err := parseIndex(args[1])
		if err != nil {
			return err
		}
		index = &i
	}

	o, err := selectedOS(cmd)
	if err != nil {
		return err
	}
	if o == "" {
		return engine.ErrMissingOS
	}

	log, closer, err := newLogger(settings)
	if err != nil {
		return err
	}
	defer closer.Close()

	gate := prompt.NewGate(cmd.InOrStdin(), cmd.OutOrStdout())
	gate.AssumeYes = assumeYes

	eng := &engine.SyncEngine{
		Resolver:  target.NewResolver(settings.OutputDir),
		Confirmer: gate,
		Logger:    log,
		BeforeEntry: func(rt target.ResolvedTarget) {
			p.info("Processing %s for tag: %s", rt.Action, rt.Tag)
		},
		AfterEntry: func(res engine.EntryResult) {
			reportEntry(p, action, res)
		},
	}

	result, err := eng.Run(cmd.Context(), *cat, engine.SyncOptions{
		Action: action,
		OS:     o,
		Index:  index,
		DryRun: dryRun,
	})
	if err != nil {
		return err
	}

	if dryRun {
		p.info("Dry run — no files written.")
	}
	p.info("")
	p.info("Done: %d copied, %d declined, %d skipped, %d failed.",
		result.Count(engine.StatusCopied), result.Count(engine.StatusDeclined),
		result.Count(engine.StatusSkipped), result.Count(engine.StatusFailed))
	return nil
}

// listTags prints the distinct tags with the index used to select them.
func listTags(p printer, cat config.Catalog) {
	if len(cat.Saves) == 0 {
		fmt.Fprintln(p.w, "No saves found.")
	}
	fmt.Fprintln(p.w, "-- Game saves available --")
	for i, tag := range engine.DistinctTags(cat) {
		fmt.Fprintf(p.w, "%d - %s\n", i, tag)
	}
}

func reportEntry(p printer, action target.Action, res engine.EntryResult) {
	var (
		missing  *target.MissingPathError
		notFound *copier.SourceNotFoundError
	)

	switch res.Status {
	case engine.StatusCopied:
		p.info("Files copied from\n%s%s to\n%s%s", padding, res.Source, padding, res.Destination)
		if res.Stats != nil {
			p.detail("%d files, %s", res.Stats.Files, humanSize(res.Stats.Bytes))
		}
	case engine.StatusDryRun:
		p.info("Would copy from\n%s%s to\n%s%s", padding, res.Source, padding, res.Destination)
	case engine.StatusDeclined:
		p.info("Action %s canceled for tag '%s'.", action, res.Tag)
	case engine.StatusSkipped:
		switch {
		case errors.As(res.Err, &missing):
			p.warnf("%s.", res.Err)
		case errors.As(res.Err, &notFound):
			p.errorf("%s. Check config file.", res.Err)
		default:
			p.errorf("%s", res.Err)
		}
	case engine.StatusFailed:
		p.errorf("during copy: %s", res.Err)
	}
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		out := rootCmd.OutOrStdout()
		fmt.Fprintf(out, "error: %s\n", err)
		var usage *UsageError
		if errors.As(err, &usage) {
			fmt.Fprintln(out, "Run 'savesync --help' for usage.")
		}
		return err
	}
	return nil
}
