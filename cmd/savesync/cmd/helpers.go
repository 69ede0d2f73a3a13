package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/bianoble/savesync/internal/config"
	"github.com/bianoble/savesync/internal/logger"
	"github.com/bianoble/savesync/internal/target"
	"github.com/spf13/cobra"
)

// padding indents continuation lines of a message.
const padding = "     "

// UsageError reports malformed command-line arguments.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// loadSettings reads settings from the environment and applies flag overrides.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	s, err := config.LoadSettings()
	if err != nil {
		return s, err
	}
	flags := cmd.Flags()
	if flags.Changed("config") {
		s.ConfigPath = configPath
	}
	if flags.Changed("output") {
		s.OutputDir = outputDir
	}
	if flags.Changed("log-file") {
		s.LogFile = logFile
	}
	return s, nil
}

// loadCatalog reads and validates the save catalog.
func loadCatalog(s config.Settings) (*config.Catalog, error) {
	return config.Load(s.ConfigPath)
}

// newLogger opens the operation log configured in s.
func newLogger(s config.Settings) (*slog.Logger, io.Closer, error) {
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return nil, nil, &UsageError{Err: err}
	}
	log, closer := logger.New(s.LogFile, level)
	return log, closer, nil
}

// parseIndex converts an index argument. Integers too large for an int are
// clamped so that tag selection rejects them as out of range.
func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(s, "-") {
			return math.MinInt, nil
		}
		return math.MaxInt, nil
	}
	if err != nil {
		return 0, &UsageError{Err: fmt.Errorf("invalid index '%s' — must be an integer", s)}
	}
	return i, nil
}

// selectedOS returns the OS chosen by flag, or "" when none is set.
func selectedOS(cmd *cobra.Command) (target.OS, error) {
	var chosen []target.OS
	for _, o := range target.SupportedOS {
		if f := cmd.Flags().Lookup(string(o)); f != nil && f.Changed && f.Value.String() == "true" {
			chosen = append(chosen, o)
		}
	}
	switch len(chosen) {
	case 0:
		return "", nil
	case 1:
		return chosen[0], nil
	default:
		return "", &UsageError{Err: fmt.Errorf("only one of --windows, --linux, --macos may be given, got %v", chosen)}
	}
}

// printer writes console feedback to a command's output.
type printer struct {
	w io.Writer
}

func newPrinter(cmd *cobra.Command) printer {
	return printer{w: cmd.OutOrStdout()}
}

// info prints a line unless quiet mode is active.
func (p printer) info(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(p.w, format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func (p printer) detail(format string, args ...any) {
	if verbose {
		fmt.Fprintf(p.w, padding+format+"\n", args...)
	}
}

// warnf prints a warning, even in quiet mode.
func (p printer) warnf(format string, args ...any) {
	fmt.Fprintf(p.w, "warning: "+format+"\n", args...)
}

// errorf prints an error, even in quiet mode.
func (p printer) errorf(format string, args ...any) {
	fmt.Fprintf(p.w, "error: "+format+"\n", args...)
}

func humanSize(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}
