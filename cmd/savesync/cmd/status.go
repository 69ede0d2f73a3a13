package cmd

import (
	"fmt"

	"github.com/bianoble/savesync/internal/engine"
	"github.com/bianoble/savesync/internal/target"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [index]",
	Short: "Show the local and backup state of each save",
	Long: `Shows, for every catalog entry (or the tag at index), whether the local save
directory and its backup exist and how many files each holds. Requires an OS
flag to pick the local paths.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(settings)
		if err != nil {
			return err
		}

		o, err := selectedOS(cmd)
		if err != nil {
			return err
		}
		if o == "" {
			return engine.ErrMissingOS
		}

		tag := ""
		if len(args) == 1 {
			i, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			if tag, err = engine.SelectTag(engine.DistinctTags(*cat), i); err != nil {
				return err
			}
		}

		eng := &engine.StatusEngine{Resolver: target.NewResolver(settings.OutputDir)}
		states, err := eng.Status(cmd.Context(), *cat, o, tag)
		if err != nil {
			return err
		}

		p := newPrinter(cmd)
		if len(states) == 0 {
			p.info("No saves found.")
			return nil
		}

		fmt.Fprintf(p.w, "%-24s %-12s %-14s %s\n", "TAG", "SUBDIR", "LOCAL", "BACKUP")
		for _, s := range states {
			subdir := s.Subdir
			if subdir == "" {
				subdir = "-"
			}
			local := sideState(s.LocalExists, s.LocalFiles)
			if s.Local == "" {
				local = "no path"
			}
			fmt.Fprintf(p.w, "%-24s %-12s %-14s %s\n", truncate(s.Tag, 24), truncate(subdir, 12), local,
				sideState(s.BackupExists, s.BackupFiles))
			if s.Local != "" {
				p.detail("local:  %s", s.Local)
			}
			p.detail("backup: %s", s.Backup)
			if s.Err != nil {
				p.detail("note:   %s", s.Err)
			}
		}
		return nil
	},
}

func sideState(exists bool, files int) string {
	if !exists {
		return "missing"
	}
	if files == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", files)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
