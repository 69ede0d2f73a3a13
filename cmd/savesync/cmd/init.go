package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bianoble/savesync/internal/config"
	"github.com/spf13/cobra"
)

var (
	initForce  bool
	initFormat string
)

// starterCatalog is written by init. Two entries share a tag to show subdir.
var starterCatalog = config.Catalog{Saves: []config.SaveEntry{
	{
		Tag: "Celeste",
		Paths: config.SavePaths{
			Windows: `%LOCALAPPDATA%\Celeste\Saves`,
			Linux:   "~/.local/share/Celeste/Saves",
			MacOS:   "~/Library/Application Support/Celeste/Saves",
		},
	},
	{
		Tag:     "Stardew Valley",
		Subdir:  "saves",
		Exclude: []string{"**/*_old"},
		Paths: config.SavePaths{
			Windows: `%APPDATA%\StardewValley\Saves`,
			Linux:   "~/.config/StardewValley/Saves",
			MacOS:   "~/.config/StardewValley/Saves",
		},
	},
	{
		Tag:    "Stardew Valley",
		Subdir: "settings",
		Paths: config.SavePaths{
			Windows: `%APPDATA%\StardewValley\Settings`,
			Linux:   "~/.config/StardewValley/Settings",
			MacOS:   "",
		},
	},
}}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter save catalog",
	Long: `Creates a save catalog at the configured config path with a few example
entries. The format follows the file extension (.json, .yaml, .yml, .toml)
unless --format is given.

Use --force to overwrite an existing catalog.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		outPath, err := filepath.Abs(settings.ConfigPath)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		format := config.FormatFromPath(outPath)
		if initFormat != "" {
			if format, err = config.ParseFormat(initFormat); err != nil {
				return &UsageError{Err: err}
			}
		}

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		data, err := config.Encode(&starterCatalog, format)
		if err != nil {
			return fmt.Errorf("encoding catalog: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		p := newPrinter(cmd)
		p.info("Created %s", outPath)
		p.info("")
		p.info("Next steps:")
		p.info("  1. Edit the file to list your games and their save paths")
		p.info("  2. Run 'savesync' to list the tags")
		p.info("  3. Run 'savesync push -l' (or -w / -m) to back them up")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing catalog")
	initCmd.Flags().StringVar(&initFormat, "format", "", "catalog format: json, yaml or toml")
	rootCmd.AddCommand(initCmd)
}
