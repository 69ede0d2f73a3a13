package savesync

import (
	"github.com/bianoble/savesync/internal/config"
	"github.com/bianoble/savesync/internal/copier"
	"github.com/bianoble/savesync/internal/engine"
	"github.com/bianoble/savesync/internal/target"
)

// Type aliases re-export internal types as the public API.

type Catalog = config.Catalog
type SaveEntry = config.SaveEntry
type SavePaths = config.SavePaths

type OS = target.OS
type Action = target.Action
type Confirmer = engine.Confirmer

type RunResult = engine.RunResult
type EntryResult = engine.EntryResult
type EntryState = engine.EntryState
type Status = engine.Status
type Stats = copier.Stats

type IndexError = engine.IndexError
type MissingPathError = target.MissingPathError
type SourceNotFoundError = copier.SourceNotFoundError
type ConfigError = config.ConfigError
type ValidationError = config.ValidationError

const (
	Windows = target.Windows
	Linux   = target.Linux
	MacOS   = target.MacOS

	StatusCopied   = engine.StatusCopied
	StatusDeclined = engine.StatusDeclined
	StatusSkipped  = engine.StatusSkipped
	StatusFailed   = engine.StatusFailed
	StatusDryRun   = engine.StatusDryRun
)

// ErrMissingOS is returned when Push or Pull is called without a valid OS.
var ErrMissingOS = engine.ErrMissingOS
