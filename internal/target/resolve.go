package target

import (
	"fmt"
	"path/filepath"

	"github.com/bianoble/savesync/internal/config"
	"github.com/bianoble/savesync/internal/sandbox"
)

// MissingPathError reports an entry with no path for the selected OS.
type MissingPathError struct {
	Tag string
	OS  OS
}

func (e *MissingPathError) Error() string {
	return fmt.Sprintf("no '%s' path was defined for tag '%s'", e.OS, e.Tag)
}

// EscapeError reports a backup path that leaves the output directory.
type EscapeError struct {
	Tag string
	Err error
}

func (e *EscapeError) Error() string {
	return fmt.Sprintf("backup path for tag '%s' escapes the output directory: %s", e.Tag, e.Err)
}

func (e *EscapeError) Unwrap() error {
	return e.Err
}

// ResolvedTarget is one save entry mapped to a copy source and destination.
type ResolvedTarget struct {
	Tag    string
	Subdir string
	Action Action
	OS     OS

	// Local is the expanded path on this machine.
	Local string
	// Backup is OutputDir/tag[/subdir]; never expanded.
	Backup string

	Source      string
	Destination string
}

// Resolver computes copy endpoints for save entries.
type Resolver struct {
	OutputDir string

	// Expand expands ~ and environment references in local paths.
	// Defaults to ExpandLocal.
	Expand func(string) string
}

// NewResolver creates a Resolver rooted at outputDir.
func NewResolver(outputDir string) *Resolver {
	return &Resolver{OutputDir: outputDir, Expand: ExpandLocal}
}

// BackupPath returns the backup location of an entry without validating it.
func (r *Resolver) BackupPath(entry config.SaveEntry) string {
	if entry.Subdir != "" {
		return filepath.Join(r.OutputDir, entry.Tag, entry.Subdir)
	}
	return filepath.Join(r.OutputDir, entry.Tag)
}

// LocalPath returns the expanded local path of an entry for o.
func (r *Resolver) LocalPath(entry config.SaveEntry, o OS) (string, error) {
	raw := PathFor(entry.Paths, o)
	if raw == "" {
		return "", &MissingPathError{Tag: entry.Tag, OS: o}
	}
	expand := r.Expand
	if expand == nil {
		expand = ExpandLocal
	}
	return expand(raw), nil
}

// Resolve maps an entry to source and destination paths for action.
// Push copies local to backup; pull copies backup to local.
func (r *Resolver) Resolve(entry config.SaveEntry, o OS, action Action) (ResolvedTarget, error) {
	local, err := r.LocalPath(entry, o)
	if err != nil {
		return ResolvedTarget{}, err
	}

	rel := entry.Tag
	if entry.Subdir != "" {
		rel = filepath.Join(entry.Tag, entry.Subdir)
	}
	if _, err := sandbox.ValidatePath(r.OutputDir, rel); err != nil {
		return ResolvedTarget{}, &EscapeError{Tag: entry.Tag, Err: err}
	}

	rt := ResolvedTarget{
		Tag:    entry.Tag,
		Subdir: entry.Subdir,
		Action: action,
		OS:     o,
		Local:  local,
		Backup: r.BackupPath(entry),
	}

	switch action {
	case Push:
		rt.Source, rt.Destination = rt.Local, rt.Backup
	case Pull:
		rt.Source, rt.Destination = rt.Backup, rt.Local
	default:
		return ResolvedTarget{}, fmt.Errorf("invalid action '%s' — must be one of: push, pull", action)
	}

	return rt, nil
}
