package engine

import (
	"errors"
	"fmt"

	"github.com/bianoble/savesync/internal/copier"
	"github.com/bianoble/savesync/internal/target"
)

// ErrMissingOS is returned when an action is requested without an OS.
var ErrMissingOS = errors.New("you must provide the current OS using the proper argument (-w, -l or -m)")

// IndexError reports a tag index outside the distinct tag list.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("bad index chosen: %d (no saves available)", e.Index)
	}
	return fmt.Sprintf("bad index chosen: %d (must be between 0 and %d)", e.Index, e.Count-1)
}

// Status is the outcome of one entry.
type Status string

const (
	StatusCopied   Status = "copied"
	StatusDeclined Status = "declined"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
	StatusDryRun   Status = "dry-run"
)

// EntryResult records what happened to one catalog entry.
type EntryResult struct {
	Tag    string
	Subdir string
	Status Status

	// Source and Destination are empty when resolution failed.
	Source      string
	Destination string

	Stats *copier.Stats
	Err   error
}

// RunResult holds the outcome of a push or pull.
type RunResult struct {
	Action target.Action
	OS     target.OS

	// Tag is the selected tag, empty when every entry was targeted.
	Tag string

	Entries []EntryResult
}

// Count returns how many entries ended with status s.
func (r *RunResult) Count(s Status) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == s {
			n++
		}
	}
	return n
}

// EntryState describes the local and backup side of one entry.
type EntryState struct {
	Tag    string
	Subdir string

	Local       string
	LocalExists bool
	LocalFiles  int

	Backup       string
	BackupExists bool
	BackupFiles  int

	// Err is set when the local path could not be resolved or inspected.
	Err error
}
