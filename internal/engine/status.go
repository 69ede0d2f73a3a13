package engine

import (
	"context"

	"github.com/bianoble/savesync/internal/config"
	"github.com/bianoble/savesync/internal/copier"
	"github.com/bianoble/savesync/internal/target"
)

// StatusEngine inspects both sides of every catalog entry.
type StatusEngine struct {
	Resolver *target.Resolver
}

// Status returns one EntryState per catalog entry carrying tag (all when
// tag is empty). Missing local paths are reported on the entry, not returned.
func (e *StatusEngine) Status(ctx context.Context, cat config.Catalog, o target.OS, tag string) ([]EntryState, error) {
	if !o.Valid() {
		return nil, ErrMissingOS
	}

	var states []EntryState
	for _, entry := range FilterByTag(cat, tag) {
		if err := ctx.Err(); err != nil {
			return states, err
		}

		s := EntryState{
			Tag:    entry.Tag,
			Subdir: entry.Subdir,
			Backup: e.Resolver.BackupPath(entry),
		}

		var err error
		s.BackupExists, s.BackupFiles, err = copier.Survey(s.Backup)
		if err != nil {
			s.Err = err
		}

		local, err := e.Resolver.LocalPath(entry, o)
		if err != nil {
			s.Err = err
			states = append(states, s)
			continue
		}
		s.Local = local
		s.LocalExists, s.LocalFiles, err = copier.Survey(local)
		if err != nil {
			s.Err = err
		}

		states = append(states, s)
	}
	return states, nil
}
