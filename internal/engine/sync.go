package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/bianoble/savesync/internal/config"
	"github.com/bianoble/savesync/internal/copier"
	"github.com/bianoble/savesync/internal/logger"
	"github.com/bianoble/savesync/internal/target"
)

// Confirmer approves or declines a copy into destination.
type Confirmer interface {
	Confirm(action, tag, destination string) (bool, error)
}

// SyncEngine runs push and pull over a catalog, one entry at a time.
type SyncEngine struct {
	Resolver  *target.Resolver
	Confirmer Confirmer
	Logger    *slog.Logger

	// BeforeEntry is called once an entry resolved, before confirmation.
	BeforeEntry func(target.ResolvedTarget)
	// AfterEntry is called with every entry outcome, in catalog order.
	AfterEntry func(EntryResult)
}

// SyncOptions configures a push or pull.
type SyncOptions struct {
	Action target.Action
	OS     target.OS

	// Index selects one tag from DistinctTags. Nil targets every entry.
	Index *int

	// DryRun resolves entries without prompting or copying.
	DryRun bool
}

// Run copies every selected entry. Per-entry failures are recorded in the
// result and never stop the run; the returned error is reserved for
// problems detected before any copy (missing OS, bad index, bad action).
func (e *SyncEngine) Run(ctx context.Context, cat config.Catalog, opts SyncOptions) (*RunResult, error) {
	if !opts.OS.Valid() {
		return nil, ErrMissingOS
	}
	if _, err := target.ParseAction(string(opts.Action)); err != nil {
		return nil, err
	}

	result := &RunResult{Action: opts.Action, OS: opts.OS}

	if opts.Index != nil {
		tag, err := SelectTag(DistinctTags(cat), *opts.Index)
		if err != nil {
			return nil, err
		}
		result.Tag = tag
	}

	log := e.logger().With("action", string(opts.Action), "os", string(opts.OS))
	entries := FilterByTag(cat, result.Tag)
	log.Info("run started", "tag", result.Tag, "entries", len(entries), "dry_run", opts.DryRun)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		res := e.runEntry(ctx, entry, opts)
		result.Entries = append(result.Entries, res)
		logEntry(log, res)
		if e.AfterEntry != nil {
			e.AfterEntry(res)
		}
	}

	log.Info("run finished",
		"copied", result.Count(StatusCopied),
		"declined", result.Count(StatusDeclined),
		"skipped", result.Count(StatusSkipped),
		"failed", result.Count(StatusFailed))
	return result, nil
}

func (e *SyncEngine) runEntry(ctx context.Context, entry config.SaveEntry, opts SyncOptions) EntryResult {
	res := EntryResult{Tag: entry.Tag, Subdir: entry.Subdir}

	rt, err := e.Resolver.Resolve(entry, opts.OS, opts.Action)
	if err != nil {
		res.Status = StatusSkipped
		res.Err = err
		return res
	}
	res.Source, res.Destination = rt.Source, rt.Destination

	if e.BeforeEntry != nil {
		e.BeforeEntry(rt)
	}

	// A missing source is reported before asking to overwrite anything.
	if _, err := os.Stat(rt.Source); os.IsNotExist(err) {
		res.Status = StatusSkipped
		res.Err = &copier.SourceNotFoundError{Path: rt.Source}
		return res
	}

	if opts.DryRun {
		res.Status = StatusDryRun
		return res
	}

	if e.Confirmer != nil {
		ok, err := e.Confirmer.Confirm(string(opts.Action), entry.Tag, rt.Destination)
		if err != nil {
			res.Status = StatusFailed
			res.Err = fmt.Errorf("checking destination: %w", err)
			return res
		}
		if !ok {
			res.Status = StatusDeclined
			return res
		}
	}

	c := &copier.Copier{Exclude: entry.Exclude}
	stats, err := c.Copy(ctx, rt.Source, rt.Destination)
	res.Stats = stats

	var notFound *copier.SourceNotFoundError
	switch {
	case errors.As(err, &notFound):
		res.Status = StatusSkipped
		res.Err = err
	case err != nil:
		res.Status = StatusFailed
		res.Err = err
	default:
		res.Status = StatusCopied
	}
	return res
}

func (e *SyncEngine) logger() *slog.Logger {
	if e.Logger == nil {
		return logger.Discard()
	}
	return e.Logger
}

func logEntry(log *slog.Logger, res EntryResult) {
	attrs := []any{
		"tag", res.Tag,
		"status", string(res.Status),
		"source", res.Source,
		"destination", res.Destination,
	}
	if res.Subdir != "" {
		attrs = append(attrs, "subdir", res.Subdir)
	}
	if res.Stats != nil {
		attrs = append(attrs, "files", res.Stats.Files, "bytes", res.Stats.Bytes)
	}

	switch res.Status {
	case StatusFailed:
		log.Error("entry failed", append(attrs, "error", res.Err.Error())...)
	case StatusSkipped:
		log.Warn("entry skipped", append(attrs, "error", res.Err.Error())...)
	default:
		log.Info("entry "+string(res.Status), attrs...)
	}
}
