// Package savesync provides the public Go library API for savesync.
//
// savesync copies game save directories between a machine and a backup
// root, driven by a catalog of tagged entries with per-OS paths. This
// package exposes a Client for embedding the same push, pull and status
// operations the command line offers.
//
// # Basic Usage
//
//	client, err := savesync.New(savesync.Options{
//	    ConfigPath: "config/config.json",
//	    OutputDir:  "output",
//	    AssumeYes:  true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Back up every save on this Linux machine
//	result, err := client.Push(ctx, savesync.Linux, nil)
//
//	// Restore the tag at index 2
//	idx := 2
//	result, err = client.Pull(ctx, savesync.Linux, &idx)
package savesync

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/bianoble/savesync/internal/config"
	"github.com/bianoble/savesync/internal/engine"
	"github.com/bianoble/savesync/internal/prompt"
	"github.com/bianoble/savesync/internal/target"
)

// Pusher copies local saves into the backup root.
type Pusher interface {
	Push(ctx context.Context, o OS, index *int) (*RunResult, error)
}

// Puller copies backups onto the local machine.
type Puller interface {
	Pull(ctx context.Context, o OS, index *int) (*RunResult, error)
}

// StatusReporter inspects both sides of each catalog entry.
type StatusReporter interface {
	Status(ctx context.Context, o OS, index *int) ([]EntryState, error)
}

// Options configures a savesync client.
type Options struct {
	// ConfigPath is the catalog file. Default: $CONFIG_FILE_PATH, then
	// ./config/config.json.
	ConfigPath string

	// OutputDir is the backup root. Default: $OUTPUT_DIR, then ./output.
	OutputDir string

	// Confirmer decides whether a non-empty destination may be written.
	// When nil, a prompt reads answers from In and writes questions to Out.
	Confirmer Confirmer

	// In and Out back the default prompt. Default: os.Stdin and os.Stdout.
	In  io.Reader
	Out io.Writer

	// AssumeYes approves every non-empty destination.
	AssumeYes bool

	// DryRun resolves entries without prompting or copying.
	DryRun bool

	// Logger receives the operation log. Nil discards it.
	Logger *slog.Logger
}

// Client is the main entry point for the savesync library.
// It implements Pusher, Puller and StatusReporter.
type Client struct {
	catalog   *config.Catalog
	resolver  *target.Resolver
	confirmer Confirmer
	dryRun    bool
	logger    *slog.Logger
}

// New loads the catalog and creates a Client.
func New(opts Options) (*Client, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}
	if opts.ConfigPath != "" {
		settings.ConfigPath = opts.ConfigPath
	}
	if opts.OutputDir != "" {
		settings.OutputDir = opts.OutputDir
	}

	cat, err := config.Load(settings.ConfigPath)
	if err != nil {
		return nil, err
	}

	confirmer := opts.Confirmer
	if confirmer == nil {
		in, out := opts.In, opts.Out
		if in == nil {
			in = os.Stdin
		}
		if out == nil {
			out = os.Stdout
		}
		gate := prompt.NewGate(in, out)
		gate.AssumeYes = opts.AssumeYes
		confirmer = gate
	}

	return &Client{
		catalog:   cat,
		resolver:  target.NewResolver(settings.OutputDir),
		confirmer: confirmer,
		dryRun:    opts.DryRun,
		logger:    opts.Logger,
	}, nil
}

// Tags returns the distinct catalog tags in the order used by index.
func (c *Client) Tags() []string {
	return engine.DistinctTags(*c.catalog)
}

// Catalog returns the loaded catalog.
func (c *Client) Catalog() Catalog {
	return *c.catalog
}

// Push copies the selected entries (all when index is nil) from the local
// machine into the backup root.
func (c *Client) Push(ctx context.Context, o OS, index *int) (*RunResult, error) {
	return c.run(ctx, target.Push, o, index)
}

// Pull copies the selected entries (all when index is nil) from the backup
// root onto the local machine.
func (c *Client) Pull(ctx context.Context, o OS, index *int) (*RunResult, error) {
	return c.run(ctx, target.Pull, o, index)
}

func (c *Client) run(ctx context.Context, action Action, o OS, index *int) (*RunResult, error) {
	eng := &engine.SyncEngine{
		Resolver:  c.resolver,
		Confirmer: c.confirmer,
		Logger:    c.logger,
	}
	return eng.Run(ctx, *c.catalog, engine.SyncOptions{
		Action: action,
		OS:     o,
		Index:  index,
		DryRun: c.dryRun,
	})
}

// Status reports the local and backup state of the selected entries.
func (c *Client) Status(ctx context.Context, o OS, index *int) ([]EntryState, error) {
	tag := ""
	if index != nil {
		var err error
		if tag, err = engine.SelectTag(c.Tags(), *index); err != nil {
			return nil, err
		}
	}
	eng := &engine.StatusEngine{Resolver: c.resolver}
	return eng.Status(ctx, *c.catalog, o, tag)
}
