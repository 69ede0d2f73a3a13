// Package copier merges a directory tree into another one.
package copier

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bianoble/savesync/internal/sandbox"
	"github.com/bmatcuk/doublestar/v4"
)

// SourceNotFoundError reports a copy source that does not exist.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source directory '%s' does not exist", e.Path)
}

// CopyError wraps an I/O failure during a copy.
type CopyError struct {
	Source      string
	Destination string
	Err         error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copying %s to %s: %s", e.Source, e.Destination, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

// Stats summarizes a completed copy.
type Stats struct {
	Files    int
	Dirs     int
	Bytes    int64
	Excluded int
}

// Copier copies directory trees. Existing destination files at the same
// relative path are overwritten; nothing is deleted.
type Copier struct {
	// Exclude holds doublestar patterns matched against slash-separated
	// paths relative to the source root.
	Exclude []string
}

// Copy merges src into dst, creating dst and its parents when missing.
// A missing src yields *SourceNotFoundError and leaves dst untouched.
// Files that cannot be copied are skipped; their errors are joined into
// the returned *CopyError once the rest of the tree is done. Modes and
// modification times are preserved.
func (c *Copier) Copy(ctx context.Context, src, dst string) (*Stats, error) {
	info, err := os.Stat(src)
	if os.IsNotExist(err) {
		return nil, &SourceNotFoundError{Path: src}
	}
	if err != nil {
		return nil, &CopyError{Source: src, Destination: dst, Err: err}
	}
	if !info.IsDir() {
		return nil, &CopyError{Source: src, Destination: dst, Err: fmt.Errorf("source is not a directory")}
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return nil, &CopyError{Source: src, Destination: dst, Err: err}
	}

	w := &walker{copier: c, stats: &Stats{}, visited: make(map[string]bool)}
	if err := w.copyTree(ctx, src, dst, ""); err != nil {
		return w.stats, &CopyError{Source: src, Destination: dst, Err: err}
	}
	if len(w.errs) > 0 {
		return w.stats, &CopyError{Source: src, Destination: dst, Err: errors.Join(w.errs...)}
	}
	return w.stats, nil
}

// walker holds the state of one Copy. Failures on single files and
// subdirectories are collected in errs and the walk carries on.
type walker struct {
	copier  *Copier
	stats   *Stats
	visited map[string]bool
	errs    []error
}

// copyTree walks srcDir. prefix is srcDir's path relative to the copy root,
// used for exclude matching when following symlinked directories. Only
// cancellation and an unreadable srcDir are returned.
func (w *walker) copyTree(ctx context.Context, srcDir, dstDir, prefix string) error {
	// Walk does not descend into a symlinked root, so walk its target.
	root, err := filepath.EvalSymlinks(srcDir)
	if err != nil {
		return err
	}
	if w.visited[root] {
		return nil
	}
	w.visited[root] = true

	return filepath.Walk(root, func(path string, fi os.FileInfo, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if walkErr != nil {
			if rel == "." {
				return walkErr
			}
			w.errs = append(w.errs, fmt.Errorf("reading %s: %w", rel, walkErr))
			if fi != nil && fi.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if rel == "." {
			return nil
		}
		matchPath := filepath.ToSlash(filepath.Join(prefix, rel))
		dstPath := filepath.Join(dstDir, rel)

		if w.copier.excluded(matchPath) {
			w.stats.Excluded++
			if fi.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Follow symlinks.
		if fi.Mode()&os.ModeSymlink != 0 {
			target, statErr := os.Stat(path)
			if statErr != nil {
				w.errs = append(w.errs, fmt.Errorf("following symlink %s: %w", rel, statErr))
				return nil
			}
			if target.IsDir() {
				if err := w.copyTree(ctx, path, dstPath, matchPath); err != nil {
					if ctx.Err() != nil {
						return err
					}
					w.errs = append(w.errs, fmt.Errorf("copying %s: %w", rel, err))
				}
				return nil
			}
			fi = target
		}

		switch {
		case fi.IsDir():
			if err := os.MkdirAll(dstPath, 0755); err != nil {
				w.errs = append(w.errs, err)
				return filepath.SkipDir
			}
			w.stats.Dirs++
		case fi.Mode().IsRegular():
			if err := copyFile(path, dstPath, fi); err != nil {
				w.errs = append(w.errs, fmt.Errorf("copying %s: %w", rel, err))
				return nil
			}
			w.stats.Files++
			w.stats.Bytes += fi.Size()
		}
		return nil
	})
}

func (c *Copier) excluded(relSlash string) bool {
	for _, pattern := range c.Exclude {
		if ok, _ := doublestar.Match(pattern, relSlash); ok {
			return true
		}
	}
	return false
}

// copyFile writes src to dst with the mode and modification time of fi.
func copyFile(src, dst string, fi os.FileInfo) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := sandbox.AtomicWrite(dst, f, fi.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, fi.ModTime(), fi.ModTime())
}

// Survey reports whether dir exists and how many regular files it holds.
func Survey(dir string) (exists bool, files int, err error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	if !info.IsDir() {
		return true, 1, nil
	}
	if resolved, evalErr := filepath.EvalSymlinks(dir); evalErr == nil {
		dir = resolved
	}

	err = filepath.Walk(dir, func(_ string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if fi.Mode().IsRegular() {
			files++
		}
		return nil
	})
	return true, files, err
}
