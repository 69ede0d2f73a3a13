package copier

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestCopyCreatesDestination(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "output", "Zelda")
	writeTree(t, src, map[string]string{
		"slot1.sav":         "one",
		"profiles/main.dat": "main",
		".hidden":           "h",
	})

	c := &Copier{}
	stats, err := c.Copy(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if stats.Files != 3 {
		t.Errorf("files = %d, want 3", stats.Files)
	}
	if stats.Bytes != int64(len("one")+len("main")+len("h")) {
		t.Errorf("bytes = %d", stats.Bytes)
	}

	if got := readFile(t, filepath.Join(dst, "profiles", "main.dat")); got != "main" {
		t.Errorf("main.dat = %q", got)
	}
	if got := readFile(t, filepath.Join(dst, ".hidden")); got != "h" {
		t.Errorf(".hidden = %q", got)
	}
}

func TestCopyMergesIntoExisting(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"slot1.sav": "new"})
	writeTree(t, dst, map[string]string{"slot1.sav": "old", "slot2.sav": "keep"})

	c := &Copier{}
	if _, err := c.Copy(context.Background(), src, dst); err != nil {
		t.Fatalf("Copy: %v", err)
	}

	if got := readFile(t, filepath.Join(dst, "slot1.sav")); got != "new" {
		t.Errorf("slot1.sav = %q, want overwritten", got)
	}
	if got := readFile(t, filepath.Join(dst, "slot2.sav")); got != "keep" {
		t.Errorf("slot2.sav = %q, want untouched", got)
	}
}

func TestCopyMissingSource(t *testing.T) {
	base := t.TempDir()
	dst := filepath.Join(base, "dst")

	c := &Copier{}
	_, err := c.Copy(context.Background(), filepath.Join(base, "missing"), dst)

	var snf *SourceNotFoundError
	if !errors.As(err, &snf) {
		t.Fatalf("expected *SourceNotFoundError, got %v", err)
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Error("destination must not be created when the source is missing")
	}
}

func TestCopySourceIsFile(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "file.sav")
	writeTree(t, base, map[string]string{"file.sav": "x"})

	c := &Copier{}
	_, err := c.Copy(context.Background(), src, filepath.Join(base, "dst"))
	var ce *CopyError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CopyError, got %v", err)
	}
}

func TestCopyExclude(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{
		"slot1.sav":          "keep",
		"slot1.sav.bak":      "drop",
		"cache/shader.bin":   "drop",
		"profiles/a.bak":     "drop",
		"profiles/a.profile": "keep",
	})

	c := &Copier{Exclude: []string{"**/*.bak", "cache"}}
	stats, err := c.Copy(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if stats.Files != 2 {
		t.Errorf("files = %d, want 2", stats.Files)
	}
	if stats.Excluded != 3 {
		t.Errorf("excluded = %d, want 3", stats.Excluded)
	}
	for _, rel := range []string{"slot1.sav.bak", "cache", "profiles/a.bak"} {
		if _, err := os.Stat(filepath.Join(dst, filepath.FromSlash(rel))); !os.IsNotExist(err) {
			t.Errorf("%s should have been excluded", rel)
		}
	}
}

func TestCopyPreservesMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not reliable on Windows")
	}
	src := t.TempDir()
	dst := t.TempDir()
	path := filepath.Join(src, "run.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	c := &Copier{}
	if _, err := c.Copy(context.Background(), src, dst); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filepath.Join(dst, "run.sh"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestCopyFollowsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test not reliable on Windows")
	}
	base := t.TempDir()
	realDir := filepath.Join(base, "realDir")
	writeTree(t, realDir, map[string]string{"slot.sav": "data", "sub/deep.sav": "deep"})

	// The copy root itself is a symlink, and so is one of its children.
	src := filepath.Join(base, "link")
	if err := os.Symlink(realDir, src); err != nil {
		t.Fatal(err)
	}
	other := filepath.Join(base, "other")
	writeTree(t, other, map[string]string{"extra.sav": "extra"})
	if err := os.Symlink(other, filepath.Join(realDir, "extra")); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(base, "dst")
	c := &Copier{}
	stats, err := c.Copy(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if stats.Files != 3 {
		t.Errorf("files = %d, want 3", stats.Files)
	}
	if got := readFile(t, filepath.Join(dst, "extra", "extra.sav")); got != "extra" {
		t.Errorf("extra.sav = %q", got)
	}
	info, err := os.Lstat(filepath.Join(dst, "extra"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		t.Error("destination should hold a realDir directory, not a symlink")
	}
}

func TestCopyCanceledContext(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.sav": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Copier{}
	_, err := c.Copy(ctx, src, t.TempDir())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSurvey(t *testing.T) {
	dir := t.TempDir()

	exists, files, err := Survey(filepath.Join(dir, "missing"))
	if err != nil || exists || files != 0 {
		t.Errorf("missing: exists=%v files=%d err=%v", exists, files, err)
	}

	writeTree(t, dir, map[string]string{"a": "1", "b/c": "2"})
	exists, files, err = Survey(dir)
	if err != nil || !exists || files != 2 {
		t.Errorf("populated: exists=%v files=%d err=%v", exists, files, err)
	}
}

func TestCopyPreservesMtime(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"slot.sav": "x", "sub/deep.sav": "y"})
	stamp := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, rel := range []string{"slot.sav", "sub/deep.sav"} {
		if err := os.Chtimes(filepath.Join(src, filepath.FromSlash(rel)), stamp, stamp); err != nil {
			t.Fatal(err)
		}
	}

	c := &Copier{}
	if _, err := c.Copy(context.Background(), src, dst); err != nil {
		t.Fatal(err)
	}
	for _, rel := range []string{"slot.sav", "sub/deep.sav"} {
		info, err := os.Stat(filepath.Join(dst, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatal(err)
		}
		if !info.ModTime().Equal(stamp) {
			t.Errorf("%s mtime = %v, want %v", rel, info.ModTime(), stamp)
		}
	}
}

func TestCopyContinuesPastBrokenSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test not reliable on Windows")
	}
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"z_slot.sav": "save"})
	if err := os.Symlink(filepath.Join(src, "nowhere"), filepath.Join(src, "a_broken")); err != nil {
		t.Fatal(err)
	}

	c := &Copier{}
	stats, err := c.Copy(context.Background(), src, dst)

	var ce *CopyError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CopyError, got %v", err)
	}
	if !strings.Contains(err.Error(), "a_broken") {
		t.Errorf("error should name the broken link: %v", err)
	}
	if got := readFile(t, filepath.Join(dst, "z_slot.sav")); got != "save" {
		t.Errorf("z_slot.sav = %q", got)
	}
	if stats == nil || stats.Files != 1 {
		t.Errorf("stats = %+v, want 1 file", stats)
	}
}
