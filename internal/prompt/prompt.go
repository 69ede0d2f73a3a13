// Package prompt asks the user before a copy overwrites existing files.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const padding = "     "

// Gate decides whether a copy into a destination may proceed.
// An empty or missing destination is approved without asking.
type Gate struct {
	in  *bufio.Reader
	out io.Writer

	// AssumeYes approves every non-empty destination without reading input.
	AssumeYes bool
}

// NewGate creates a Gate reading answers from in and writing questions to out.
func NewGate(in io.Reader, out io.Writer) *Gate {
	return &Gate{in: bufio.NewReader(in), out: out}
}

// Confirm returns true when the copy may proceed. It blocks on input when
// destination already holds at least one entry. Only "y" (any case,
// surrounding whitespace ignored) approves; EOF declines.
func (g *Gate) Confirm(action, tag, destination string) (bool, error) {
	populated, err := HasEntries(destination)
	if err != nil {
		return false, err
	}
	if !populated {
		return true, nil
	}
	if g.AssumeYes {
		return true, nil
	}

	fmt.Fprintf(g.out, "'%s' already contains files.\n%sAre you sure you want to %s '%s'? (y/n): ",
		destination, padding, action, tag)

	line, err := g.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(g.out)
	}
	return strings.ToLower(strings.TrimSpace(line)) == "y", nil
}

// HasEntries reports whether dir exists and contains at least one entry.
// A path that exists but is not a directory counts as populated.
func HasEntries(dir string) (bool, error) {
	f, err := os.Open(dir)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return true, nil
	}

	names, err := f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}
