// Package source reads the two sides of a reconciliation: a baseline snapshot (a source archive, a git
// revision or an unpacked directory) and the working tree the patches are written into.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Baseline.Open for names the baseline does not contain.
var ErrNotFound = errors.New("entry not found")

// ErrTooLarge is returned by ReadText for content over the size limit.
var ErrTooLarge = errors.New("content too large")

// MaxFileSize is the default limit for a single text (10MB).
const MaxFileSize = 10 * 1024 * 1024

// Baseline is a read-only set of named texts.
type Baseline interface {
	// Names returns every file entry in enumeration order.
	Names() ([]string, error)
	// Open returns the content of name, or ErrNotFound.
	Open(name string) (io.ReadCloser, error)
	Close() error
}

// Opener opens a named text.
type Opener interface {
	Open(name string) (io.ReadCloser, error)
}

// ReadText reads name from o, failing with ErrTooLarge when it exceeds limit bytes. A limit <= 0 disables
// the check.
func ReadText(o Opener, name string, limit int64) (string, error) {
	rc, err := o.Open(name)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	r := io.Reader(rc)
	if limit > 0 {
		r = io.LimitReader(rc, limit+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if limit > 0 && int64(len(content)) > limit {
		return "", fmt.Errorf("%s too large to diff (> %d bytes): %w", name, limit, ErrTooLarge)
	}
	return string(content), nil
}

// OpenBaseline opens path as a baseline. A non-empty revision selects a git repository at that revision;
// otherwise a .zip file is read as an archive and a directory is read as an unpacked tree.
func OpenBaseline(path, revision string) (Baseline, error) {
	if revision != "" {
		g, err := OpenGit(path, revision)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat baseline %s: %w", path, err)
	}
	if info.IsDir() {
		return OpenDir(path), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".jar":
		z, err := OpenZip(path)
		if err != nil {
			return nil, err
		}
		return z, nil
	}
	return nil, fmt.Errorf("unsupported baseline %s: expected a directory, a .zip archive or --rev", path)
}
