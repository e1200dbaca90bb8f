package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	pathpkg "path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

const (
	dirPermission  = 0o755
	filePermission = 0o644
)

// Worktree is the working tree being reconciled. Locations are the tree's root joined with a
// slash-separated relative path, so path patterns can match directories above the files themselves.
type Worktree struct {
	fs    billy.Filesystem
	root  string
	dirMu sync.Mutex
}

// OpenWorktree opens the directory at root.
func OpenWorktree(root string) (*Worktree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat working tree %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("working tree %s is not a directory", abs)
	}
	return NewWorktree(osfs.New(abs), filepath.ToSlash(abs)), nil
}

// NewWorktree returns a working tree over fs whose locations are reported under root.
func NewWorktree(fs billy.Filesystem, root string) *Worktree {
	return &Worktree{fs: fs, root: strings.TrimSuffix(root, "/")}
}

// Root returns the location prefix of the tree.
func (w *Worktree) Root() string {
	return w.root
}

// Walk returns the location of every regular file, depth first.
func (w *Worktree) Walk() ([]string, error) {
	names, err := walkFiles(w.fs)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", w.root, err)
	}
	locations := make([]string, len(names))
	for i, name := range names {
		locations[i] = w.root + "/" + name
	}
	return locations, nil
}

// Rel returns location relative to the root.
func (w *Worktree) Rel(location string) (string, error) {
	rel, ok := strings.CutPrefix(location, w.root+"/")
	if !ok || rel == "" {
		return "", fmt.Errorf("%s is outside working tree %s", location, w.root)
	}
	return rel, nil
}

// Open opens the file at location.
func (w *Worktree) Open(location string) (io.ReadCloser, error) {
	rel, err := w.Rel(location)
	if err != nil {
		return nil, err
	}
	f, err := w.fs.Open(rel)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", location, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open %s: %w", location, err)
	}
	return f, nil
}

// WriteFile writes data to rel, creating missing parent directories first, and returns the written
// location.
func (w *Worktree) WriteFile(rel string, data []byte) (string, error) {
	rel = pathpkg.Clean(filepath.ToSlash(rel))
	if err := w.mkdirAll(pathpkg.Dir(rel)); err != nil {
		return "", err
	}
	if err := util.WriteFile(w.fs, rel, data, filePermission); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return w.root + "/" + rel, nil
}

// mkdirAll creates dir. Concurrent writers share parents, so creation is serialized and an existing
// directory counts as success.
func (w *Worktree) mkdirAll(dir string) error {
	if dir == "." || dir == "/" {
		return nil
	}
	w.dirMu.Lock()
	defer w.dirMu.Unlock()
	if err := w.fs.MkdirAll(dir, dirPermission); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return nil
}
