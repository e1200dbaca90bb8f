package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Dir is a baseline backed by an unpacked source tree. Names are slash-separated and relative to the tree.
type Dir struct {
	fs billy.Filesystem
}

// OpenDir returns a baseline reading the directory at path.
func OpenDir(path string) *Dir {
	return NewDir(osfs.New(path))
}

// NewDir returns a baseline reading fs.
func NewDir(fs billy.Filesystem) *Dir {
	return &Dir{fs: fs}
}

// Names returns every regular file below the root, depth first.
func (d *Dir) Names() ([]string, error) {
	return walkFiles(d.fs)
}

// Open opens the file called name.
func (d *Dir) Open(name string) (io.ReadCloser, error) {
	f, err := d.fs.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return f, nil
}

// Close is a no-op.
func (d *Dir) Close() error {
	return nil
}

// walkFiles lists regular files of fs as slash-separated paths relative to its root.
func walkFiles(fs billy.Filesystem) ([]string, error) {
	var names []string
	err := util.Walk(fs, "/", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		names = append(names, strings.TrimPrefix(filepath.ToSlash(path), "/"))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
