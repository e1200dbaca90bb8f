package source

import (
	"archive/zip"
	"fmt"
	"io"
)

// Zip is a baseline backed by a zip archive. Entry names are the archive's own slash-separated names.
type Zip struct {
	path   string
	reader *zip.ReadCloser
	files  map[string]*zip.File
}

// OpenZip opens the archive at path.
func OpenZip(path string) (*Zip, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}

	files := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files[f.Name] = f
	}
	return &Zip{path: path, reader: reader, files: files}, nil
}

// Names returns the archive's file entries in central-directory order.
func (z *Zip) Names() ([]string, error) {
	names := make([]string, 0, len(z.files))
	for _, f := range z.reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, f.Name)
	}
	return names, nil
}

// Open opens the entry called name.
func (z *Zip) Open(name string) (io.ReadCloser, error) {
	f, ok := z.files[name]
	if !ok {
		return nil, fmt.Errorf("%s in %s: %w", name, z.path, ErrNotFound)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in %s: %w", name, z.path, err)
	}
	return rc, nil
}

// Close closes the archive.
func (z *Zip) Close() error {
	return z.reader.Close()
}
