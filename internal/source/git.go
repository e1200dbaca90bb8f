package source

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Git is a baseline backed by the tree of a commit in a git repository.
type Git struct {
	repo     *git.Repository
	tree     *object.Tree
	revision string
}

// OpenGit opens the repository containing path and resolves revision (a branch, tag or hash) to a tree.
func OpenGit(path, revision string) (*Git, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", path, err)
	}
	return NewGit(repo, revision)
}

// NewGit returns a baseline for revision in repo.
func NewGit(repo *git.Repository, revision string) (*Git, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision %s: %w", revision, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree of %s: %w", hash, err)
	}
	return &Git{repo: repo, tree: tree, revision: revision}, nil
}

// Names returns the path of every file in the tree.
func (g *Git) Names() ([]string, error) {
	var names []string
	err := g.tree.Files().ForEach(func(f *object.File) error {
		names = append(names, f.Name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files at %s: %w", g.revision, err)
	}
	return names, nil
}

// Open opens the file at name in the tree.
func (g *Git) Open(name string) (io.ReadCloser, error) {
	f, err := g.tree.File(name)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%s at %s: %w", name, g.revision, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s at %s: %w", name, g.revision, err)
	}
	rc, err := f.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s at %s: %w", name, g.revision, err)
	}
	return rc, nil
}

// Close is a no-op; the repository holds no open handles between calls.
func (g *Git) Close() error {
	return nil
}
