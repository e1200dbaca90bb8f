package source

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, files map[string]string, dirs ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portal-src.zip")
	out, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(out)
	for _, dir := range dirs {
		_, err := zw.Create(dir)
		require.NoError(t, err)
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())
	return path
}

func TestZip(t *testing.T) {
	path := writeZip(t, map[string]string{
		"portal/portal-impl/src/a/B.java": "class B {}\n",
	}, "portal/portal-impl/src/a/")

	z, err := OpenZip(path)
	require.NoError(t, err)
	defer z.Close()

	names, err := z.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"portal/portal-impl/src/a/B.java"}, names)

	text, err := ReadText(z, "portal/portal-impl/src/a/B.java", MaxFileSize)
	require.NoError(t, err)
	assert.Equal(t, "class B {}\n", text)

	_, err = z.Open("portal/missing.java")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenZipUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.zip")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := OpenZip(path)
	assert.Error(t, err)
}

func TestOpenBaseline(t *testing.T) {
	zipPath := writeZip(t, map[string]string{"x/portal-impl/src/A.java": "a"})

	b, err := OpenBaseline(zipPath, "")
	require.NoError(t, err)
	assert.IsType(t, &Zip{}, b)
	require.NoError(t, b.Close())

	b, err = OpenBaseline(t.TempDir(), "")
	require.NoError(t, err)
	assert.IsType(t, &Dir{}, b)

	other := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	_, err = OpenBaseline(other, "")
	assert.Error(t, err)

	_, err = OpenBaseline(filepath.Join(t.TempDir(), "missing.zip"), "")
	assert.Error(t, err)
}

func TestDir(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "portal-impl/src/a/B.java", []byte("b"), 0o644))
	require.NoError(t, util.WriteFile(fs, "portal-web/docroot/c.jsp", []byte("c"), 0o644))

	d := NewDir(fs)
	names, err := d.Names()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"portal-impl/src/a/B.java", "portal-web/docroot/c.jsp"}, names)

	text, err := ReadText(d, "portal-web/docroot/c.jsp", 0)
	require.NoError(t, err)
	assert.Equal(t, "c", text)

	_, err = d.Open("nope.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGit(t *testing.T) {
	fs := memfs.New()
	repo, err := git.Init(memory.NewStorage(), fs)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, util.WriteFile(fs, "portal-impl/src/A.java", []byte("v1\n"), 0o644))
	_, err = wt.Add("portal-impl/src/A.java")
	require.NoError(t, err)
	first, err := wt.Commit("first", &git.CommitOptions{
		Author: &object.Signature{Name: "dev", Email: "dev@example.com", When: time.Unix(0, 0)},
	})
	require.NoError(t, err)

	require.NoError(t, util.WriteFile(fs, "portal-impl/src/A.java", []byte("v2\n"), 0o644))
	_, err = wt.Add("portal-impl/src/A.java")
	require.NoError(t, err)
	_, err = wt.Commit("second", &git.CommitOptions{
		Author: &object.Signature{Name: "dev", Email: "dev@example.com", When: time.Unix(60, 0)},
	})
	require.NoError(t, err)

	g, err := NewGit(repo, first.String())
	require.NoError(t, err)
	defer g.Close()

	names, err := g.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"portal-impl/src/A.java"}, names)

	text, err := ReadText(g, "portal-impl/src/A.java", MaxFileSize)
	require.NoError(t, err)
	assert.Equal(t, "v1\n", text)

	head, err := NewGit(repo, "HEAD")
	require.NoError(t, err)
	text, err = ReadText(head, "portal-impl/src/A.java", MaxFileSize)
	require.NoError(t, err)
	assert.Equal(t, "v2\n", text)

	_, err = g.Open("portal-impl/src/Missing.java")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = NewGit(repo, "no-such-branch")
	assert.Error(t, err)
}

func TestReadTextTooLarge(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "big.txt", []byte("0123456789"), 0o644))
	d := NewDir(fs)

	_, err := ReadText(d, "big.txt", 9)
	assert.ErrorIs(t, err, ErrTooLarge)

	text, err := ReadText(d, "big.txt", 10)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", text)
}

func TestWorktree(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "ext/foo-ext/ext-impl/src/a/B.java", []byte("b"), 0o644))
	require.NoError(t, util.WriteFile(fs, "build.xml", []byte("<project/>"), 0o644))

	w := NewWorktree(fs, "/sdk/")
	assert.Equal(t, "/sdk", w.Root())

	locations, err := w.Walk()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/sdk/ext/foo-ext/ext-impl/src/a/B.java", "/sdk/build.xml"}, locations)

	rel, err := w.Rel("/sdk/ext/foo-ext/ext-impl/src/a/B.java")
	require.NoError(t, err)
	assert.Equal(t, "ext/foo-ext/ext-impl/src/a/B.java", rel)

	_, err = w.Rel("/elsewhere/B.java")
	assert.Error(t, err)

	text, err := ReadText(w, "/sdk/build.xml", MaxFileSize)
	require.NoError(t, err)
	assert.Equal(t, "<project/>", text)

	_, err = w.Open("/sdk/missing.txt")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestWorktreeWriteFileCreatesParents(t *testing.T) {
	fs := memfs.New()
	w := NewWorktree(fs, "/sdk")

	location, err := w.WriteFile("diffs/ext/foo-ext/a/B.java.patch", []byte("patch"))
	require.NoError(t, err)
	assert.Equal(t, "/sdk/diffs/ext/foo-ext/a/B.java.patch", location)

	// A second write into an existing directory succeeds.
	_, err = w.WriteFile("diffs/ext/foo-ext/a/C.java.patch", []byte("patch"))
	require.NoError(t, err)

	text, err := ReadText(w, location, MaxFileSize)
	require.NoError(t, err)
	assert.Equal(t, "patch", text)
}

func TestOpenWorktree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ext", "foo-ext"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ext", "foo-ext", "a.txt"), []byte("a"), 0o644))

	w, err := OpenWorktree(root)
	require.NoError(t, err)

	locations, err := w.Walk()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.ToSlash(root) + "/ext/foo-ext/a.txt"}, locations)

	_, err = OpenWorktree(filepath.Join(root, "ext", "foo-ext", "a.txt"))
	assert.Error(t, err)
}
