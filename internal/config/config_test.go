package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Context)
	assert.Equal(t, "\n", cfg.EOL)
	assert.Equal(t, "diffs", cfg.OutputDir)
	assert.Len(t, cfg.Roots, 6)
	assert.Equal(t, "impl", cfg.Roots[0].Name)
	assert.Equal(t, "portal-impl/src/", cfg.Roots[0].Baseline)
	assert.Equal(t, "ext-impl/src/", cfg.Roots[0].Working)

	f, err := cfg.Filter()
	require.NoError(t, err)
	assert.True(t, f.Accepts("/sdk/ext/foo-ext/docroot/WEB-INF/ext-impl/src/A.java"))
	assert.False(t, f.Accepts("/sdk/ext/foo-ext/diffs/A.java.patch"))
}

func TestLoadFromWorkingDir(t *testing.T) {
	dir := t.TempDir()
	content := `
context = 5
workers = 4
eol = "\r\n"

[[roots]]
name = "impl"
baseline = "portal-impl/src/"
working = "ext-impl/src/"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))

	cfg, err := Load("", dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5, cfg.Context)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "\r\n", cfg.EOL)
	assert.Equal(t, "diffs", cfg.OutputDir, "unset keys keep defaults")
	require.Len(t, cfg.Roots, 1, "a roots table replaces the defaults")
	assert.Equal(t, "impl", cfg.Roots[0].Name)
}

func TestLoadWithoutFileKeepsDefaultRoots(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir = \"patches\"\n"), 0o644))

	cfg, err := Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, "patches", cfg.OutputDir)
	assert.Len(t, cfg.Roots, 6)

	cfg, err = Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("context = ["), 0o644))

	_, err := Load(path, "")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"), "")
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("UPGRADE_DIFF_CONTEXT", "7")
	t.Setenv("UPGRADE_DIFF_WORKERS", "8")
	t.Setenv("UPGRADE_DIFF_OUTPUT_DIR", "out")
	t.Setenv("UPGRADE_DIFF_EOL", "crlf")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnvOverrides())
	assert.Equal(t, 7, cfg.Context)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "\r\n", cfg.EOL)

	t.Setenv("UPGRADE_DIFF_WORKERS", "many")
	assert.Error(t, Default().ApplyEnvOverrides())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "negative context", mutate: func(c *Config) { c.Context = -1 }, field: "context"},
		{name: "empty eol", mutate: func(c *Config) { c.EOL = "" }, field: "eol"},
		{name: "absolute output dir", mutate: func(c *Config) { c.OutputDir = "/tmp/diffs" }, field: "output_dir"},
		{name: "escaping output dir", mutate: func(c *Config) { c.OutputDir = "../diffs" }, field: "output_dir"},
		{name: "no workers", mutate: func(c *Config) { c.Workers = 0 }, field: "workers"},
		{name: "bad scope", mutate: func(c *Config) { c.ScopePattern = "(" }, field: "scope_pattern"},
		{name: "bad exclude", mutate: func(c *Config) { c.ExcludePattern = "[" }, field: "exclude_pattern"},
		{name: "no roots", mutate: func(c *Config) { c.Roots = nil }, field: "roots"},
		{name: "duplicate root", mutate: func(c *Config) { c.Roots = append(c.Roots, c.Roots[0]) }, field: "roots[6]"},
		{name: "unnamed root", mutate: func(c *Config) { c.Roots[1].Name = "" }, field: "roots[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestParseEOL(t *testing.T) {
	assert.Equal(t, "\n", ParseEOL("LF"))
	assert.Equal(t, "\r\n", ParseEOL(`\r\n`))
	assert.Equal(t, "\r", ParseEOL("cr"))
	assert.Equal(t, ";", ParseEOL(";"))
}

func TestReconcileRoots(t *testing.T) {
	roots := Default().ReconcileRoots()
	require.Len(t, roots, 6)
	assert.Equal(t, "util-taglib", roots[5].Name)
	assert.Equal(t, "ext-util-taglib/src/", roots[5].Working)
}
