// Package config loads the reconciliation settings.
//
// Settings come from, in increasing priority:
//   - Default()
//   - a TOML file (upgrade-diff.toml in the working tree, or an explicit path)
//   - UPGRADE_DIFF_* environment variables (ApplyEnvOverrides)
//   - command-line flags, applied by the caller
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"upgrade_diff/internal/diff"
	"upgrade_diff/internal/reconcile"
	"upgrade_diff/internal/source"
)

// FileName is the configuration file looked up in the working tree.
const FileName = "upgrade-diff.toml"

const (
	// DefaultScopePattern selects files inside extension plugins (ext/<name>-ext/...).
	DefaultScopePattern = `^.*ext/\w+-ext/.*$`
	// DefaultExcludePattern skips diffs directories below the working root, such as patches kept inside a plugin.
	DefaultExcludePattern = `(^|/)diffs(/|$)`
	// DefaultOutputDir is the working-tree directory patches are written below.
	DefaultOutputDir = "diffs"
)

// RootConfig is one named source root.
type RootConfig struct {
	Name     string `toml:"name"`
	Baseline string `toml:"baseline"`
	Working  string `toml:"working"`
}

// Config holds the reconciliation settings.
type Config struct {
	// Context is the number of unchanged lines around each change.
	Context int `toml:"context"`
	// EOL is the line terminator used to split texts and to write patches.
	EOL string `toml:"eol"`
	// OutputDir is the working-tree relative directory patches are written below.
	OutputDir string `toml:"output_dir"`
	// ScopePattern selects working files that are reconciliation candidates.
	ScopePattern string `toml:"scope_pattern"`
	// ExcludePattern rejects working files by their path relative to the working root. The output directory is
	// always excluded.
	ExcludePattern string `toml:"exclude_pattern"`
	// Workers bounds parallel patch emission; 1 emits sequentially.
	Workers int `toml:"workers"`
	// FailFast stops emission at the first entry that cannot be read or written.
	FailFast bool `toml:"fail_fast"`
	// MaxFileSize is the largest text, in bytes, that is diffed.
	MaxFileSize int64 `toml:"max_file_size"`

	Roots []RootConfig `toml:"roots"`
}

// Default returns the settings for a Liferay extension plugin.
func Default() *Config {
	cfg := &Config{
		Context:        diff.DefaultContext,
		EOL:            diff.DefaultEOL,
		OutputDir:      DefaultOutputDir,
		ScopePattern:   DefaultScopePattern,
		ExcludePattern: DefaultExcludePattern,
		Workers:        1,
		MaxFileSize:    source.MaxFileSize,
	}
	for _, r := range reconcile.DefaultRoots() {
		cfg.Roots = append(cfg.Roots, RootConfig{Name: r.Name, Baseline: r.Baseline, Working: r.Working})
	}
	return cfg
}

// LoadTOML decodes path over cfg. Keys absent from the file keep their current values; a roots table in the
// file replaces the default roots.
func LoadTOML(cfg *Config, path string) error {
	var roots struct {
		Roots []RootConfig `toml:"roots"`
	}
	md, err := toml.DecodeFile(path, &roots)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if md.IsDefined("roots") {
		cfg.Roots = nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Load returns the defaults overlaid with the file at path and the environment. An empty path looks for
// FileName in workingDir and silently skips it when absent.
func Load(path, workingDir string) (*Config, error) {
	cfg := Default()

	if path == "" {
		candidate := filepath.Join(workingDir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path != "" {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides:
//   - UPGRADE_DIFF_CONTEXT: overrides context
//   - UPGRADE_DIFF_WORKERS: overrides workers
//   - UPGRADE_DIFF_OUTPUT_DIR: overrides output_dir
//   - UPGRADE_DIFF_EOL: overrides eol; "lf" and "crlf" are accepted as names
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv("UPGRADE_DIFF_CONTEXT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("UPGRADE_DIFF_CONTEXT: %w", err)
		}
		c.Context = n
	}
	if v := os.Getenv("UPGRADE_DIFF_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("UPGRADE_DIFF_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("UPGRADE_DIFF_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("UPGRADE_DIFF_EOL"); v != "" {
		c.EOL = ParseEOL(v)
	}
	return nil
}

// ParseEOL maps the names "lf", "crlf" and "cr" to terminators and returns anything else unchanged.
func ParseEOL(v string) string {
	switch strings.ToLower(v) {
	case "lf", `\n`:
		return "\n"
	case "crlf", `\r\n`:
		return "\r\n"
	case "cr", `\r`:
		return "\r"
	default:
		return v
	}
}

// ValidationError describes one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the settings and returns every problem found.
func (c *Config) Validate() error {
	var errs []error
	if c.Context < 0 {
		errs = append(errs, ValidationError{Field: "context", Message: "must not be negative"})
	}
	if c.EOL == "" {
		errs = append(errs, ValidationError{Field: "eol", Message: "must not be empty"})
	}
	if c.OutputDir == "" || filepath.IsAbs(c.OutputDir) || strings.HasPrefix(filepath.ToSlash(filepath.Clean(c.OutputDir)), "..") {
		errs = append(errs, ValidationError{Field: "output_dir", Message: "must be a relative path inside the working tree"})
	}
	if c.Workers < 1 {
		errs = append(errs, ValidationError{Field: "workers", Message: "must be at least 1"})
	}
	if c.MaxFileSize < 0 {
		errs = append(errs, ValidationError{Field: "max_file_size", Message: "must not be negative"})
	}
	if _, err := regexp.Compile(c.ScopePattern); err != nil {
		errs = append(errs, ValidationError{Field: "scope_pattern", Message: err.Error()})
	}
	if _, err := regexp.Compile(c.ExcludePattern); err != nil {
		errs = append(errs, ValidationError{Field: "exclude_pattern", Message: err.Error()})
	}
	if len(c.Roots) == 0 {
		errs = append(errs, ValidationError{Field: "roots", Message: "at least one root is required"})
	}
	seen := make(map[string]bool, len(c.Roots))
	for i, r := range c.Roots {
		field := fmt.Sprintf("roots[%d]", i)
		switch {
		case r.Name == "":
			errs = append(errs, ValidationError{Field: field, Message: "name is required"})
		case seen[r.Name]:
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("duplicate name %q", r.Name)})
		}
		seen[r.Name] = true
	}
	return errors.Join(errs...)
}

// ReconcileRoots returns the root table.
func (c *Config) ReconcileRoots() []reconcile.Root {
	roots := make([]reconcile.Root, len(c.Roots))
	for i, r := range c.Roots {
		roots[i] = reconcile.Root{Name: r.Name, Baseline: r.Baseline, Working: r.Working}
	}
	return roots
}

// Filter compiles the scope and exclude patterns. An empty pattern disables that check.
func (c *Config) Filter() (reconcile.Filter, error) {
	var f reconcile.Filter
	var err error
	if c.ScopePattern != "" {
		if f.Scope, err = regexp.Compile(c.ScopePattern); err != nil {
			return f, fmt.Errorf("scope_pattern: %w", err)
		}
	}
	if c.ExcludePattern != "" {
		if f.Exclude, err = regexp.Compile(c.ExcludePattern); err != nil {
			return f, fmt.Errorf("exclude_pattern: %w", err)
		}
	}
	return f, nil
}
