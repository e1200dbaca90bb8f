package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"upgrade_diff/internal/config"
	"upgrade_diff/internal/source"
	"upgrade_diff/internal/upgrade"
)

type cliOptions struct {
	configPath string
	rev        string
	context    int
	workers    int
	failFast   bool
	print      bool
	watch      bool
	logFile    string
	verbose    bool
	quiet      bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "upgrade-diff <working-dir> <baseline>",
		Short: "Write a patch for every portal file an extension plugin overrides.",
		Long: `Compare the files an extension plugin overrides against the portal sources they were
copied from, and write one unified diff per modified file below the plugin's diffs directory.

The baseline is a portal source archive (.zip), an unpacked source directory, or a git
repository when --rev is given.

Example: upgrade-diff ~/liferay-plugins-sdk liferay-portal-src-6.1.1.zip`,
		Args:         cobra.ExactArgs(2),
		Version:      appVersion,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpgrade(cmd, opts, args[0], args[1])
		},
	}
	cmd.SetVersionTemplate("upgrade-diff {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Configuration file (default <working-dir>/"+config.FileName+")")
	flags.StringVar(&opts.rev, "rev", "", "Read the baseline from this revision of a git repository")
	flags.IntVarP(&opts.context, "context", "U", 0, "Unchanged lines around each change")
	flags.IntVarP(&opts.workers, "workers", "j", 0, "Patches written in parallel")
	flags.BoolVar(&opts.failFast, "fail-fast", false, "Stop at the first unreadable or unwritable entry")
	flags.BoolVarP(&opts.print, "print", "p", false, "Also print every written patch")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "Run again whenever the working tree changes")
	flags.StringVar(&opts.logFile, "log-file", "", "Append logs to this file instead of stderr")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug messages")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Only report failures")

	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	return cmd
}

func runUpgrade(cmd *cobra.Command, opts *cliOptions, workingDir, baselinePath string) error {
	stderr := cmd.ErrOrStderr()
	logger := initLogger(opts, stderr)
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			fmt.Fprintf(stderr, "warning: close logger: %v\n", closeErr)
		}
	}()

	logger.Info("upgrade-diff starting", map[string]any{
		"version":  appVersion,
		"working":  workingDir,
		"baseline": baselinePath,
		"rev":      opts.rev,
	})

	cfg, err := loadConfig(cmd, opts, workingDir)
	if err != nil {
		logger.Error("load configuration", err, nil)
		return err
	}
	runnerOpts, err := runnerOptions(cfg)
	if err != nil {
		return err
	}

	tree, err := source.OpenWorktree(workingDir)
	if err != nil {
		return fmt.Errorf("%w: %w", upgrade.ErrSourceUnreadable, err)
	}
	baseline, err := source.OpenBaseline(baselinePath, opts.rev)
	if err != nil {
		return fmt.Errorf("%w: %w", upgrade.ErrSourceUnreadable, err)
	}
	defer func() {
		if closeErr := baseline.Close(); closeErr != nil {
			logger.Warn("close baseline", map[string]any{"error": closeErr.Error()})
		}
	}()

	printer := newStatusPrinter(cmd.OutOrStdout(), opts.print, opts.quiet)
	runOnce := func(ctx context.Context) error {
		summary, err := upgrade.New(baseline, tree, runnerOpts, logger, printer).Run(ctx)
		printer.Summary(summary)
		return err
	}

	ctx := cmd.Context()
	err = runOnce(ctx)
	if opts.watch {
		if err != nil {
			logger.Error("run failed", err, nil)
		}
		err = watchAndRerun(ctx, filepath.FromSlash(tree.Root()), cfg.OutputDir, runOnce, logger)
	}

	reportLoggerStats(logger, stderr)
	return err
}

// loadConfig reads the configuration file and environment, then applies the flags the user set.
func loadConfig(cmd *cobra.Command, opts *cliOptions, workingDir string) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath, workingDir)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("context") {
		cfg.Context = opts.context
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("fail-fast") {
		cfg.FailFast = opts.failFast
	}
	cfg.EOL = config.ParseEOL(cfg.EOL)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runnerOptions(cfg *config.Config) (upgrade.Options, error) {
	filter, err := cfg.Filter()
	if err != nil {
		return upgrade.Options{}, err
	}
	return upgrade.Options{
		Roots:       cfg.ReconcileRoots(),
		Filter:      filter,
		Context:     cfg.Context,
		EOL:         cfg.EOL,
		OutputDir:   cfg.OutputDir,
		Workers:     cfg.Workers,
		FailFast:    cfg.FailFast,
		MaxFileSize: cfg.MaxFileSize,
	}, nil
}

// watchAndRerun runs again after every settled change until ctx is cancelled.
func watchAndRerun(ctx context.Context, root, outputDir string, runOnce func(context.Context) error, logger *Logger) error {
	watcher, err := NewWatcher(root, outputDir)
	if err != nil {
		return err
	}
	defer watcher.Close()

	logger.Info("watching for changes", map[string]any{"root": root})
	for {
		if err := watcher.Wait(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		logger.Info("change detected", map[string]any{"root": root})
		if err := runOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("run failed", err, nil)
		}
	}
}
