package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
)

const appVersion = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func initLogger(opts *cliOptions, stderr io.Writer) *Logger {
	level := WARN
	switch {
	case opts.verbose:
		level = DEBUG
	case opts.logFile != "":
		level = INFO
	}

	logger, err := NewLogger(level, opts.logFile, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "warning: %v\n", err)
	}
	logger.SetQuiet(opts.quiet)
	return logger
}

func reportLoggerStats(logger *Logger, stderr io.Writer) {
	if !logger.HasErrors() {
		return
	}

	stats := logger.GetStats()
	fmt.Fprintf(stderr, "\ncompleted with %d error(s)\n", stats.TotalErrors)
	if stats.TotalWarnings > 0 {
		fmt.Fprintf(stderr, "warnings: %d\n", stats.TotalWarnings)
	}
}
