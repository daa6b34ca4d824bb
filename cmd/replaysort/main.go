// Command replaysort sorts a folder of StarCraft II replays into one folder
// per patch and matchup:
//
//	replaysort -dir ~/Replays -handle Alice
//
// Missing -dir or -handle values are asked for interactively.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/simonhull/replaysort"
	"github.com/simonhull/replaysort/internal/config"
	"github.com/simonhull/replaysort/internal/organize"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Getenv, os.Stdin, os.Stdout, os.Stderr))
}

// run returns the exit code: 0 on success, even with skipped files or
// failed moves; 1 when the configuration is invalid or the folder cannot be
// listed; 2 for usage errors.
func run(ctx context.Context, args []string, getenv func(string) string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args, getenv, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		if config.Code(err) == config.ErrCodeUsage {
			return 2
		}
		return 1
	}
	if cfg.ShowVersion {
		fmt.Fprintln(stdout, replaysort.GetVersionInfo())
		return 0
	}

	if err := cfg.Prompt(stdin, stdout); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	res, err := replaysort.Scan(ctx, cfg.ReplayDir,
		replaysort.WithConcurrency(cfg.Workers),
		replaysort.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintf(stderr, "cannot read replay folder: %v\n", err)
		return 1
	}

	// Other skip kinds only reach the logger.
	for _, s := range res.Skips {
		if s.Kind == replaysort.SkipUnsupportedVersion {
			fmt.Fprintf(stdout, "Replay version not supported, left in place: %s\n", s.Path)
		}
	}

	opts := organize.Options{DryRun: cfg.DryRun, Logger: logger}
	moves := organize.Plan(res.Records, cfg.ReplayDir, cfg.Handle)
	applied := organize.Apply(moves, cfg.ReplayDir, opts)
	for _, f := range applied.Failed {
		fmt.Fprintf(stderr, "could not move %s: %v\n", f.Move.Src, f.Err)
	}

	var removed []string
	if !cfg.DryRun {
		removed, err = organize.Cleanup(cfg.ReplayDir, opts)
		if err != nil {
			fmt.Fprintf(stderr, "cleanup: %v\n", err)
		}
	}

	verb := "Moved"
	if cfg.DryRun {
		verb = "Would move"
	}
	fmt.Fprintf(stdout, "%s %d of %d replays (%d skipped, %d failed, %d empty folders removed)\n",
		verb, len(applied.Moved), len(res.Records)+len(res.Skips), len(res.Skips), len(applied.Failed), len(removed))
	return 0
}
