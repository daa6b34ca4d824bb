// Package config assembles the run configuration of the replaysort command
// from flags, environment variables and, for anything still missing,
// interactive prompts.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Environment variables consulted when a flag is not given.
const (
	EnvDir     = "REPLAYSORT_DIR"
	EnvHandle  = "REPLAYSORT_HANDLE"
	EnvWorkers = "REPLAYSORT_WORKERS"
)

// Error codes carried by *Error.
const (
	// ErrCodeUsage means the arguments could not be parsed.
	ErrCodeUsage = "usage"
	// ErrCodeMissingDir means no replay folder was given.
	ErrCodeMissingDir = "missing_dir"
	// ErrCodeBadDir means the replay folder does not exist or is not a folder.
	ErrCodeBadDir = "bad_dir"
	// ErrCodeMissingHandle means no player handle was given.
	ErrCodeMissingHandle = "missing_handle"
	// ErrCodeBadWorkers means the worker count is negative or not a number.
	ErrCodeBadWorkers = "bad_workers"
)

// Error is a configuration error with a stable code.
type Error struct {
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Code extracts the code of a *Error, or "" for other errors.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Config is the resolved run configuration.
type Config struct {
	// ReplayDir holds the replays to sort. The sorted layout is created
	// inside it.
	ReplayDir string

	// Handle is the operator's in-game name or account handle; it decides
	// which side of a matchup is "own".
	Handle string

	// DryRun reports the moves without performing them.
	DryRun bool

	// Workers is the number of replays decoded at once; 0 means one per CPU.
	Workers int

	Verbose     bool
	ShowVersion bool
}

// Parse reads flags from args (without the program name), falling back to
// the environment through getenv for values left unset.
//
// flag.ErrHelp is returned as is when -h was given.
func Parse(args []string, getenv func(string) string, stderr io.Writer) (*Config, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	cfg := &Config{Workers: 1}
	fs := flag.NewFlagSet("replaysort", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.ReplayDir, "dir", "", "folder holding the replays to sort (env "+EnvDir+")")
	fs.StringVar(&cfg.Handle, "handle", "", "your in-game name or account handle (env "+EnvHandle+")")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "print the moves without touching any file")
	fs.IntVar(&cfg.Workers, "workers", 1, "replays decoded at once; 0 uses one per CPU (env "+EnvWorkers+")")
	fs.BoolVar(&cfg.Verbose, "v", false, "log every skipped file")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, &Error{Code: ErrCodeUsage, Msg: "invalid arguments", Err: err}
	}
	// A single positional argument is taken as the replay folder.
	if fs.NArg() > 1 {
		return nil, &Error{Code: ErrCodeUsage, Msg: fmt.Sprintf("unexpected arguments %q", fs.Args()[1:])}
	}
	if fs.NArg() == 1 && cfg.ReplayDir == "" {
		cfg.ReplayDir = fs.Arg(0)
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if cfg.ReplayDir == "" {
		cfg.ReplayDir = strings.TrimSpace(getenv(EnvDir))
	}
	if !set["handle"] {
		cfg.Handle = strings.TrimSpace(getenv(EnvHandle))
	}
	if !set["workers"] {
		if s := strings.TrimSpace(getenv(EnvWorkers)); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, &Error{Code: ErrCodeBadWorkers, Msg: EnvWorkers, Err: err}
			}
			cfg.Workers = n
		}
	}
	return cfg, nil
}

// Prompt asks for the replay folder and handle when they are still unset,
// one line each.
func (c *Config) Prompt(in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	ask := func(question string) (string, error) {
		fmt.Fprint(out, question)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return strings.TrimSpace(sc.Text()), nil
	}

	if c.ReplayDir == "" {
		dir, err := ask("Where are your StarCraft replays? ")
		if err != nil {
			return &Error{Code: ErrCodeMissingDir, Msg: "no replay folder given", Err: err}
		}
		c.ReplayDir = dir
	}
	if c.Handle == "" {
		handle, err := ask("What is your StarCraft handle? ")
		if err != nil {
			return &Error{Code: ErrCodeMissingHandle, Msg: "no handle given", Err: err}
		}
		c.Handle = handle
	}
	return nil
}

// Validate checks the configuration and makes ReplayDir absolute.
func (c *Config) Validate() error {
	if c.ReplayDir == "" {
		return &Error{Code: ErrCodeMissingDir, Msg: "no replay folder given"}
	}
	abs, err := filepath.Abs(c.ReplayDir)
	if err != nil {
		return &Error{Code: ErrCodeBadDir, Msg: c.ReplayDir, Err: err}
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return &Error{Code: ErrCodeBadDir, Msg: abs, Err: err}
	}
	if !fi.IsDir() {
		return &Error{Code: ErrCodeBadDir, Msg: abs + " is not a folder"}
	}
	c.ReplayDir = abs

	if strings.TrimSpace(c.Handle) == "" {
		return &Error{Code: ErrCodeMissingHandle, Msg: "no handle given"}
	}
	if c.Workers < 0 {
		return &Error{Code: ErrCodeBadWorkers, Msg: fmt.Sprintf("worker count %d is negative", c.Workers)}
	}
	return nil
}
