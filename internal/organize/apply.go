package organize

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/simonhull/replaysort/internal/fsx"
)

// Options configures Apply and Cleanup.
type Options struct {
	// DryRun logs what would happen without touching the filesystem.
	DryRun bool

	// Logger receives one record per action. Nil discards them.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// MoveError reports a move that failed.
type MoveError struct {
	Move Move
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %s: %v", e.Move, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }

// Result summarizes an Apply run.
type Result struct {
	Moved   []Move
	Failed  []*MoveError
	Created []string // directories created, in creation order
}

// Apply creates the folder layout of every patch in moves under root and
// performs the moves. A failed move is recorded and the others proceed.
func Apply(moves []Move, root string, opts Options) Result {
	log := opts.logger()
	res := Result{}

	mkdir := func(dir string) error {
		if opts.DryRun {
			return nil
		}
		created, err := fsx.MkdirAll(dir)
		if created {
			res.Created = append(res.Created, dir)
			log.Debug("created directory", "dir", dir)
		}
		return err
	}

	var patches []string
	for _, m := range moves {
		if !slices.Contains(patches, m.Patch) {
			patches = append(patches, m.Patch)
		}
	}
	for _, p := range patches {
		for _, sub := range Layout() {
			if err := mkdir(filepath.Join(root, PatchDir(p), sub)); err != nil {
				log.Error("create patch layout", "patch", p, "err", err)
			}
		}
	}

	for _, m := range moves {
		if opts.DryRun {
			log.Info("would move", "src", m.Src, "dst", m.Dst)
			res.Moved = append(res.Moved, m)
			continue
		}

		err := mkdir(filepath.Dir(m.Dst))
		if err == nil {
			err = fsx.Rename(m.Src, m.Dst)
		}
		if err != nil {
			log.Error("move replay", "src", m.Src, "dst", m.Dst, "err", err)
			res.Failed = append(res.Failed, &MoveError{Move: m, Err: err})
			continue
		}
		log.Info("moved", "src", m.Src, "dst", m.Dst)
		res.Moved = append(res.Moved, m)
	}
	return res
}

// Cleanup removes every directory under root that holds no entries,
// deepest first, so a parent emptied by removing its children goes too.
// root itself is kept. Running it twice removes nothing the second time.
func Cleanup(root string, opts Options) ([]string, error) {
	log := opts.logger()

	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Warn("skip unreadable directory", "dir", path, "err", err)
			return fs.SkipDir
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	var (
		removed []string
		errs    []error
	)
	// WalkDir visits parents before children; reversed, children come first.
	for _, dir := range slices.Backward(dirs) {
		empty, err := fsx.IsEmptyDir(dir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !empty {
			continue
		}
		if opts.DryRun {
			log.Info("would remove empty directory", "dir", dir)
			removed = append(removed, dir)
			continue
		}
		if err := os.Remove(dir); err != nil {
			errs = append(errs, err)
			continue
		}
		log.Debug("removed empty directory", "dir", dir)
		removed = append(removed, dir)
	}
	return removed, errors.Join(errs...)
}
