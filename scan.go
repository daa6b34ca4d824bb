package replaysort

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Skip reports a file that produced no metadata.
type Skip struct {
	Path string
	Kind SkipKind
	Err  error
}

func (s Skip) String() string {
	return fmt.Sprintf("%s: %s", s.Kind, s.Err)
}

// ScanResult holds the outcome of a Scan, in directory order.
type ScanResult struct {
	Records []*Metadata
	Skips   []Skip
}

// Scan decodes every regular file directly inside dir.
//
// The listing is not recursive and no extension filter applies: files that
// are not replays show up as SkipNotAnArchive. Only a failure to list dir is
// returned as an error; per-file failures become Skips, logged according to
// their kind (see WithLogger).
//
// Files are decoded concurrently when WithConcurrency allows it. Records
// and Skips keep the order of the directory listing regardless.
//
// Example:
//
//	res, err := replaysort.Scan(ctx, "/replays", replaysort.WithConcurrency(4))
//	if err != nil {
//		return err
//	}
//	for _, m := range res.Records {
//		fmt.Println(m.FileName, m.Patch)
//	}
func Scan(ctx context.Context, dir string, opts ...Option) (*ScanResult, error) {
	options := applyOptions(opts)

	paths, err := listFiles(dir)
	if err != nil {
		return nil, err
	}

	type outcome struct {
		m   *Metadata
		err error
	}
	outcomes := make([]outcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(options.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			// Check for cancellation
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := Decode(path, WithRegistry(options.registry))
			outcomes[i] = outcome{m: m, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &ScanResult{}
	for i, o := range outcomes {
		if o.err == nil {
			res.Records = append(res.Records, o.m)
			continue
		}
		s := Skip{Path: paths[i], Kind: Classify(o.err), Err: o.err}
		logSkip(ctx, options.logger, s)
		res.Skips = append(res.Skips, s)
	}

	options.logger.Info("scan complete",
		"dir", dir,
		"files", len(paths),
		"records", len(res.Records),
		"skipped", len(res.Skips))
	return res, nil
}

// listFiles returns the regular files directly inside dir, sorted by name.
// Symlinks count when they resolve to a regular file.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list replay directory: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		switch {
		case e.Type().IsRegular():
		case e.Type()&fs.ModeSymlink != 0:
			fi, err := os.Stat(path)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
		default:
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func logSkip(ctx context.Context, l *slog.Logger, s Skip) {
	switch s.Kind {
	case SkipNotAnArchive:
		l.DebugContext(ctx, "not a replay", "path", s.Path, "err", s.Err)
	case SkipUnsupportedVersion:
		attrs := []any{"path", s.Path}
		if uv, ok := asUnsupported(s.Err); ok {
			attrs = append(attrs, "base_build", uv.BaseBuild, "patch", uv.Patch)
		}
		l.WarnContext(ctx, "unsupported replay version", attrs...)
	case SkipMalformedDetails:
		l.DebugContext(ctx, "malformed replay", "path", s.Path, "err", s.Err)
	default:
		l.ErrorContext(ctx, "read replay", "path", s.Path, "err", s.Err)
	}
}

func asUnsupported(err error) (*UnsupportedVersionError, bool) {
	var uv *UnsupportedVersionError
	ok := errors.As(err, &uv)
	return uv, ok
}
