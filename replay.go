package replaysort

import (
	"context"
	"io"

	"github.com/simonhull/replaysort/internal/decoder"
	"github.com/simonhull/replaysort/internal/mpq"
	_ "github.com/simonhull/replaysort/internal/protocol" // Register built-in schemas
)

// Decode reads the replay at path and returns its metadata.
//
// Errors are typed: *NotAnArchiveError for files that are not MPQ archives,
// *UnsupportedVersionError when no schema covers the replay's build, and
// *MalformedDetailsError (or *MemberNotFoundError, *CorruptedFileError) when
// the archive is valid but its content is not. Classify maps them to a
// SkipKind.
//
// Example:
//
//	m, err := replaysort.Decode("game.SC2Replay")
//	if err != nil {
//		return err
//	}
//	fmt.Println(m.PlayerOne.Race, "vs", m.PlayerTwo.Race)
func Decode(path string, opts ...Option) (*Metadata, error) {
	options := applyOptions(opts)

	a, err := mpq.Open(path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	return decoder.DecodeArchive(a, options.registry)
}

// DecodeContext is Decode with a cancellation check before starting.
// Decoding one local file is fast enough that it is not interrupted midway.
func DecodeContext(ctx context.Context, path string, opts ...Option) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Decode(path, opts...)
}

// DecodeReader decodes a replay held by r, which has size bytes. path is
// recorded in the metadata and in errors; it is not opened.
func DecodeReader(r io.ReaderAt, size int64, path string, opts ...Option) (*Metadata, error) {
	options := applyOptions(opts)

	a, err := mpq.New(r, size, path)
	if err != nil {
		return nil, err
	}
	return decoder.DecodeArchive(a, options.registry)
}
