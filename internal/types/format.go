package types

import (
	"io"

	"github.com/simonhull/replaysort/internal/binary"
)

// Format represents the detected container format.
type Format int

const (
	// FormatUnknown represents a file that is not an MPQ container.
	FormatUnknown Format = iota
	// FormatMPQ is a bare MPQ archive without a user data shunt.
	FormatMPQ
	// FormatReplay is an MPQ archive preceded by a user data block, the
	// layout used for replays.
	FormatReplay
)

func (f Format) String() string {
	switch f {
	case FormatMPQ:
		return "MPQ"
	case FormatReplay:
		return "SC2Replay"
	default:
		return "Unknown"
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatMPQ:
		return []string{".mpq", ".SC2Map", ".SC2Mod"}
	case FormatReplay:
		return []string{".SC2Replay"}
	default:
		return nil
	}
}

// Magic bytes of the optional user data block and the mandatory archive header.
var (
	UserDataMagic = [4]byte{'M', 'P', 'Q', 0x1b}
	HeaderMagic   = [4]byte{'M', 'P', 'Q', 0x1a}
)

// DetectFormat determines the container format by examining magic bytes.
//
// Detection only looks at the signature; it does not validate tables.
// Extensions are ignored: a replay renamed to .txt is still a replay.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	if size < 4 {
		return FormatUnknown, &NotAnArchiveError{
			Path:   path,
			Reason: "file too small",
		}
	}

	sr := binary.NewSafeReader(r, size, path)

	var magic [4]byte
	if err := sr.ReadAt(magic[:], 0, "archive magic bytes"); err != nil {
		return FormatUnknown, &NotAnArchiveError{
			Path:   path,
			Reason: "failed to read file header",
			Err:    err,
		}
	}

	switch magic {
	case UserDataMagic:
		return FormatReplay, nil
	case HeaderMagic:
		return FormatMPQ, nil
	default:
		return FormatUnknown, &NotAnArchiveError{
			Path:   path,
			Reason: "missing MPQ signature",
		}
	}
}
