package replaysort

import (
	"io"

	"github.com/simonhull/replaysort/internal/types"
)

// Format is an alias to types.Format.
// Re-exporting from internal/types to maintain public API.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown = types.FormatUnknown
	FormatMPQ     = types.FormatMPQ
	FormatReplay  = types.FormatReplay
)

// DetectFormat is a wrapper around types.DetectFormat.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}
