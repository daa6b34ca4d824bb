package replaysort

import (
	"github.com/simonhull/replaysort/internal/types"
)

// OutOfBoundsError is an alias to types.OutOfBoundsError.
// Re-exporting from internal/types to maintain public API.
type OutOfBoundsError = types.OutOfBoundsError

// NotAnArchiveError is an alias to types.NotAnArchiveError.
type NotAnArchiveError = types.NotAnArchiveError

// MemberNotFoundError is an alias to types.MemberNotFoundError.
type MemberNotFoundError = types.MemberNotFoundError

// CorruptedFileError is an alias to types.CorruptedFileError.
type CorruptedFileError = types.CorruptedFileError

// UnsupportedVersionError is an alias to types.UnsupportedVersionError.
type UnsupportedVersionError = types.UnsupportedVersionError

// MalformedDetailsError is an alias to types.MalformedDetailsError.
type MalformedDetailsError = types.MalformedDetailsError

// SkipKind is an alias to types.SkipKind.
type SkipKind = types.SkipKind

// Re-export all skip kinds.
const (
	SkipIO                 = types.SkipIO
	SkipNotAnArchive       = types.SkipNotAnArchive
	SkipUnsupportedVersion = types.SkipUnsupportedVersion
	SkipMalformedDetails   = types.SkipMalformedDetails
)

// Classify maps a decode error onto the kind of skip it causes.
func Classify(err error) SkipKind {
	return types.Classify(err)
}
