package types

import (
	"errors"
	"fmt"

	"github.com/simonhull/replaysort/internal/binary"
)

// OutOfBoundsError is returned when a structure points outside the file.
type OutOfBoundsError = binary.OutOfBoundsError

// NotAnArchiveError is returned when a file fails MPQ container validation.
// Any non-replay file sitting in a replay folder produces this error.
type NotAnArchiveError struct {
	Path   string
	Reason string
	Err    error
}

func (e *NotAnArchiveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: not an MPQ archive: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: not an MPQ archive: %s", e.Path, e.Reason)
}

func (e *NotAnArchiveError) Unwrap() error { return e.Err }

// MemberNotFoundError is returned when a named file is absent from an archive.
type MemberNotFoundError struct {
	Path   string
	Member string
}

func (e *MemberNotFoundError) Error() string {
	return fmt.Sprintf("%s: archive member %q not found", e.Path, e.Member)
}

// CorruptedFileError is returned when archive structure is invalid past the
// signature check, or a member uses a storage method that is not supported.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
	Err    error
}

func (e *CorruptedFileError) Error() string {
	msg := fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CorruptedFileError) Unwrap() error { return e.Err }

// UnsupportedVersionError is returned when no schema is registered for the
// base build that produced a replay.
type UnsupportedVersionError struct {
	Path      string
	BaseBuild uint32
	Patch     string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("%s: unsupported replay version %s (base build %d)", e.Path, e.Patch, e.BaseBuild)
}

// MalformedDetailsError is returned when the details record is present but
// cannot be decoded into two named players with races.
type MalformedDetailsError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MalformedDetailsError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed replay details: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: malformed replay details: %s", e.Path, e.Reason)
}

func (e *MalformedDetailsError) Unwrap() error { return e.Err }

// SkipKind classifies why a file produced no metadata.
type SkipKind int

const (
	// SkipIO covers filesystem failures while reading a candidate file.
	SkipIO SkipKind = iota
	// SkipNotAnArchive means the file is not an MPQ container.
	SkipNotAnArchive
	// SkipUnsupportedVersion means no schema matches the replay's base build.
	SkipUnsupportedVersion
	// SkipMalformedDetails means the details record was unusable.
	SkipMalformedDetails
)

func (k SkipKind) String() string {
	switch k {
	case SkipNotAnArchive:
		return "not-an-archive"
	case SkipUnsupportedVersion:
		return "unsupported-version"
	case SkipMalformedDetails:
		return "malformed-details"
	default:
		return "io"
	}
}

// Classify maps a decode error onto a SkipKind.
//
// Archive members that are missing, corrupted or out of bounds are reported as
// malformed details: the container was valid but the replay content was not.
func Classify(err error) SkipKind {
	var (
		notArchive  *NotAnArchiveError
		unsupported *UnsupportedVersionError
		malformed   *MalformedDetailsError
		missing     *MemberNotFoundError
		corrupted   *CorruptedFileError
		bounds      *OutOfBoundsError
	)
	switch {
	case errors.As(err, &notArchive):
		return SkipNotAnArchive
	case errors.As(err, &unsupported):
		return SkipUnsupportedVersion
	case errors.As(err, &malformed), errors.As(err, &missing),
		errors.As(err, &corrupted), errors.As(err, &bounds):
		return SkipMalformedDetails
	default:
		return SkipIO
	}
}
