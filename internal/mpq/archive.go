package mpq

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/icza/mpq"

	"github.com/simonhull/replaysort/internal/binary"
	"github.com/simonhull/replaysort/internal/types"
)

// Layout limits checked before the archive is handed to the decoder.
const (
	userDataFieldsLen = 12 // magic, size, header offset
	tableEntryLen     = 16
	maxSectorShift    = 15
)

// Archive is an opened MPQ archive.
type Archive struct {
	file *os.File // set when opened by path
	m    *mpq.MPQ
	path string

	format types.Format
	header []byte
}

// Open opens the archive at path. The returned Archive must be closed.
//
// A file that exists but is not a structurally valid MPQ archive yields
// *types.NotAnArchiveError.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	a, err := New(f, stat.Size(), path)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.file = f
	return a, nil
}

// New reads an archive from r, which holds size bytes. path is only used in
// error messages. Close on the result does not close r.
func New(r io.ReaderAt, size int64, path string) (*Archive, error) {
	format, err := types.DetectFormat(r, size, path)
	if err != nil {
		return nil, err
	}

	a := &Archive{path: path, format: format}

	sr := binary.NewSafeReader(r, size, path)
	contentSize, err := a.checkLayout(sr)
	if err != nil {
		return nil, err
	}

	m, err := a.decode(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, a.notArchive("invalid archive structure", err)
	}
	a.m = m

	if ud := m.UserData(); ud != nil {
		a.header = ud[4 : 4+contentSize]
	}
	return a, nil
}

// decode runs the archive decoder, turning its panics on hostile input
// into errors.
func (a *Archive) decode(in io.ReadSeeker) (m *mpq.MPQ, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("%v", r)
		}
	}()
	return mpq.New(in)
}

func (a *Archive) notArchive(reason string, err error) error {
	return &types.NotAnArchiveError{Path: a.path, Reason: reason, Err: err}
}

// checkLayout validates the user data block and the archive header against
// the file size, so that nothing is allocated from counts the file cannot
// hold. It returns the length of the user data content.
func (a *Archive) checkLayout(sr *binary.SafeReader) (uint32, error) {
	var archiveOffset int64
	var contentSize uint32

	if a.format == types.FormatReplay {
		cr := binary.NewChainReader(binary.NewReader(sr, 4))
		udSize := binary.ReadChained[uint32](cr, "user data size")
		headerOffset := binary.ReadChained[uint32](cr, "archive header offset")
		contentSize = binary.ReadChained[uint32](cr, "user data header size")
		if err := cr.Error(); err != nil {
			return 0, a.notArchive("truncated user data block", err)
		}
		switch {
		case int64(contentSize)+4 > int64(udSize):
			return 0, a.notArchive(fmt.Sprintf("user data content of %d bytes exceeds block of %d", contentSize, udSize), nil)
		case userDataFieldsLen+int64(udSize) > sr.Size():
			return 0, a.notArchive(fmt.Sprintf("user data block of %d bytes exceeds file size", udSize), nil)
		case int64(headerOffset) < userDataFieldsLen || int64(headerOffset) >= sr.Size():
			return 0, a.notArchive(fmt.Sprintf("archive header offset %d out of range", headerOffset), nil)
		}
		archiveOffset = int64(headerOffset)
	}

	var magic [4]byte
	if err := sr.ReadAt(magic[:], archiveOffset, "archive header magic"); err != nil {
		return 0, a.notArchive("archive header not found", err)
	}
	if magic != types.HeaderMagic {
		return 0, a.notArchive(fmt.Sprintf("no archive header at offset %d", archiveOffset), nil)
	}

	cr := binary.NewChainReader(binary.NewReader(sr, archiveOffset+4))
	_ = binary.ReadChained[uint32](cr, "header size")
	_ = binary.ReadChained[uint32](cr, "archive size")
	_ = binary.ReadChained[uint16](cr, "format version")
	sectorShift := binary.ReadChained[uint16](cr, "sector size shift")
	_ = binary.ReadChained[uint32](cr, "hash table offset")
	_ = binary.ReadChained[uint32](cr, "block table offset")
	hashEntries := binary.ReadChained[uint32](cr, "hash table entries")
	blockEntries := binary.ReadChained[uint32](cr, "block table entries")
	if err := cr.Error(); err != nil {
		return 0, a.notArchive("truncated archive header", err)
	}

	switch {
	case sectorShift > maxSectorShift:
		return 0, a.notArchive(fmt.Sprintf("sector size shift %d too large", sectorShift), nil)
	case hashEntries == 0 || hashEntries&(hashEntries-1) != 0:
		return 0, a.notArchive(fmt.Sprintf("hash table size %d is not a power of two", hashEntries), nil)
	case int64(hashEntries)*tableEntryLen > sr.Size() || int64(blockEntries)*tableEntryLen > sr.Size():
		return 0, a.notArchive("table sizes exceed file size", nil)
	}
	return contentSize, nil
}

// Path returns the path the archive was opened with.
func (a *Archive) Path() string {
	return a.path
}

// Format reports whether the archive carried a user data block.
func (a *Archive) Format() types.Format {
	return a.format
}

// HeaderSegment returns the user data content preceding the archive: for
// replays, the serialized replay header. It is nil for bare archives.
func (a *Archive) HeaderSegment() []byte {
	return a.header
}

// FilesCount returns the number of members in the block table.
func (a *Archive) FilesCount() int {
	return int(a.m.FilesCount())
}

// ReadFile returns the decompressed content of the member called name.
// Names are case-insensitive.
//
// *types.MemberNotFoundError is returned if there is no such member and
// *types.CorruptedFileError if its storage is broken or not supported.
func (a *Archive) ReadFile(name string) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, &types.CorruptedFileError{Path: a.path, Reason: name + ": unreadable member", Err: fmt.Errorf("%v", r)}
		}
	}()

	data, err = a.m.FileByName(name)
	if err != nil {
		reason := name + ": unreadable member"
		if errors.Is(err, mpq.ErrInvalidArchive) {
			reason = name + ": unsupported or damaged storage"
		}
		return nil, &types.CorruptedFileError{Path: a.path, Reason: reason, Err: err}
	}
	// The decoder reports a missing member as a nil slice; empty members
	// come back as an empty, non-nil one.
	if data == nil {
		return nil, &types.MemberNotFoundError{Path: a.path, Member: name}
	}
	return data, nil
}

// Files returns member names listed in the "(listfile)" member.
// Archives without a listfile yield *types.MemberNotFoundError.
func (a *Archive) Files() ([]string, error) {
	data, err := a.ReadFile("(listfile)")
	if err != nil {
		return nil, err
	}

	fields := strings.FieldsFunc(string(data), func(r rune) bool {
		return r == '\r' || r == '\n' || r == ';'
	})
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			names = append(names, f)
		}
	}
	return names, nil
}

// Close releases the file handle if the archive was opened by path.
func (a *Archive) Close() error {
	if a.file != nil {
		return a.file.Close()
	}
	return nil
}
