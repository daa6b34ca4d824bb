package protocol

import (
	"fmt"

	"github.com/simonhull/replaysort/internal/types"
	"github.com/simonhull/replaysort/internal/versioned"
)

// fieldReader pulls tagged fields out of a decoded struct with deferred error
// checking: after the first failure every read returns a zero value.
type fieldReader struct {
	v    versioned.Value
	what string
	err  error
}

func newFieldReader(v versioned.Value, what string) *fieldReader {
	r := &fieldReader{v: v.Unwrap(), what: what}
	if r.v.Kind != versioned.KindStruct {
		r.err = fmt.Errorf("%s: expected struct, got %s", what, r.v.Kind)
	}
	return r
}

func (r *fieldReader) fail(tag int64, name string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%s.%s (tag %d): %w", r.what, name, tag, err)
	}
}

// lookup returns the field with optionals unwrapped. Missing required fields
// record an error; missing optional ones report ok == false.
func (r *fieldReader) lookup(tag int64, name string, required bool) (versioned.Value, bool) {
	if r.err != nil {
		return versioned.Value{}, false
	}
	f, ok := r.v.Field(tag)
	if ok {
		f = f.Unwrap()
		ok = f.Kind != versioned.KindOptional // absent optional
	}
	if !ok && required {
		r.fail(tag, name, fmt.Errorf("missing"))
	}
	return f, ok
}

func (r *fieldReader) int(tag int64, name string, required bool) int64 {
	f, ok := r.lookup(tag, name, required)
	if !ok {
		return 0
	}
	n, err := f.Int()
	if err != nil {
		r.fail(tag, name, err)
	}
	return n
}

func (r *fieldReader) blob(tag int64, name string, required bool) []byte {
	f, ok := r.lookup(tag, name, required)
	if !ok {
		return nil
	}
	b, err := f.Blob()
	if err != nil {
		r.fail(tag, name, err)
	}
	return b
}

func (r *fieldReader) bool(tag int64, name string, required bool) bool {
	f, ok := r.lookup(tag, name, required)
	if !ok {
		return false
	}
	b, err := f.Bool()
	if err != nil {
		r.fail(tag, name, err)
	}
	return b
}

func (r *fieldReader) fourcc(tag int64, name string) string {
	f, ok := r.lookup(tag, name, false)
	if !ok {
		return ""
	}
	s, err := f.FourCC()
	if err != nil {
		r.fail(tag, name, err)
	}
	return s
}

// array returns the elements of an array field; a missing optional array
// is nil.
func (r *fieldReader) array(tag int64, name string, required bool) []versioned.Value {
	f, ok := r.lookup(tag, name, required)
	if !ok {
		return nil
	}
	elems, err := f.Array()
	if err != nil {
		r.fail(tag, name, err)
	}
	return elems
}

func (r *fieldReader) sub(tag int64, name string, required bool) (versioned.Value, bool) {
	return r.lookup(tag, name, required)
}

func (r *fieldReader) Err() error {
	return r.err
}

// decodeToon reads the account identifier, identical in every generation.
func decodeToon(v versioned.Value) (types.Toon, error) {
	r := newFieldReader(v, "m_toon")
	t := types.Toon{
		Region:    uint8(r.int(0, "m_region", true)),
		ProgramID: r.fourcc(1, "m_programId"),
		Realm:     uint32(r.int(2, "m_realm", true)),
		ID:        uint64(r.int(4, "m_id", true)),
	}
	return t, r.Err()
}

// malformed wraps a details decoding failure.
func malformed(reason string, err error) error {
	return &types.MalformedDetailsError{Reason: reason, Err: err}
}

// decodeDetailsRecord decodes the wire bytes of a details member into a struct value.
func decodeDetailsRecord(data []byte) (versioned.Value, error) {
	v, err := versioned.Decode(data)
	if err != nil {
		return versioned.Value{}, malformed("undecodable record", err)
	}
	if v.Kind != versioned.KindStruct {
		return versioned.Value{}, malformed(fmt.Sprintf("record is a %s, not a struct", v.Kind), nil)
	}
	return v, nil
}

// commonDetails holds the details fields stored under the same tags by every
// generation.
type commonDetails struct {
	Title           []byte
	Difficulty      []byte
	IsBlizzardMap   bool
	TimeUTC         int64
	TimeLocalOffset int64
	Description     []byte
	ImageFilePath   []byte
}

func readCommonDetails(r *fieldReader) commonDetails {
	return commonDetails{
		Title:           r.blob(1, "m_title", true),
		Difficulty:      r.blob(2, "m_difficulty", false),
		IsBlizzardMap:   r.bool(4, "m_isBlizzardMap", true),
		TimeUTC:         r.int(5, "m_timeUTC", false),
		TimeLocalOffset: r.int(6, "m_timeLocalOffset", false),
		Description:     r.blob(7, "m_description", false),
		ImageFilePath:   r.blob(8, "m_imageFilePath", false),
	}
}

func (c commonDetails) normalize() types.Details {
	return types.Details{
		Title:           c.Title,
		IsBlizzardMap:   c.IsBlizzardMap,
		TimeUTC:         c.TimeUTC,
		TimeLocalOffset: c.TimeLocalOffset,
	}
}

// readPlayers decodes the player list with the generation's entry reader.
// A missing list, or a first or second entry that fails to decode, fails the
// record. Later entries that fail to decode are left out.
func readPlayers[P any](r *fieldReader, read func(*fieldReader) P) ([]P, error) {
	elems := r.array(0, "m_playerList", true)
	if err := r.Err(); err != nil {
		return nil, malformed("player list", err)
	}
	players := make([]P, 0, len(elems))
	for i, v := range elems {
		pr := newFieldReader(v, fmt.Sprintf("m_playerList[%d]", i))
		p := read(pr)
		if err := pr.Err(); err != nil {
			if i < 2 {
				return nil, malformed("player entry", err)
			}
			continue
		}
		players = append(players, p)
	}
	return players, nil
}
