// Package decoder turns the raw header and details records of a replay into
// a types.Metadata.
package decoder

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/simonhull/replaysort/internal/registry"
	"github.com/simonhull/replaysort/internal/types"
)

// DetailsMember is the archive member holding the details record.
const DetailsMember = "replay.details"

// clanTagMarker separates a clan tag from the player name in rich-text names.
const clanTagMarker = "&gt;<sp/>"

// Source is the subset of an opened archive the decoder needs.
type Source interface {
	Path() string
	HeaderSegment() []byte
	ReadFile(name string) ([]byte, error)
}

// DecodeArchive decodes the replay held by src.
//
// The details member is only read once the header resolved a schema, so a
// replay from an unknown client reports UnsupportedVersion even if its
// details would not have decoded either.
func DecodeArchive(src Source, reg *registry.Registry) (*types.Metadata, error) {
	path := src.Path()

	header, p, err := resolve(src.HeaderSegment(), path, reg)
	if err != nil {
		return nil, err
	}

	details, err := src.ReadFile(DetailsMember)
	if err != nil {
		return nil, err
	}
	return build(header, p, details, path)
}

// Decode decodes a replay from its header blob and details member bytes.
func Decode(header, details []byte, path string, reg *registry.Registry) (*types.Metadata, error) {
	h, p, err := resolve(header, path, reg)
	if err != nil {
		return nil, err
	}
	return build(h, p, details, path)
}

// resolve decodes the header with the newest schema and looks up the schema
// registered for its base build.
func resolve(data []byte, path string, reg *registry.Registry) (types.Header, registry.Protocol, error) {
	if len(data) == 0 {
		return types.Header{}, nil, &types.CorruptedFileError{Path: path, Reason: "archive carries no replay header"}
	}

	latest, ok := reg.Latest()
	if !ok {
		return types.Header{}, nil, fmt.Errorf("decode %s: schema registry is empty", path)
	}
	h, err := latest.DecodeHeader(data)
	if err != nil {
		return types.Header{}, nil, withPath(err, path)
	}

	p, ok := reg.Lookup(h.Version.BaseBuild)
	if !ok {
		return types.Header{}, nil, &types.UnsupportedVersionError{
			Path:      path,
			BaseBuild: h.Version.BaseBuild,
			Patch:     h.Version.Patch(),
		}
	}
	return h, p, nil
}

func build(h types.Header, p registry.Protocol, data []byte, path string) (*types.Metadata, error) {
	d, err := p.DecodeDetails(data)
	if err != nil {
		return nil, withPath(err, path)
	}

	if len(d.Players) < 2 {
		return nil, &types.MalformedDetailsError{
			Path:   path,
			Reason: fmt.Sprintf("%d player entries, need at least 2", len(d.Players)),
		}
	}

	// Only the first two entries decide whether the replay can be sorted.
	// Later ones (teammates, observers, computer slots) are kept with their
	// text repaired.
	players := make([]types.Player, len(d.Players))
	for i, rp := range d.Players {
		if i >= 2 {
			players[i] = repairPlayer(rp)
			continue
		}
		pl, err := normalizePlayer(rp)
		if err != nil {
			return nil, &types.MalformedDetailsError{
				Path:   path,
				Reason: fmt.Sprintf("player %d", i),
				Err:    err,
			}
		}
		players[i] = pl
	}

	return &types.Metadata{
		MapName:       strings.ToValidUTF8(string(d.Title), "\uFFFD"),
		IsOfficialMap: d.IsBlizzardMap,
		PlayerOne:     players[0],
		PlayerTwo:     players[1],
		Players:       players,
		Patch:         h.Version.Patch(),
		Version:       h.Version,
		SourcePath:    path,
		FileName:      filepath.Base(path),
		GameLoops:     h.ElapsedGameLoops,
		GameSpeed:     d.GameSpeed,
		PlayedAt:      d.PlayedAt(),
	}, nil
}

func normalizePlayer(rp types.RawPlayer) (types.Player, error) {
	if !utf8.Valid(rp.Name) {
		return types.Player{}, errors.New("name is not valid UTF-8")
	}
	if !utf8.Valid(rp.Race) {
		return types.Player{}, errors.New("race is not valid UTF-8")
	}
	if len(rp.Race) == 0 {
		return types.Player{}, errors.New("empty race")
	}
	return types.Player{
		Name:   StripClanTag(string(rp.Name)),
		Race:   string(rp.Race),
		Toon:   rp.Toon,
		TeamID: rp.TeamID,
		Result: rp.Result,
	}, nil
}

// repairPlayer normalizes an entry that is not required to be well formed.
func repairPlayer(rp types.RawPlayer) types.Player {
	return types.Player{
		Name:   StripClanTag(strings.ToValidUTF8(string(rp.Name), "\uFFFD")),
		Race:   strings.ToValidUTF8(string(rp.Race), "\uFFFD"),
		Toon:   rp.Toon,
		TeamID: rp.TeamID,
		Result: rp.Result,
	}
}

// StripClanTag returns the text after the first clan tag marker, or name
// unchanged when it has none.
func StripClanTag(name string) string {
	if _, after, found := strings.Cut(name, clanTagMarker); found {
		return after
	}
	return name
}

// withPath fills in the file path on errors raised below the archive level.
func withPath(err error, path string) error {
	var (
		malformed *types.MalformedDetailsError
		corrupted *types.CorruptedFileError
	)
	switch {
	case errors.As(err, &malformed) && malformed.Path == "":
		malformed.Path = path
	case errors.As(err, &corrupted) && corrupted.Path == "":
		corrupted.Path = path
	}
	return err
}
