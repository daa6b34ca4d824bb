package protocol

import "github.com/simonhull/replaysort/internal/types"

// Build range of the first generation.
const (
	wolMinBuild = 10000
	wolMaxBuild = 24943
)

// wolPlayer is one entry of the player list as written by the first
// generation clients.
type wolPlayer struct {
	Name     []byte
	Toon     types.Toon
	Race     []byte
	Control  int64
	TeamID   int64
	Handicap int64
	Observe  int64
	Result   int64
}

func readWolPlayer(r *fieldReader) wolPlayer {
	p := wolPlayer{
		Name:     r.blob(0, "m_name", true),
		Race:     r.blob(2, "m_race", true),
		Control:  r.int(4, "m_control", false),
		TeamID:   r.int(5, "m_teamId", false),
		Handicap: r.int(6, "m_handicap", false),
		Observe:  r.int(7, "m_observe", false),
		Result:   r.int(8, "m_result", false),
	}
	if tv, ok := r.sub(1, "m_toon", false); ok {
		t, err := decodeToon(tv)
		if err != nil && r.err == nil {
			r.err = err
		}
		p.Toon = t
	}
	return p
}

func (p wolPlayer) normalize() types.RawPlayer {
	return types.RawPlayer{
		Name:    p.Name,
		Race:    p.Race,
		Toon:    p.Toon,
		TeamID:  p.TeamID,
		Control: p.Control,
		Observe: p.Observe,
		Result:  p.Result,
	}
}

// wolDetails is the details record as written by the first generation.
type wolDetails struct {
	commonDetails
	Players           []wolPlayer
	MapFileName       []byte
	MiniSave          bool
	GameSpeed         int64
	DefaultDifficulty int64
}

func decodeWolDetails(data []byte) (wolDetails, error) {
	v, err := decodeDetailsRecord(data)
	if err != nil {
		return wolDetails{}, err
	}
	r := newFieldReader(v, "details")
	d := wolDetails{
		commonDetails:     readCommonDetails(r),
		MapFileName:       r.blob(9, "m_mapFileName", false),
		MiniSave:          r.bool(11, "m_miniSave", false),
		GameSpeed:         r.int(12, "m_gameSpeed", false),
		DefaultDifficulty: r.int(13, "m_defaultDifficulty", false),
	}
	if d.Players, err = readPlayers(r, readWolPlayer); err != nil {
		return wolDetails{}, err
	}
	if err := r.Err(); err != nil {
		return wolDetails{}, malformed("details record", err)
	}
	return d, nil
}

func (d wolDetails) normalize() types.Details {
	out := d.commonDetails.normalize()
	out.MapFileName = d.MapFileName
	out.GameSpeed = types.GameSpeed(d.GameSpeed)
	out.Players = make([]types.RawPlayer, len(d.Players))
	for i, p := range d.Players {
		out.Players[i] = p.normalize()
	}
	return out
}

type wingsOfLiberty struct{}

func (wingsOfLiberty) Name() string { return "wol" }

func (wingsOfLiberty) DecodeHeader(data []byte) (types.Header, error) {
	return decodeHeader(data)
}

func (wingsOfLiberty) DecodeDetails(data []byte) (types.Details, error) {
	d, err := decodeWolDetails(data)
	if err != nil {
		return types.Details{}, err
	}
	return d.normalize(), nil
}
