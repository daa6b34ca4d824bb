package protocol

import "github.com/simonhull/replaysort/internal/types"

// Build range of the second generation.
const (
	hotsMinBuild = 24944
	hotsMaxBuild = 39575
)

// hotsPlayer adds the working set slot to the first generation entry.
type hotsPlayer struct {
	wolPlayer
	WorkingSetSlotID int64
}

func readHotsPlayer(r *fieldReader) hotsPlayer {
	return hotsPlayer{
		wolPlayer:        readWolPlayer(r),
		WorkingSetSlotID: r.int(9, "m_workingSetSlotId", false),
	}
}

// hotsDetails inserts the campaign index at tag 9, shifting every later
// field by one.
type hotsDetails struct {
	commonDetails
	Players           []hotsPlayer
	CampaignIndex     int64
	MapFileName       []byte
	MiniSave          bool
	GameSpeed         int64
	DefaultDifficulty int64
	ModPaths          [][]byte
}

// readHotsFields reads everything but the player list, which later
// generations replace with their own entry type.
func readHotsFields(r *fieldReader) hotsDetails {
	d := hotsDetails{
		commonDetails:     readCommonDetails(r),
		CampaignIndex:     r.int(9, "m_campaignIndex", false),
		MapFileName:       r.blob(10, "m_mapFileName", false),
		MiniSave:          r.bool(12, "m_miniSave", false),
		GameSpeed:         r.int(13, "m_gameSpeed", false),
		DefaultDifficulty: r.int(14, "m_defaultDifficulty", false),
	}
	for _, mv := range r.array(15, "m_modPaths", false) {
		if b, err := mv.Unwrap().Blob(); err == nil {
			d.ModPaths = append(d.ModPaths, b)
		}
	}
	return d
}

func decodeHotsDetails(data []byte) (hotsDetails, error) {
	v, err := decodeDetailsRecord(data)
	if err != nil {
		return hotsDetails{}, err
	}
	r := newFieldReader(v, "details")
	d := readHotsFields(r)
	if d.Players, err = readPlayers(r, readHotsPlayer); err != nil {
		return hotsDetails{}, err
	}
	if err := r.Err(); err != nil {
		return hotsDetails{}, malformed("details record", err)
	}
	return d, nil
}

// normalizeFields converts everything but the player list.
func (d hotsDetails) normalizeFields() types.Details {
	out := d.commonDetails.normalize()
	out.MapFileName = d.MapFileName
	out.GameSpeed = types.GameSpeed(d.GameSpeed)
	return out
}

func (d hotsDetails) normalize() types.Details {
	out := d.normalizeFields()
	out.Players = make([]types.RawPlayer, len(d.Players))
	for i, p := range d.Players {
		out.Players[i] = p.normalize()
	}
	return out
}

type heartOfTheSwarm struct{}

func (heartOfTheSwarm) Name() string { return "hots" }

func (heartOfTheSwarm) DecodeHeader(data []byte) (types.Header, error) {
	return decodeHeader(data)
}

func (heartOfTheSwarm) DecodeDetails(data []byte) (types.Details, error) {
	d, err := decodeHotsDetails(data)
	if err != nil {
		return types.Details{}, err
	}
	return d.normalize(), nil
}
