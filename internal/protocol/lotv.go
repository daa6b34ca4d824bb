package protocol

import "github.com/simonhull/replaysort/internal/types"

// Build range of the third generation. The upper bound is the newest build
// checked against real replays.
const (
	lotvMinBuild = 39576
	lotvMaxBuild = 94137
)

// lotvPlayer adds the commander/hero link to the second generation entry.
type lotvPlayer struct {
	hotsPlayer
	Hero []byte
}

func readLotvPlayer(r *fieldReader) lotvPlayer {
	return lotvPlayer{
		hotsPlayer: readHotsPlayer(r),
		Hero:       r.blob(10, "m_hero", false),
	}
}

// lotvDetails appends two lobby flags to the second generation record.
type lotvDetails struct {
	hotsDetails
	Players                []lotvPlayer
	RestartAsTransitionMap bool
	DisableRecoverGame     bool
}

func decodeLotvDetails(data []byte) (lotvDetails, error) {
	v, err := decodeDetailsRecord(data)
	if err != nil {
		return lotvDetails{}, err
	}
	r := newFieldReader(v, "details")
	d := lotvDetails{
		hotsDetails:            readHotsFields(r),
		RestartAsTransitionMap: r.bool(16, "m_restartAsTransitionMap", false),
		DisableRecoverGame:     r.bool(17, "m_disableRecoverGame", false),
	}
	if d.Players, err = readPlayers(r, readLotvPlayer); err != nil {
		return lotvDetails{}, err
	}
	if err := r.Err(); err != nil {
		return lotvDetails{}, malformed("details record", err)
	}
	return d, nil
}

func (d lotvDetails) normalize() types.Details {
	out := d.normalizeFields()
	out.Players = make([]types.RawPlayer, len(d.Players))
	for i, p := range d.Players {
		out.Players[i] = p.normalize()
	}
	return out
}

type legacyOfTheVoid struct{}

func (legacyOfTheVoid) Name() string { return "lotv" }

func (legacyOfTheVoid) DecodeHeader(data []byte) (types.Header, error) {
	return decodeHeader(data)
}

func (legacyOfTheVoid) DecodeDetails(data []byte) (types.Details, error) {
	d, err := decodeLotvDetails(data)
	if err != nil {
		return types.Details{}, err
	}
	return d.normalize(), nil
}
