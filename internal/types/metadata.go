// Package types provides the core data structures shared by the archive
// reader, the schema decoders and the public API.
//
// Header and Details are the normalized forms of the two decoded replay
// records; Metadata is the final per-file output.
package types

import (
	"fmt"
	"time"
)

// VersionInfo identifies the game client that recorded a replay.
type VersionInfo struct {
	Flags     int64
	Major     int64
	Minor     int64
	Revision  int64
	Build     uint32
	BaseBuild uint32
}

// Patch formats the version as "major.minor.revision".
func (v VersionInfo) Patch() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Revision)
}

// String includes the build numbers, e.g. "4.12.1.80188 (base 80188)".
func (v VersionInfo) String() string {
	return fmt.Sprintf("%s.%d (base %d)", v.Patch(), v.Build, v.BaseBuild)
}

// Header is the decoded replay header stored in the archive's user data.
// Its layout has been stable across all client versions.
type Header struct {
	Signature        string
	Version          VersionInfo
	Type             int64
	ElapsedGameLoops uint32
	UseScaledTime    bool
	DataBuildNum     uint32
}

// Toon identifies a battle.net account.
type Toon struct {
	Region    uint8
	ProgramID string
	Realm     uint32
	ID        uint64
}

// Handle returns the conventional "region-S2-realm-id" form.
// The zero Toon has an empty handle.
func (t Toon) Handle() string {
	if t.ID == 0 {
		return ""
	}
	return fmt.Sprintf("%d-S2-%d-%d", t.Region, t.Realm, t.ID)
}

// Player results as recorded in the details record.
const (
	ResultUnknown int64 = 0
	ResultWin     int64 = 1
	ResultLoss    int64 = 2
	ResultTie     int64 = 3
)

// RawPlayer is a player entry as decoded, before text normalization.
type RawPlayer struct {
	Name    []byte
	Race    []byte
	Toon    Toon
	TeamID  int64
	Control int64
	Observe int64
	Result  int64
}

// GameSpeed is the lobby speed setting.
type GameSpeed int64

// Game speed values.
const (
	SpeedSlower GameSpeed = iota
	SpeedSlow
	SpeedNormal
	SpeedFast
	SpeedFaster
)

func (s GameSpeed) String() string {
	switch s {
	case SpeedSlower:
		return "Slower"
	case SpeedSlow:
		return "Slow"
	case SpeedNormal:
		return "Normal"
	case SpeedFast:
		return "Fast"
	case SpeedFaster:
		return "Faster"
	default:
		return fmt.Sprintf("GameSpeed(%d)", int64(s))
	}
}

// Details is the normalized details record. Every schema generation adapts
// its own record into this shape.
type Details struct {
	Title           []byte
	IsBlizzardMap   bool
	Players         []RawPlayer
	TimeUTC         int64 // Windows FILETIME, 100ns ticks since 1601-01-01
	TimeLocalOffset int64 // 100ns ticks
	GameSpeed       GameSpeed
	MapFileName     []byte
}

// filetimeEpochDelta is the number of 100ns ticks between 1601-01-01 and 1970-01-01.
const filetimeEpochDelta = 116444736000000000

// PlayedAt converts TimeUTC to a time.Time. Zero if the record carries no time.
func (d Details) PlayedAt() time.Time {
	if d.TimeUTC <= filetimeEpochDelta {
		return time.Time{}
	}
	ticks := d.TimeUTC - filetimeEpochDelta
	return time.Unix(ticks/1e7, (ticks%1e7)*100).UTC()
}

// Player is a normalized player entry.
type Player struct {
	Name   string
	Race   string
	Toon   Toon
	TeamID int64
	Result int64
}

// Metadata is the per-replay output record. It is only produced for valid
// archives with a registered schema and at least two decodable players.
type Metadata struct {
	// Map title as shown in the lobby, invalid UTF-8 replaced by U+FFFD.
	MapName string

	// IsOfficialMap is true for vendor-curated maps, false for custom maps.
	IsOfficialMap bool

	// The first two entries of Players.
	PlayerOne Player
	PlayerTwo Player

	// The decodable entries of the details player list, in record order.
	// Text of entries after the first two may carry U+FFFD replacements.
	Players []Player

	// Patch is Version formatted as "major.minor.revision".
	Patch   string
	Version VersionInfo

	// Path the replay was decoded from and its base name.
	SourcePath string
	FileName   string

	GameLoops uint32
	GameSpeed GameSpeed
	PlayedAt  time.Time
}

// loopsPerGameSecond is the simulation rate in game time.
const loopsPerGameSecond = 16

// Duration returns the match length in game time.
func (m *Metadata) Duration() time.Duration {
	return time.Duration(m.GameLoops) * time.Second / loopsPerGameSecond
}
