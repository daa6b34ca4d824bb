package replaytest

import (
	"os"
	"path/filepath"
	"testing"

	v "github.com/simonhull/replaysort/internal/versioned"
)

// First builds of the second and third generation layouts.
const (
	hotsFirstBuild = 24944
	lotvFirstBuild = 39576
)

// Player is one entry of a built details record.
type Player struct {
	Name   string
	Race   string
	Region uint8
	Realm  uint32
	ID     uint64
	TeamID int64
	Result int64
}

// Replay describes a replay file to build.
type Replay struct {
	BaseBuild uint32
	Major     int64
	Minor     int64
	Revision  int64

	Title    string
	Official bool
	Players  []Player

	GameLoops uint32
	GameSpeed int64
	TimeUTC   int64

	// DetailsData replaces the encoded details record when set.
	DetailsData []byte

	// OmitDetails leaves "replay.details" out of the archive.
	OmitDetails bool
}

// NewReplay returns a two player Terran versus Zerg replay on an official
// map, with a client version matching the generation of baseBuild.
func NewReplay(baseBuild uint32) *Replay {
	r := &Replay{
		BaseBuild: baseBuild,
		Title:     "Akilon Wastes LE",
		Official:  true,
		Players: []Player{
			{Name: "Alice", Race: "Terran", Region: 1, Realm: 1, ID: 1001, TeamID: 0, Result: 1},
			{Name: "Bob", Race: "Zerg", Region: 1, Realm: 1, ID: 1002, TeamID: 1, Result: 2},
		},
		GameLoops: 16 * 60 * 12,
		GameSpeed: 4,
		TimeUTC:   133000000000000000,
	}
	switch {
	case baseBuild < hotsFirstBuild:
		r.Major, r.Minor, r.Revision = 1, 5, 4
	case baseBuild < lotvFirstBuild:
		r.Major, r.Minor, r.Revision = 2, 1, 9
	default:
		r.Major, r.Minor, r.Revision = 4, 12, 1
	}
	return r
}

// Header encodes the replay header record.
func (r *Replay) Header() []byte {
	return v.Encode(v.Struct(
		v.F(0, v.String("StarCraft II replay\x1b11")),
		v.F(1, v.Struct(
			v.F(0, v.Int(1)),
			v.F(1, v.Int(r.Major)),
			v.F(2, v.Int(r.Minor)),
			v.F(3, v.Int(r.Revision)),
			v.F(4, v.Int(int64(r.BaseBuild))),
			v.F(5, v.Int(int64(r.BaseBuild))),
		)),
		v.F(2, v.Int(2)),
		v.F(3, v.Int(int64(r.GameLoops))),
		v.F(4, v.Bool(true)),
		v.F(6, v.Int(int64(r.BaseBuild))),
	))
}

func (r *Replay) player(i int, p Player) v.Value {
	fields := []v.Field{
		v.F(0, v.String(p.Name)),
		v.F(1, v.Struct(
			v.F(0, v.Int(int64(p.Region))),
			v.F(1, v.FourCC("S2")),
			v.F(2, v.Int(int64(p.Realm))),
			v.F(4, v.Int(int64(p.ID))),
		)),
		v.F(2, v.String(p.Race)),
		v.F(3, v.Struct(v.F(0, v.Int(255)), v.F(1, v.Int(180)), v.F(2, v.Int(20)), v.F(3, v.Int(30)))),
		v.F(4, v.Int(2)),
		v.F(5, v.Int(p.TeamID)),
		v.F(6, v.Int(100)),
		v.F(7, v.Int(0)),
		v.F(8, v.Int(p.Result)),
	}
	if r.BaseBuild >= hotsFirstBuild {
		fields = append(fields, v.F(9, v.Some(v.Int(int64(i)))))
	}
	if r.BaseBuild >= lotvFirstBuild {
		fields = append(fields, v.F(10, v.String("")))
	}
	return v.Struct(fields...)
}

// Details encodes the details record in the layout of the replay's build.
func (r *Replay) Details() []byte {
	if r.DetailsData != nil {
		return r.DetailsData
	}

	players := make([]v.Value, len(r.Players))
	for i, p := range r.Players {
		players[i] = r.player(i, p)
	}

	fields := []v.Field{
		v.F(0, v.Some(v.Array(players...))),
		v.F(1, v.String(r.Title)),
		v.F(2, v.String("")),
		v.F(3, v.Struct(v.F(0, v.String("Minimap.tga")))),
		v.F(4, v.Bool(r.Official)),
		v.F(5, v.Int(r.TimeUTC)),
		v.F(6, v.Int(0)),
		v.F(7, v.String("")),
		v.F(8, v.String("")),
	}
	if r.BaseBuild < hotsFirstBuild {
		fields = append(fields,
			v.F(9, v.String("")),
			v.F(10, v.Some(v.Array(v.Blob(make([]byte, 40))))),
			v.F(11, v.Bool(false)),
			v.F(12, v.Int(r.GameSpeed)),
			v.F(13, v.Int(3)),
		)
		return v.Encode(v.Struct(fields...))
	}
	fields = append(fields,
		v.F(9, v.Int(0)),
		v.F(10, v.String("")),
		v.F(11, v.Some(v.Array(v.Blob(make([]byte, 40))))),
		v.F(12, v.Bool(false)),
		v.F(13, v.Int(r.GameSpeed)),
		v.F(14, v.Int(3)),
		v.F(15, v.None()),
	)
	if r.BaseBuild >= lotvFirstBuild {
		fields = append(fields, v.F(16, v.Bool(false)), v.F(17, v.Bool(false)))
	}
	return v.Encode(v.Struct(fields...))
}

// Bytes serializes the replay archive.
func (r *Replay) Bytes() []byte {
	members := []Member{
		{Name: "replay.initData", Data: make([]byte, 2048), Compression: Zlib, Sectored: true},
	}
	if !r.OmitDetails {
		members = append(members, Member{Name: "replay.details", Data: r.Details(), Compression: Zlib, Sectored: true})
	}
	return Archive{UserData: r.Header(), SectorShift: 3, Members: members}.Bytes()
}

// Write stores the replay as dir/name and returns the path.
func (r *Replay) Write(tb testing.TB, dir, name string) string {
	tb.Helper()
	return WriteFile(tb, dir, name, r.Bytes())
}

// WriteFile stores data as dir/name, creating parent directories.
func WriteFile(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}
