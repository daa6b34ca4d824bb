package decoder

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/simonhull/replaysort/internal/mpq"
	"github.com/simonhull/replaysort/internal/protocol"
	"github.com/simonhull/replaysort/internal/registry"
	"github.com/simonhull/replaysort/internal/replaytest"
	"github.com/simonhull/replaysort/internal/types"
)

func decodeReplay(t *testing.T, r *replaytest.Replay) (*types.Metadata, error) {
	t.Helper()
	return Decode(r.Header(), r.Details(), "/replays/game.SC2Replay", registry.Default())
}

func TestStripClanTag(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clan tag", "TAG&gt;<sp/>PlayerOne", "PlayerOne"},
		{"no marker", "PlayerOne", "PlayerOne"},
		{"two markers", "A&gt;<sp/>B&gt;<sp/>C", "B&gt;<sp/>C"},
		{"empty", "", ""},
		{"marker only", "&gt;<sp/>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripClanTag(tt.in); got != tt.want {
				t.Errorf("StripClanTag(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecode_TerranVsZerg(t *testing.T) {
	r := replaytest.NewReplay(12345)
	r.Major, r.Minor, r.Revision = 4, 12, 1

	m, err := decodeReplay(t, r)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if m.PlayerOne.Name != "Alice" || m.PlayerOne.Race != "Terran" {
		t.Errorf("PlayerOne = %+v", m.PlayerOne)
	}
	if m.PlayerTwo.Name != "Bob" || m.PlayerTwo.Race != "Zerg" {
		t.Errorf("PlayerTwo = %+v", m.PlayerTwo)
	}
	if m.Patch != "4.12.1" {
		t.Errorf("Patch = %q, want %q", m.Patch, "4.12.1")
	}
	if m.Version.BaseBuild != 12345 {
		t.Errorf("BaseBuild = %d", m.Version.BaseBuild)
	}
	if m.MapName != "Akilon Wastes LE" || !m.IsOfficialMap {
		t.Errorf("map = %q official=%v", m.MapName, m.IsOfficialMap)
	}
	if m.SourcePath != "/replays/game.SC2Replay" || m.FileName != "game.SC2Replay" {
		t.Errorf("SourcePath = %q FileName = %q", m.SourcePath, m.FileName)
	}
	if m.GameLoops != r.GameLoops || m.GameSpeed != types.SpeedFaster {
		t.Errorf("GameLoops = %d GameSpeed = %v", m.GameLoops, m.GameSpeed)
	}
	if got := m.PlayerOne.Toon.Handle(); got != "1-S2-1-1001" {
		t.Errorf("toon handle = %q", got)
	}
	if m.PlayedAt.IsZero() {
		t.Error("PlayedAt not set")
	}
}

func TestDecode_AllGenerations(t *testing.T) {
	for _, build := range []uint32{10000, 12345, 24943, 24944, 30000, 39576, 80188, 94137} {
		r := replaytest.NewReplay(build)
		m, err := decodeReplay(t, r)
		if err != nil {
			t.Errorf("build %d: %v", build, err)
			continue
		}
		if m.PlayerOne.Race != "Terran" || m.PlayerTwo.Race != "Zerg" {
			t.Errorf("build %d: races %q vs %q", build, m.PlayerOne.Race, m.PlayerTwo.Race)
		}
		if m.GameSpeed != types.GameSpeed(r.GameSpeed) {
			t.Errorf("build %d: GameSpeed = %v", build, m.GameSpeed)
		}
	}
}

func TestDecode_Deterministic(t *testing.T) {
	r := replaytest.NewReplay(80188)
	header, details := r.Header(), r.Details()

	first, err := Decode(header, details, "a.SC2Replay", registry.Default())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Decode(bytes.Clone(header), bytes.Clone(details), "a.SC2Replay", registry.Default())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("decoding the same bytes twice differs:\n%+v\n%+v", first, second)
	}
}

func TestDecode_ClanTagStripped(t *testing.T) {
	r := replaytest.NewReplay(39576)
	r.Players[0].Name = "TAG&gt;<sp/>PlayerOne"

	m, err := decodeReplay(t, r)
	if err != nil {
		t.Fatal(err)
	}
	if m.PlayerOne.Name != "PlayerOne" {
		t.Errorf("Name = %q, want %q", m.PlayerOne.Name, "PlayerOne")
	}
}

func TestDecode_UnsupportedVersion(t *testing.T) {
	r := replaytest.NewReplay(99999)

	_, err := decodeReplay(t, r)
	var unsupported *types.UnsupportedVersionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *UnsupportedVersionError, got %T: %v", err, err)
	}
	if unsupported.BaseBuild != 99999 {
		t.Errorf("BaseBuild = %d", unsupported.BaseBuild)
	}
	if unsupported.Path == "" {
		t.Error("Path not set")
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *replaytest.Replay)
	}{
		{"one player", func(r *replaytest.Replay) { r.Players = r.Players[:1] }},
		{"no players", func(r *replaytest.Replay) { r.Players = nil }},
		{"invalid utf-8 name", func(r *replaytest.Replay) { r.Players[1].Name = "\xff\xfe" }},
		{"empty race", func(r *replaytest.Replay) { r.Players[0].Race = "" }},
		{"garbage record", func(r *replaytest.Replay) { r.DetailsData = []byte{0x05, 0x7f} }},
		{"not a struct", func(r *replaytest.Replay) { r.DetailsData = []byte{0x09, 0x02} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := replaytest.NewReplay(12345)
			tt.modify(r)

			m, err := decodeReplay(t, r)
			if m != nil {
				t.Errorf("expected no metadata, got %+v", m)
			}
			var malformed *types.MalformedDetailsError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected *MalformedDetailsError, got %T: %v", err, err)
			}
			if malformed.Path == "" {
				t.Error("Path not set")
			}
		})
	}
}

func TestDecode_LaterPlayersDoNotFail(t *testing.T) {
	tests := []struct {
		name     string
		extra    replaytest.Player
		wantName string
		wantRace string
	}{
		{"invalid utf-8 name", replaytest.Player{Name: "\xff\xfe", Race: "Protoss", ID: 1003}, "\uFFFD", "Protoss"},
		{"observer without race", replaytest.Player{Name: "Obs", Race: "", ID: 1004}, "Obs", ""},
		{"clan tag", replaytest.Player{Name: "TAG&gt;<sp/>Carol", Race: "Zerg", ID: 1005}, "Carol", "Zerg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := replaytest.NewReplay(80188)
			r.Players = append(r.Players, tt.extra)

			m, err := decodeReplay(t, r)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if m.PlayerOne.Name != "Alice" || m.PlayerTwo.Name != "Bob" {
				t.Errorf("players = %q, %q", m.PlayerOne.Name, m.PlayerTwo.Name)
			}
			if len(m.Players) != 3 {
				t.Fatalf("len(Players) = %d, want 3", len(m.Players))
			}
			if got := m.Players[2]; got.Name != tt.wantName || got.Race != tt.wantRace {
				t.Errorf("Players[2] = %q/%q, want %q/%q", got.Name, got.Race, tt.wantName, tt.wantRace)
			}
		})
	}
}

func TestDecode_InvalidTitleIsRepaired(t *testing.T) {
	r := replaytest.NewReplay(80188)
	r.Title = "Akilon\xffWastes"

	m, err := decodeReplay(t, r)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.MapName != "Akilon\uFFFDWastes" {
		t.Errorf("MapName = %q", m.MapName)
	}
}

func TestDecode_EmptyRegistry(t *testing.T) {
	r := replaytest.NewReplay(12345)
	if _, err := Decode(r.Header(), r.Details(), "x", registry.New()); err == nil {
		t.Fatal("expected error with an empty registry")
	}
}

func TestDecode_CustomRegistry(t *testing.T) {
	reg := registry.New()
	if err := reg.Register(20000, 30000, protocol.HeartOfTheSwarm); err != nil {
		t.Fatal(err)
	}

	if _, err := Decode(replaytest.NewReplay(25000).Header(), replaytest.NewReplay(25000).Details(), "x", reg); err != nil {
		t.Errorf("registered build: %v", err)
	}
	if _, err := Decode(replaytest.NewReplay(12345).Header(), nil, "x", reg); types.Classify(err) != types.SkipUnsupportedVersion {
		t.Errorf("unregistered build: got %v", err)
	}
}

func TestDecodeArchive(t *testing.T) {
	r := replaytest.NewReplay(12345)
	data := r.Bytes()

	a, err := mpq.New(bytes.NewReader(data), int64(len(data)), "game.SC2Replay")
	if err != nil {
		t.Fatal(err)
	}
	m, err := DecodeArchive(a, registry.Default())
	if err != nil {
		t.Fatalf("DecodeArchive: %v", err)
	}
	if m.PlayerOne.Name != "Alice" {
		t.Errorf("PlayerOne.Name = %q", m.PlayerOne.Name)
	}
}

func TestDecodeArchive_MissingDetails(t *testing.T) {
	r := replaytest.NewReplay(12345)
	r.OmitDetails = true
	data := r.Bytes()

	a, err := mpq.New(bytes.NewReader(data), int64(len(data)), "game.SC2Replay")
	if err != nil {
		t.Fatal(err)
	}
	_, err = DecodeArchive(a, registry.Default())
	var notFound *types.MemberNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *MemberNotFoundError, got %T: %v", err, err)
	}
	if types.Classify(err) != types.SkipMalformedDetails {
		t.Errorf("Classify = %v", types.Classify(err))
	}
}

func TestDecodeArchive_UnsupportedBeforeDetails(t *testing.T) {
	r := replaytest.NewReplay(99999)
	r.OmitDetails = true
	data := r.Bytes()

	a, err := mpq.New(bytes.NewReader(data), int64(len(data)), "new.SC2Replay")
	if err != nil {
		t.Fatal(err)
	}
	_, err = DecodeArchive(a, registry.Default())
	if types.Classify(err) != types.SkipUnsupportedVersion {
		t.Errorf("Classify = %v (%v)", types.Classify(err), err)
	}
}

func TestDecodeArchive_BareArchive(t *testing.T) {
	data := replaytest.Archive{Members: []replaytest.Member{{Name: DetailsMember, Data: []byte{0}}}}.Bytes()
	a, err := mpq.New(bytes.NewReader(data), int64(len(data)), "bare.mpq")
	if err != nil {
		t.Fatal(err)
	}
	_, err = DecodeArchive(a, registry.Default())
	if types.Classify(err) != types.SkipMalformedDetails {
		t.Errorf("Classify = %v (%v)", types.Classify(err), err)
	}
}
