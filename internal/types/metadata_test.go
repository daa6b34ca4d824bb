package types

import (
	"testing"
	"time"
)

func TestVersionInfo_Patch(t *testing.T) {
	tests := []struct {
		name string
		v    VersionInfo
		want string
	}{
		{name: "typical", v: VersionInfo{BaseBuild: 12345, Major: 4, Minor: 12, Revision: 1}, want: "4.12.1"},
		{name: "zero revision", v: VersionInfo{BaseBuild: 16117, Major: 1, Minor: 1, Revision: 0}, want: "1.1.0"},
		{name: "ignores build numbers", v: VersionInfo{Build: 94137, BaseBuild: 94137, Major: 5, Revision: 14}, want: "5.0.14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Patch(); got != tt.want {
				t.Errorf("Patch() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToon_Handle(t *testing.T) {
	toon := Toon{Region: 2, ProgramID: "S2", Realm: 1, ID: 2345678}
	if got := toon.Handle(); got != "2-S2-1-2345678" {
		t.Errorf("Handle() = %q", got)
	}
	if got := (Toon{}).Handle(); got != "" {
		t.Errorf("zero Toon Handle() = %q, want empty", got)
	}
}

func TestDetails_PlayedAt(t *testing.T) {
	want := time.Date(2019, 3, 14, 18, 30, 0, 0, time.UTC)
	d := Details{TimeUTC: want.Unix()*1e7 + filetimeEpochDelta}
	if got := d.PlayedAt(); !got.Equal(want) {
		t.Errorf("PlayedAt() = %v, want %v", got, want)
	}
	if got := (Details{}).PlayedAt(); !got.IsZero() {
		t.Errorf("PlayedAt() without time = %v, want zero", got)
	}
}

func TestMetadata_Duration(t *testing.T) {
	m := &Metadata{GameLoops: 16 * 90}
	if got := m.Duration(); got != 90*time.Second {
		t.Errorf("Duration() = %v, want 1m30s", got)
	}
}

func TestGameSpeed_String(t *testing.T) {
	if SpeedFaster.String() != "Faster" {
		t.Errorf("SpeedFaster = %q", SpeedFaster.String())
	}
	if GameSpeed(9).String() != "GameSpeed(9)" {
		t.Errorf("unknown speed = %q", GameSpeed(9).String())
	}
}
