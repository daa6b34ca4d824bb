package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/simonhull/replaysort/internal/replaytest"
)

func TestDump(t *testing.T) {
	path := replaytest.NewReplay(80000).Write(t, t.TempDir(), "g.SC2Replay")

	var out bytes.Buffer
	if err := dump(&out, path, ""); err != nil {
		t.Fatalf("dump: %v", err)
	}
	for _, want := range []string{
		"format: SC2Replay",
		"replay.details",
		"version: 4.12.1",
		"schema: lotv",
		`"Akilon Wastes LE"`,
		"map: Akilon Wastes LE (official: true)",
		"player 1: Alice (Terran) 1-S2-1-1001",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDump_Member(t *testing.T) {
	path := replaytest.NewReplay(12345).Write(t, t.TempDir(), "g.SC2Replay")

	var out bytes.Buffer
	if err := dump(&out, path, "replay.details"); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.HasPrefix(out.String(), "struct (") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if err := dump(&out, path, "replay.missing"); err == nil {
		t.Error("expected error for a missing member")
	}
}

func TestDump_UnsupportedVersion(t *testing.T) {
	path := replaytest.NewReplay(99999).Write(t, t.TempDir(), "g.SC2Replay")

	var out bytes.Buffer
	if err := dump(&out, path, ""); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(out.String(), "schema: none") {
		t.Errorf("output:\n%s", out.String())
	}
}
