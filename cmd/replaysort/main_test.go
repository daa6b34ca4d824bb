package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simonhull/replaysort/internal/replaytest"
)

func noenv(string) string { return "" }

func TestRun_SortsFolder(t *testing.T) {
	dir := t.TempDir()
	replaytest.NewReplay(12345).Write(t, dir, "a_valid.SC2Replay")
	replaytest.WriteFile(t, dir, "b_notes.txt", []byte("gg"))
	replaytest.NewReplay(99999).Write(t, dir, "c_future.SC2Replay")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-dir", dir, "-handle", "Alice"}, noenv, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
	}

	sorted := filepath.Join(dir, "Patch 1.5.4", "Terran Vs Zerg", "a_valid.SC2Replay")
	if _, err := os.Stat(sorted); err != nil {
		t.Errorf("replay not sorted: %v", err)
	}
	for _, name := range []string{"b_notes.txt", "c_future.SC2Replay"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s should stay in place: %v", name, err)
		}
	}
	// Only the matchup folder holding the replay survives cleanup.
	entries, _ := os.ReadDir(filepath.Join(dir, "Patch 1.5.4"))
	if len(entries) != 1 {
		t.Errorf("patch folder holds %d entries, want 1", len(entries))
	}

	out := stdout.String()
	if !strings.Contains(out, "c_future.SC2Replay") {
		t.Errorf("unsupported version notice missing:\n%s", out)
	}
	if !strings.Contains(out, "Moved 1 of 3 replays (2 skipped") {
		t.Errorf("summary missing:\n%s", out)
	}
}

func TestRun_Prompts(t *testing.T) {
	dir := t.TempDir()
	replaytest.NewReplay(30000).Write(t, dir, "g.SC2Replay")

	var stdout, stderr bytes.Buffer
	in := strings.NewReader(dir + "\nBob\n")
	if code := run(context.Background(), nil, noenv, in, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "Patch 2.1.9", "Zerg Vs Terran", "g.SC2Replay")); err != nil {
		t.Errorf("replay not sorted from Bob's side: %v", err)
	}
}

func TestRun_DryRun(t *testing.T) {
	dir := t.TempDir()
	path := replaytest.NewReplay(12345).Write(t, dir, "a.SC2Replay")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-dir", dir, "-handle", "Alice", "-dry-run"}, noenv, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("dry run moved the replay: %v", err)
	}
	if !strings.Contains(stdout.String(), "Would move 1 of 1") {
		t.Errorf("summary:\n%s", stdout.String())
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	missing := filepath.Join(t.TempDir(), "missing")
	if code := run(context.Background(), []string{"-dir", missing, "-handle", "Alice"}, noenv, strings.NewReader(""), &stdout, &stderr); code != 1 {
		t.Errorf("exit code %d, want 1", code)
	}
	if code := run(context.Background(), []string{"-bogus"}, noenv, strings.NewReader(""), &stdout, &stderr); code != 2 {
		t.Errorf("exit code %d, want 2", code)
	}
}

func TestRun_Version(t *testing.T) {
	var stdout bytes.Buffer
	if code := run(context.Background(), []string{"-version"}, noenv, nil, &stdout, &bytes.Buffer{}); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "replaysort ") {
		t.Errorf("version output %q", stdout.String())
	}
}

func TestRun_BadWorkersEnv(t *testing.T) {
	getenv := func(k string) string {
		if k == "REPLAYSORT_WORKERS" {
			return "many"
		}
		return ""
	}
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-dir", t.TempDir(), "-handle", "Alice"}, getenv, strings.NewReader(""), &stdout, &stderr); code != 1 {
		t.Errorf("exit code %d, want 1", code)
	}
}
