// Package organize sorts decoded replays into a per-patch, per-matchup
// folder layout:
//
//	<root>/Patch 4.12.1/Terran Vs Zerg/game.SC2Replay
//	<root>/Patch 4.12.1/Custom Maps/arcade.SC2Replay
//
// Planning is pure and deterministic; Apply performs the moves and Cleanup
// removes the directories left empty afterwards.
package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/simonhull/replaysort/internal/types"
)

// CustomMaps is the matchup folder of every game on a non-official map.
const CustomMaps = "Custom Maps"

// Races are the playable races, in layout order.
var Races = []string{"Terran", "Protoss", "Zerg"}

// PatchDir returns the folder name of a patch, e.g. "Patch 4.12.1".
func PatchDir(patch string) string {
	return "Patch " + patch
}

// Layout returns the matchup folders created inside every patch folder:
// each ordered pair of races, then CustomMaps.
func Layout() []string {
	dirs := make([]string, 0, len(Races)*len(Races)+1)
	for _, own := range Races {
		for _, opp := range Races {
			dirs = append(dirs, own+" Vs "+opp)
		}
	}
	return append(dirs, CustomMaps)
}

// Matchup returns the matchup folder of m as seen by the player called
// handle: "{own race} Vs {opponent race}".
//
// Games on non-official maps always go to CustomMaps. When handle matches
// neither of the first two players, or the races do not name a Layout
// folder, the result is empty and the replay lands in the patch folder
// itself.
func Matchup(m *types.Metadata, handle string) string {
	var label string
	switch {
	case !m.IsOfficialMap:
		return CustomMaps
	case matches(m.PlayerOne, handle):
		label = m.PlayerOne.Race + " Vs " + m.PlayerTwo.Race
	case matches(m.PlayerTwo, handle):
		label = m.PlayerTwo.Race + " Vs " + m.PlayerOne.Race
	}
	// Race text comes from the replay file.
	if !slices.Contains(Layout(), label) {
		return ""
	}
	return label
}

// matches compares handle against the display name, or the account handle
// ("2-S2-1-123456") for players who change names.
func matches(p types.Player, handle string) bool {
	if handle == "" {
		return false
	}
	return p.Name == handle || p.Toon.Handle() == handle
}

// Move relocates one replay.
type Move struct {
	Src     string
	Dst     string
	Patch   string
	Matchup string
}

func (m Move) String() string {
	return fmt.Sprintf("%s -> %s", m.Src, m.Dst)
}

// Plan computes the moves sorting records under root for the player called
// handle. Records already at their destination produce no move.
//
// Destination names never collide: a name taken by an existing file or an
// earlier move in the plan gets a "__2", "__3", ... suffix before its
// extension.
func Plan(records []*types.Metadata, root, handle string) []Move {
	used := map[string]map[string]struct{}{}
	taken := func(dir string) map[string]struct{} {
		if names, ok := used[dir]; ok {
			return names
		}
		names := map[string]struct{}{}
		// Unreadable folders count as empty; Rename refuses to overwrite anyway.
		entries, _ := os.ReadDir(dir)
		for _, e := range entries {
			names[e.Name()] = struct{}{}
		}
		used[dir] = names
		return names
	}

	moves := make([]Move, 0, len(records))
	for _, m := range records {
		matchup := Matchup(m, handle)
		dir := filepath.Join(root, PatchDir(m.Patch), matchup)

		name := m.FileName
		if name == "" {
			name = filepath.Base(m.SourcePath)
		}
		if filepath.Clean(filepath.Dir(m.SourcePath)) == filepath.Clean(dir) {
			continue
		}

		names := taken(dir)
		name = allocName(name, names)
		names[name] = struct{}{}

		moves = append(moves, Move{
			Src:     m.SourcePath,
			Dst:     filepath.Join(dir, name),
			Patch:   m.Patch,
			Matchup: matchup,
		})
	}
	return moves
}

func allocName(name string, used map[string]struct{}) string {
	if _, ok := used[name]; !ok {
		return name
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	for n := 2; ; n++ {
		cand := fmt.Sprintf("%s__%d%s", base, n, ext)
		if _, ok := used[cand]; !ok {
			return cand
		}
	}
}
