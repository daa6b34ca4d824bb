package replaysort

import (
	"github.com/simonhull/replaysort/internal/registry"
	"github.com/simonhull/replaysort/internal/types"
)

// Metadata is the decoded summary of one replay.
type Metadata = types.Metadata

// Player is one normalized player entry.
type Player = types.Player

// Toon identifies a battle.net account.
type Toon = types.Toon

// GameVersion identifies the client that recorded a replay.
type GameVersion = types.VersionInfo

// GameSpeed is the lobby speed setting.
type GameSpeed = types.GameSpeed

// Registry maps client build ranges to schemas.
type Registry = registry.Registry

// Protocol decodes the records of one client generation.
type Protocol = registry.Protocol

// DefaultRegistry returns the registry holding every built-in schema.
func DefaultRegistry() *Registry {
	return registry.Default()
}
