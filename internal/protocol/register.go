package protocol

import "github.com/simonhull/replaysort/internal/registry"

// Schemas of the supported client generations, for building custom registries.
var (
	WingsOfLiberty  registry.Protocol = wingsOfLiberty{}
	HeartOfTheSwarm registry.Protocol = heartOfTheSwarm{}
	LegacyOfTheVoid registry.Protocol = legacyOfTheVoid{}
)

// Register adds every generation to reg under its build range.
func Register(reg *registry.Registry) error {
	for _, g := range []struct {
		minBuild, maxBuild uint32
		p                  registry.Protocol
	}{
		{wolMinBuild, wolMaxBuild, WingsOfLiberty},
		{hotsMinBuild, hotsMaxBuild, HeartOfTheSwarm},
		{lotvMinBuild, lotvMaxBuild, LegacyOfTheVoid},
	} {
		if err := reg.Register(g.minBuild, g.maxBuild, g.p); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	registry.MustRegister(wolMinBuild, wolMaxBuild, WingsOfLiberty)
	registry.MustRegister(hotsMinBuild, hotsMaxBuild, HeartOfTheSwarm)
	registry.MustRegister(lotvMinBuild, lotvMaxBuild, LegacyOfTheVoid)
}
