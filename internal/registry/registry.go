// Package registry maps replay base builds to the schema that decodes them.
//
// Schema packages register themselves during initialization; the registry is
// read-only once the program starts decoding.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/simonhull/replaysort/internal/types"
)

// Protocol is the interface every schema generation implements.
type Protocol interface {
	// Name identifies the schema, e.g. "lotv".
	Name() string

	// DecodeHeader decodes the header segment stored in the archive's user data.
	DecodeHeader(data []byte) (types.Header, error)

	// DecodeDetails decodes the "replay.details" archive member.
	DecodeDetails(data []byte) (types.Details, error)
}

// Range is an inclusive span of base builds served by one protocol.
type Range struct {
	Min, Max uint32
	Protocol Protocol
}

// Contains reports whether build falls in the range.
func (r Range) Contains(build uint32) bool {
	return build >= r.Min && build <= r.Max
}

// Registry holds non-overlapping build ranges sorted by Min.
type Registry struct {
	mu     sync.RWMutex
	ranges []Range
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Register adds p for builds minBuild through maxBuild inclusive.
// Inverted or overlapping ranges are rejected.
func (r *Registry) Register(minBuild, maxBuild uint32, p Protocol) error {
	if p == nil {
		return fmt.Errorf("registry: nil protocol for builds %d-%d", minBuild, maxBuild)
	}
	if minBuild > maxBuild {
		return fmt.Errorf("registry: %s: inverted build range %d-%d", p.Name(), minBuild, maxBuild)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.ranges {
		if minBuild <= existing.Max && existing.Min <= maxBuild {
			return fmt.Errorf("registry: %s builds %d-%d overlap %s builds %d-%d",
				p.Name(), minBuild, maxBuild, existing.Protocol.Name(), existing.Min, existing.Max)
		}
	}

	r.ranges = append(r.ranges, Range{Min: minBuild, Max: maxBuild, Protocol: p})
	sort.Slice(r.ranges, func(i, j int) bool { return r.ranges[i].Min < r.ranges[j].Min })
	return nil
}

// Lookup returns the protocol serving build.
func (r *Registry) Lookup(build uint32) (Protocol, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := sort.Search(len(r.ranges), func(i int) bool { return r.ranges[i].Max >= build })
	if i < len(r.ranges) && r.ranges[i].Contains(build) {
		return r.ranges[i].Protocol, true
	}
	return nil, false
}

// Latest returns the protocol registered for the newest builds.
// It decodes headers, whose layout never changed.
func (r *Registry) Latest() (Protocol, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.ranges) == 0 {
		return nil, false
	}
	return r.ranges[len(r.ranges)-1].Protocol, true
}

// Ranges returns a copy of the registered ranges, oldest first.
func (r *Registry) Ranges() []Range {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Range, len(r.ranges))
	copy(out, r.ranges)
	return out
}

var defaultRegistry = New()

// Default returns the process-wide registry filled by the schema packages.
func Default() *Registry {
	return defaultRegistry
}

// MustRegister registers p in the default registry and panics on conflict.
// It is meant for init functions, where a conflict is a programming error.
func MustRegister(minBuild, maxBuild uint32, p Protocol) {
	if err := defaultRegistry.Register(minBuild, maxBuild, p); err != nil {
		panic(err)
	}
}
