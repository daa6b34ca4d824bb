package registry

import (
	"strings"
	"testing"

	"github.com/simonhull/replaysort/internal/types"
)

// mockProtocol implements Protocol for testing.
type mockProtocol struct {
	name string
}

func (m *mockProtocol) Name() string { return m.name }

func (m *mockProtocol) DecodeHeader([]byte) (types.Header, error) { return types.Header{}, nil }

func (m *mockProtocol) DecodeDetails([]byte) (types.Details, error) { return types.Details{}, nil }

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	old := &mockProtocol{name: "old"}
	mid := &mockProtocol{name: "mid"}
	cur := &mockProtocol{name: "current"}

	// Registration order does not matter.
	for _, reg := range []struct {
		min, max uint32
		p        Protocol
	}{{30000, 39999, cur}, {10000, 19999, old}, {20000, 29999, mid}} {
		if err := r.Register(reg.min, reg.max, reg.p); err != nil {
			t.Fatalf("Register(%d, %d) error = %v", reg.min, reg.max, err)
		}
	}

	tests := []struct {
		build uint32
		want  string
	}{
		{build: 10000, want: "old"},
		{build: 12345, want: "old"},
		{build: 19999, want: "old"},
		{build: 20000, want: "mid"},
		{build: 39999, want: "current"},
		{build: 9999, want: ""},
		{build: 40000, want: ""},
	}

	for _, tt := range tests {
		p, ok := r.Lookup(tt.build)
		if tt.want == "" {
			if ok {
				t.Errorf("Lookup(%d) = %s, want no protocol", tt.build, p.Name())
			}
			continue
		}
		if !ok || p.Name() != tt.want {
			t.Errorf("Lookup(%d) = %v, %v; want %s", tt.build, p, ok, tt.want)
		}
	}

	latest, ok := r.Latest()
	if !ok || latest.Name() != "current" {
		t.Errorf("Latest() = %v, %v; want current", latest, ok)
	}

	ranges := r.Ranges()
	if len(ranges) != 3 || ranges[0].Min != 10000 || ranges[2].Max != 39999 {
		t.Errorf("Ranges() = %+v", ranges)
	}
}

func TestRegister_Rejects(t *testing.T) {
	r := New()
	if err := r.Register(100, 200, &mockProtocol{name: "a"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		min, max uint32
		p        Protocol
		contains string
	}{
		{name: "overlap at start", min: 50, max: 100, p: &mockProtocol{name: "b"}, contains: "overlap"},
		{name: "overlap inside", min: 150, max: 160, p: &mockProtocol{name: "b"}, contains: "overlap"},
		{name: "inverted", min: 300, max: 250, p: &mockProtocol{name: "b"}, contains: "inverted"},
		{name: "nil protocol", min: 300, max: 400, p: nil, contains: "nil protocol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.min, tt.max, tt.p)
			if err == nil || !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Register() error = %v, want containing %q", err, tt.contains)
			}
		})
	}
}

func TestEmptyRegistry(t *testing.T) {
	r := New()
	if _, ok := r.Lookup(12345); ok {
		t.Error("Lookup on empty registry should miss")
	}
	if _, ok := r.Latest(); ok {
		t.Error("Latest on empty registry should miss")
	}
}
