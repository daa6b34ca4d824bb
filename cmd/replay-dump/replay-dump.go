package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/simonhull/replaysort/internal/decoder"
	"github.com/simonhull/replaysort/internal/mpq"
	_ "github.com/simonhull/replaysort/internal/protocol"
	"github.com/simonhull/replaysort/internal/registry"
	"github.com/simonhull/replaysort/internal/versioned"
)

// Shows what we're able to read from a replay: archive members, the raw
// header and details trees, and the decoded metadata.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: replay-dump <file.SC2Replay> [member]")
		os.Exit(1)
	}
	member := ""
	if len(os.Args) > 2 {
		member = os.Args[2]
	}
	if err := dump(os.Stdout, os.Args[1], member); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// dump prints the archive at path. When member is set only that member's
// tree is printed.
func dump(w io.Writer, path, member string) error {
	a, err := mpq.Open(path)
	if err != nil {
		return err
	}
	defer a.Close()

	reg := registry.Default()

	if member != "" {
		data, err := a.ReadFile(member)
		if err != nil {
			return err
		}
		return dumpRecord(w, data)
	}

	fmt.Fprintf(w, "format: %s\n", a.Format())
	fmt.Fprintf(w, "files: %d\n", a.FilesCount())
	if names, err := a.Files(); err == nil {
		for _, name := range names {
			fmt.Fprintf(w, "  %s\n", name)
		}
	} else {
		fmt.Fprintf(w, "  (no listfile: %v)\n", err)
	}

	fmt.Fprintln(w, "\nheader:")
	if err := dumpRecord(w, a.HeaderSegment()); err != nil {
		return err
	}

	latest, ok := reg.Latest()
	if !ok {
		return fmt.Errorf("no schemas registered")
	}
	h, err := latest.DecodeHeader(a.HeaderSegment())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nversion: %s\n", h.Version)
	p, ok := reg.Lookup(h.Version.BaseBuild)
	if !ok {
		fmt.Fprintln(w, "schema: none")
		return nil
	}
	fmt.Fprintf(w, "schema: %s\n", p.Name())

	fmt.Fprintln(w, "\ndetails:")
	details, err := a.ReadFile(decoder.DetailsMember)
	if err != nil {
		return err
	}
	if err := dumpRecord(w, details); err != nil {
		return err
	}

	m, err := decoder.DecodeArchive(a, reg)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\nmetadata:")
	fmt.Fprintf(w, "  map: %s (official: %t)\n", m.MapName, m.IsOfficialMap)
	fmt.Fprintf(w, "  patch: %s\n", m.Patch)
	fmt.Fprintf(w, "  played: %s, %d loops at %s\n", m.PlayedAt.Format("2006-01-02 15:04:05"), m.GameLoops, m.GameSpeed)
	for i, pl := range m.Players {
		fmt.Fprintf(w, "  player %d: %s (%s) %s\n", i+1, pl.Name, pl.Race, pl.Toon.Handle())
	}
	return nil
}

func dumpRecord(w io.Writer, data []byte) error {
	v, err := versioned.Decode(data)
	if err != nil {
		return err
	}
	dumpValue(w, v, 1)
	return nil
}

func dumpValue(w io.Writer, v versioned.Value, depth int) {
	indent := strings.Repeat("  ", depth)

	switch v.Kind {
	case versioned.KindStruct:
		fmt.Fprintf(w, "struct (%d fields)\n", len(v.Fields()))
		for _, f := range v.Fields() {
			fmt.Fprintf(w, "%s%d: ", indent, f.Tag)
			dumpValue(w, f.Value, depth+1)
		}
	case versioned.KindArray:
		elems, _ := v.Array()
		fmt.Fprintf(w, "array (%d)\n", len(elems))
		for i, e := range elems {
			fmt.Fprintf(w, "%s[%d] ", indent, i)
			dumpValue(w, e, depth+1)
		}
	case versioned.KindOptional:
		inner, ok, _ := v.Optional()
		if !ok {
			fmt.Fprintln(w, "none")
			return
		}
		dumpValue(w, inner, depth)
	case versioned.KindChoice:
		tag, inner, _ := v.Choice()
		fmt.Fprintf(w, "choice %d: ", tag)
		dumpValue(w, inner, depth+1)
	case versioned.KindBlob:
		b, _ := v.Blob()
		if utf8.Valid(b) {
			fmt.Fprintf(w, "%q\n", b)
		} else {
			fmt.Fprintf(w, "blob (%d bytes) % x\n", len(b), b)
		}
	case versioned.KindBitArray:
		n, b, _ := v.BitArray()
		fmt.Fprintf(w, "bits (%d) % x\n", n, b)
	case versioned.KindVInt:
		n, _ := v.Int()
		fmt.Fprintf(w, "%d\n", n)
	default:
		n, _ := v.Uint()
		fmt.Fprintf(w, "%d (%s)\n", n, v.Kind)
	}
}
