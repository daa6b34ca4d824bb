// Package replaysort reads StarCraft II replay files and extracts the
// metadata needed to sort them: map, players, races and game version.
//
// A replay is an MPQ archive preceded by a user data block. The user data
// holds the replay header, which names the client build; the
// "replay.details" member holds the map and player list, in a layout that
// changed between client generations. replaysort picks the right layout
// for each file from a registry of schemas keyed by build number.
//
// # Quick Start
//
// Decoding one replay:
//
//	m, err := replaysort.Decode("game.SC2Replay")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%s: %s (%s) vs %s (%s), patch %s\n",
//		m.MapName, m.PlayerOne.Name, m.PlayerOne.Race,
//		m.PlayerTwo.Name, m.PlayerTwo.Race, m.Patch)
//
// Scanning a folder:
//
//	res, err := replaysort.Scan(ctx, dir, replaysort.WithConcurrency(4))
//	if err != nil {
//		log.Fatal(err) // the folder itself could not be listed
//	}
//	for _, s := range res.Skips {
//		fmt.Printf("skipped %s: %s\n", s.Path, s.Kind)
//	}
//
// # Error Handling
//
// Per-file failures never abort a scan. Each skipped file is reported with
// one of four kinds:
//
//   - SkipNotAnArchive: the file is not an MPQ archive (any stray file)
//   - SkipUnsupportedVersion: no schema covers the replay's base build
//   - SkipMalformedDetails: the archive is valid but its details are unusable
//   - SkipIO: the file could not be read
//
// The underlying errors are typed (NotAnArchiveError,
// UnsupportedVersionError, MalformedDetailsError, ...) and can be matched
// with errors.As. Classify maps any decode error to its kind.
//
// # Logging
//
// Skips are logged through log/slog. The default logger discards
// everything; pass WithLogger to see them.
package replaysort
