/*
Package mpq opens Blizzard's MPQ archives, the container of StarCraft II
replay files (*.SC2Replay), on top of github.com/icza/mpq.

It adds what replay processing needs around that decoder: the user data
content (the serialized replay header) cut out of the shunt block, a bounds
check of the archive layout before anything is allocated from it, and
classified errors. Files that are not MPQ archives yield
*types.NotAnArchiveError, missing members *types.MemberNotFoundError and
members whose storage is damaged or unsupported (encryption, PKWare
implosion) *types.CorruptedFileError.

Usage

	a, err := mpq.Open("myreplay.SC2Replay")
	if err != nil {
		return err
	}
	defer a.Close()

	header := a.HeaderSegment()             // serialized replay header
	details, err := a.ReadFile("replay.details")
*/
package mpq
