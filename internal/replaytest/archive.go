// Package replaytest builds synthetic archives and replays for tests.
package replaytest

import (
	"bytes"
	"compress/zlib"

	"github.com/icza/mpq"

	"github.com/simonhull/replaysort/internal/binary"
)

// Compression selects how a member is stored.
type Compression int

const (
	Stored Compression = iota
	Zlib

	// Bzip2 stores Packed, the bzip2 stream of Data, as one unit or as a
	// single sector. There is no bzip2 writer to compress with.
	Bzip2
)

// Member is one file inside a built archive.
type Member struct {
	Name        string
	Data        []byte
	Compression Compression
	Packed      []byte

	// Sectored splits the member into sectors with an offset table instead
	// of storing it as a single unit.
	Sectored bool

	// SectorCRC flags a sectored member as carrying a checksum sector,
	// which adds one entry to its offset table.
	SectorCRC bool
}

// Archive describes an MPQ archive to build.
type Archive struct {
	// UserData is the content of the shunt block. Nil builds a bare archive.
	UserData []byte

	// SectorShift sets the sector size to 512 << SectorShift.
	SectorShift uint16

	Members []Member

	// NoListfile omits the "(listfile)" member.
	NoListfile bool
}

const (
	archiveHeaderLen = 44
	userDataAlign    = 512

	flagCompress   = 0x00000200
	flagSingleUnit = 0x01000000
	flagSectorCRC  = 0x04000000
	flagExists     = 0x80000000

	compressionZlib  = 0x02
	compressionBzip2 = 0x10
)

// Bytes serializes the archive.
func (a Archive) Bytes() []byte {
	members := append([]Member(nil), a.Members...)
	if !a.NoListfile {
		var list bytes.Buffer
		for _, m := range a.Members {
			list.WriteString(m.Name)
			list.WriteString("\r\n")
		}
		members = append(members, Member{Name: "(listfile)", Data: list.Bytes()})
	}

	sectorSize := 512 << a.SectorShift

	// Member data follows the header directly.
	var data bytes.Buffer
	blocks := make([]byte, 0, len(members)*16)
	for _, m := range members {
		offset := uint32(archiveHeaderLen + data.Len())
		packed, flags := pack(m, sectorSize)
		data.Write(packed)
		blocks = appendLE(blocks, offset, uint32(len(packed)), uint32(len(m.Data)), flags)
	}

	hashes := hashTable(members)

	hashOffset := uint32(archiveHeaderLen + data.Len())
	blockOffset := hashOffset + uint32(len(hashes))
	archiveSize := blockOffset + uint32(len(blocks))

	encrypt(hashes, hashTableKey)
	encrypt(blocks, blockTableKey)

	var out bytes.Buffer
	sw := binary.NewSafeWriter(&out)

	if a.UserData != nil {
		headerOffset := (16 + len(a.UserData) + userDataAlign - 1) / userDataAlign * userDataAlign
		sw.WriteBytes([]byte("MPQ\x1b"))
		// The block runs from the content size field up to the archive.
		binary.WriteLE(sw, uint32(headerOffset-12))
		binary.WriteLE(sw, uint32(headerOffset))
		binary.WriteLE(sw, uint32(len(a.UserData)))
		sw.WriteBytes(a.UserData)
		sw.WriteBytes(make([]byte, headerOffset-int(sw.Offset())))
	}

	sw.WriteBytes([]byte("MPQ\x1a"))
	binary.WriteLE(sw, uint32(archiveHeaderLen))
	binary.WriteLE(sw, archiveSize)
	binary.WriteLE(sw, uint16(1))
	binary.WriteLE(sw, a.SectorShift)
	binary.WriteLE(sw, hashOffset)
	binary.WriteLE(sw, blockOffset)
	binary.WriteLE(sw, uint32(len(hashes)/16))
	binary.WriteLE(sw, uint32(len(members)))
	binary.WriteLE(sw, uint64(0))
	binary.WriteLE(sw, uint16(0))
	binary.WriteLE(sw, uint16(0))

	sw.WriteBytes(data.Bytes())
	sw.WriteBytes(hashes)
	sw.WriteBytes(blocks)
	return out.Bytes()
}

func appendLE(b []byte, vals ...uint32) []byte {
	for _, v := range vals {
		var w [4]byte
		binary.PutUint(w[:], v, binary.LittleEndian)
		b = append(b, w[:]...)
	}
	return b
}

// pack returns the stored bytes of m and its block flags.
func pack(m Member, sectorSize int) ([]byte, uint32) {
	if m.Compression == Stored {
		return m.Data, flagExists
	}
	if !m.Sectored {
		return compressed(m, m.Data), flagExists | flagCompress | flagSingleUnit
	}

	sectors := (len(m.Data) + sectorSize - 1) / sectorSize
	entries := sectors + 1
	flags := uint32(flagExists | flagCompress)
	if m.SectorCRC {
		entries++
		flags |= flagSectorCRC
	}

	offsets := make([]uint32, 0, entries)
	var body bytes.Buffer
	pos := uint32(entries * 4)
	for i := 0; i < sectors; i++ {
		chunk := m.Data[i*sectorSize : min((i+1)*sectorSize, len(m.Data))]
		offsets = append(offsets, pos)
		c := compressed(m, chunk)
		body.Write(c)
		pos += uint32(len(c))
	}
	offsets = append(offsets, pos)
	if m.SectorCRC {
		// One checksum per sector, left zero; readers do not verify them.
		body.Write(make([]byte, 4*sectors))
		offsets = append(offsets, pos+uint32(4*sectors))
	}
	return append(appendLE(nil, offsets...), body.Bytes()...), flags
}

// compressed returns chunk as stored for m's compression.
func compressed(m Member, chunk []byte) []byte {
	if m.Compression == Bzip2 {
		return append([]byte{compressionBzip2}, m.Packed...)
	}
	return compress(chunk)
}

// compress zlib-compresses b behind the mask byte, keeping b as is when that
// does not make it smaller.
func compress(b []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(compressionZlib)
	zw := zlib.NewWriter(&buf)
	zw.Write(b)
	zw.Close()
	if buf.Len() >= len(b) {
		return b
	}
	return buf.Bytes()
}

// hashTable builds the unencrypted hash table for members, indexed by block.
func hashTable(members []Member) []byte {
	n := 16
	for n < 2*len(members) {
		n <<= 1
	}
	table := bytes.Repeat([]byte{0xff}, n*16)
	for i, m := range members {
		h1, h2, h3 := mpq.FileNameHash(m.Name)
		slot := int(h1) & (n - 1)
		for binary.Uint[uint32](table[slot*16+12:], binary.LittleEndian) != 0xffffffff {
			slot = (slot + 1) & (n - 1)
		}
		e := table[slot*16:]
		binary.PutUint(e[0:], h2, binary.LittleEndian)
		binary.PutUint(e[4:], h3, binary.LittleEndian)
		binary.PutUint(e[8:], uint16(0), binary.LittleEndian)
		binary.PutUint(e[10:], uint16(0), binary.LittleEndian)
		binary.PutUint(e[12:], uint32(i), binary.LittleEndian)
	}
	return table
}
