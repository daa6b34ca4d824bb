package replaytest

import "github.com/simonhull/replaysort/internal/binary"

// Encryption keys of the hash and block tables, the file key hashes of
// "(hash table)" and "(block table)".
const (
	hashTableKey  uint32 = 0xc3af3770
	blockTableKey uint32 = 0xec83b3a3
)

// cryptTable drives the table cipher.
var cryptTable = func() (t [0x500]uint32) {
	seed := uint32(0x00100001)
	for index1 := 0; index1 < 0x100; index1++ {
		for i, index2 := 0, index1; i < 5; i, index2 = i+1, index2+0x100 {
			seed = (seed*125 + 3) % 0x2aaaab
			hi := (seed & 0xffff) << 0x10
			seed = (seed*125 + 3) % 0x2aaaab
			t[index2] = hi | seed&0xffff
		}
	}
	return t
}()

// encrypt is the inverse of the table decryption readers apply.
func encrypt(data []byte, key uint32) {
	seed1, seed2 := key, uint32(0xeeeeeeee)
	for i := 0; i+4 <= len(data); i += 4 {
		seed2 += cryptTable[0x400+seed1&0xff]
		plain := binary.Uint[uint32](data[i:], binary.LittleEndian)
		binary.PutUint(data[i:], plain^(seed1+seed2), binary.LittleEndian)
		seed1 = (^seed1<<0x15 + 0x11111111) | seed1>>0x0b
		seed2 = plain + seed2 + seed2<<5 + 3
	}
}
