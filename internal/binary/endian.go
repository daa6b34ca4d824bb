package binary

// Endianness represents byte order for multi-byte values.
type Endianness int

const (
	// LittleEndian is the byte order of every MPQ structure.
	LittleEndian Endianness = iota

	// BigEndian is used by fixed-width payloads inside versioned records
	// (fourcc codes, 32 and 64 bit values).
	BigEndian
)

// ReadLE reads a value of type T at the given offset using little-endian byte order.
//
// Example:
//
//	entries, err := binary.ReadLE[uint32](sr, 24, "hash table entries")
func ReadLE[T Unsigned](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, LittleEndian)
}

// ReadBE reads a value of type T at the given offset using big-endian byte order.
func ReadBE[T Unsigned](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, BigEndian)
}

// ReadEndian reads a value of type T at the given offset with specified byte order.
//
// This is the low-level function used by Read, ReadLE, and ReadBE.
// Most code should use the convenience wrappers instead.
func ReadEndian[T Unsigned](sr *SafeReader, off int64, what string, endian Endianness) (T, error) {
	buf := make([]byte, sizeOf[T]())
	if err := sr.ReadAt(buf, off, what); err != nil {
		var zero T
		return zero, err
	}
	return decode[T](buf, endian), nil
}

// Uint decodes a value of type T from the start of b.
// b must hold at least sizeof(T) bytes.
func Uint[T Unsigned](b []byte, endian Endianness) T {
	return decode[T](b, endian)
}

// PutUint encodes v into the start of b.
func PutUint[T Unsigned](b []byte, v T, endian Endianness) {
	n := sizeOf[T]()
	u := uint64(v)
	for i := 0; i < n; i++ {
		shift := uint(8 * i)
		if endian == BigEndian {
			shift = uint(8 * (n - 1 - i))
		}
		b[i] = byte(u >> shift)
	}
}
