package versioned

import (
	"bytes"

	"github.com/simonhull/replaysort/internal/binary"
)

// Int returns a vint value.
func Int(n int64) Value { return Value{Kind: KindVInt, num: n} }

// U8 returns a one byte value.
func U8(b uint8) Value { return Value{Kind: KindU8, data: []byte{b}} }

// Bool returns a u8 flag.
func Bool(b bool) Value {
	if b {
		return U8(1)
	}
	return U8(0)
}

// U32 returns a four byte value.
func U32(n uint32) Value {
	b := make([]byte, 4)
	binary.PutUint(b, n, binary.BigEndian)
	return Value{Kind: KindU32, data: b}
}

// U64 returns an eight byte value.
func U64(n uint64) Value {
	b := make([]byte, 8)
	binary.PutUint(b, n, binary.BigEndian)
	return Value{Kind: KindU64, data: b}
}

// FourCC returns a u32 holding up to four characters, NUL padded.
func FourCC(s string) Value {
	b := make([]byte, 4)
	copy(b, s)
	return Value{Kind: KindU32, data: b}
}

// Blob returns a byte string value.
func Blob(b []byte) Value { return Value{Kind: KindBlob, data: b} }

// String returns a blob holding s.
func String(s string) Value { return Blob([]byte(s)) }

// BitArray returns a bit array of n bits packed in b.
func BitArray(n int64, b []byte) Value { return Value{Kind: KindBitArray, num: n, data: b} }

// Array returns an array of elems.
func Array(elems ...Value) Value { return Value{Kind: KindArray, elems: elems} }

// Some returns a present optional.
func Some(v Value) Value { return Value{Kind: KindOptional, elems: []Value{v}} }

// None returns an absent optional.
func None() Value { return Value{Kind: KindOptional} }

// Choice returns alternative tag holding v.
func Choice(tag int64, v Value) Value { return Value{Kind: KindChoice, num: tag, elems: []Value{v}} }

// F builds a struct field.
func F(tag int64, v Value) Field { return Field{Tag: tag, Value: v} }

// Struct returns a struct of fields, kept in the given order.
func Struct(fields ...Field) Value { return Value{Kind: KindStruct, fields: fields} }

// Encode serializes v.
func Encode(v Value) []byte {
	buf := &bytes.Buffer{}
	sw := binary.NewSafeWriter(buf)
	encode(sw, v)
	// bytes.Buffer writes cannot fail.
	return buf.Bytes()
}

func appendVInt(dst []byte, n int64) []byte {
	u, sign := uint64(n), byte(0)
	if n < 0 {
		u, sign = uint64(-n), 1
	}
	b := byte(u&0x3f)<<1 | sign
	u >>= 6
	for u != 0 {
		dst = append(dst, b|0x80)
		b = byte(u & 0x7f)
		u >>= 7
	}
	return append(dst, b)
}

func writeVInt(sw *binary.SafeWriter, n int64) {
	sw.WriteBytes(appendVInt(nil, n))
}

func encode(sw *binary.SafeWriter, v Value) {
	sw.WriteByte(byte(v.Kind))

	switch v.Kind {
	case KindArray:
		writeVInt(sw, int64(len(v.elems)))
		for _, e := range v.elems {
			encode(sw, e)
		}
	case KindBitArray:
		writeVInt(sw, v.num)
		sw.WriteBytes(v.data)
	case KindBlob:
		writeVInt(sw, int64(len(v.data)))
		sw.WriteBytes(v.data)
	case KindChoice:
		writeVInt(sw, v.num)
		encode(sw, v.elems[0])
	case KindOptional:
		if len(v.elems) == 0 {
			sw.WriteByte(0)
			return
		}
		sw.WriteByte(1)
		encode(sw, v.elems[0])
	case KindStruct:
		writeVInt(sw, int64(len(v.fields)))
		for _, f := range v.fields {
			writeVInt(sw, f.Tag)
			encode(sw, f.Value)
		}
	case KindU8, KindU32, KindU64:
		sw.WriteBytes(v.data)
	case KindVInt:
		writeVInt(sw, v.num)
	}
}
