// Package versioned decodes and encodes the self-describing "versioned"
// serialization used by replay header and details records.
//
// Every value starts with a one byte kind tag. Structs carry numeric field
// tags instead of names, so a reader can skip fields it does not know about;
// that is what lets one decoder read records written by many client versions.
// Mapping tags to meaning is left to the schema packages.
package versioned

import (
	"fmt"
	"strings"
)

// Kind is the wire tag preceding every value.
type Kind uint8

const (
	KindArray    Kind = 0
	KindBitArray Kind = 1
	KindBlob     Kind = 2
	KindChoice   Kind = 3
	KindOptional Kind = 4
	KindStruct   Kind = 5
	KindU8       Kind = 6
	KindU32      Kind = 7
	KindU64      Kind = 8
	KindVInt     Kind = 9
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindBitArray:
		return "bitarray"
	case KindBlob:
		return "blob"
	case KindChoice:
		return "choice"
	case KindOptional:
		return "optional"
	case KindStruct:
		return "struct"
	case KindU8:
		return "u8"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindVInt:
		return "vint"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Field is one tagged member of a struct value.
type Field struct {
	Tag   int64
	Value Value
}

// Value is a decoded value of any kind.
type Value struct {
	Kind Kind

	num    int64   // vint value, choice tag, bit count
	data   []byte  // blob, bit array, u8/u32/u64 big-endian payload
	elems  []Value // array elements; the single child of a choice or present optional
	fields []Field
}

// TypeError reports a value of an unexpected kind.
type TypeError struct {
	Want Kind
	Got  Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("versioned: expected %s, got %s", e.Want, e.Got)
}

func (v Value) expect(k Kind) error {
	if v.Kind != k {
		return &TypeError{Want: k, Got: v.Kind}
	}
	return nil
}

// Field returns the struct member with the given tag.
func (v Value) Field(tag int64) (Value, bool) {
	for _, f := range v.fields {
		if f.Tag == tag {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Fields returns the struct members in wire order.
func (v Value) Fields() []Field {
	return v.fields
}

// Int returns a vint, or a fixed-size unsigned value widened to int64.
func (v Value) Int() (int64, error) {
	switch v.Kind {
	case KindVInt:
		return v.num, nil
	case KindU8, KindU32, KindU64:
		u, err := v.Uint()
		return int64(u), err
	default:
		return 0, &TypeError{Want: KindVInt, Got: v.Kind}
	}
}

// Uint returns a fixed-size unsigned value, or a non-negative vint.
func (v Value) Uint() (uint64, error) {
	switch v.Kind {
	case KindU8, KindU32, KindU64:
		var u uint64
		for _, b := range v.data {
			u = u<<8 | uint64(b)
		}
		return u, nil
	case KindVInt:
		if v.num < 0 {
			return 0, fmt.Errorf("versioned: negative value %d where unsigned expected", v.num)
		}
		return uint64(v.num), nil
	default:
		return 0, &TypeError{Want: KindU32, Got: v.Kind}
	}
}

// Bool returns a u8 flag.
func (v Value) Bool() (bool, error) {
	if v.Kind == KindVInt {
		return v.num != 0, nil
	}
	if err := v.expect(KindU8); err != nil {
		return false, err
	}
	return v.data[0] != 0, nil
}

// Blob returns the bytes of a blob. The result aliases the decoded input.
func (v Value) Blob() ([]byte, error) {
	if err := v.expect(KindBlob); err != nil {
		return nil, err
	}
	return v.data, nil
}

// FourCC returns a u32 read as four characters with trailing NULs removed.
func (v Value) FourCC() (string, error) {
	if err := v.expect(KindU32); err != nil {
		return "", err
	}
	return strings.TrimRight(string(v.data), "\x00"), nil
}

// BitArray returns the bit count and packed bits.
func (v Value) BitArray() (int64, []byte, error) {
	if err := v.expect(KindBitArray); err != nil {
		return 0, nil, err
	}
	return v.num, v.data, nil
}

// Array returns the elements of an array.
func (v Value) Array() ([]Value, error) {
	if err := v.expect(KindArray); err != nil {
		return nil, err
	}
	return v.elems, nil
}

// Optional returns the wrapped value and whether it is present.
func (v Value) Optional() (Value, bool, error) {
	if err := v.expect(KindOptional); err != nil {
		return Value{}, false, err
	}
	if len(v.elems) == 0 {
		return Value{}, false, nil
	}
	return v.elems[0], true, nil
}

// Choice returns the selected alternative and its tag.
func (v Value) Choice() (int64, Value, error) {
	if err := v.expect(KindChoice); err != nil {
		return 0, Value{}, err
	}
	return v.num, v.elems[0], nil
}

// Unwrap follows present optionals and returns the innermost value.
// An absent optional stays as is.
func (v Value) Unwrap() Value {
	for v.Kind == KindOptional && len(v.elems) == 1 {
		v = v.elems[0]
	}
	return v
}
