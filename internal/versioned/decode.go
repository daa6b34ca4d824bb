package versioned

import (
	"fmt"

	"github.com/simonhull/replaysort/internal/binary"
)

// maxDepth bounds nesting so hostile input cannot exhaust the stack.
// Real records nest fewer than ten levels.
const maxDepth = 64

// SyntaxError reports input that does not follow the wire format.
type SyntaxError struct {
	Offset int
	Msg    string
	Err    error
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("versioned: %s at offset %d: %v", e.Msg, e.Offset, e.Err)
	}
	return fmt.Sprintf("versioned: %s at offset %d", e.Msg, e.Offset)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

type decoder struct {
	c     *binary.Cursor
	depth int
}

// Decode decodes one value from the start of b. Trailing bytes are ignored.
// Blobs in the result alias b.
func Decode(b []byte) (Value, error) {
	d := &decoder{c: binary.NewCursor(b, "versioned record")}
	return d.value()
}

func (d *decoder) fail(msg string, err error) error {
	return &SyntaxError{Offset: d.c.Offset(), Msg: msg, Err: err}
}

// count reads a vint length and checks that at least minBytes per item remain.
func (d *decoder) count(what string, minBytes int) (int, error) {
	n, err := d.vint()
	if err != nil {
		return 0, err
	}
	if n < 0 || (minBytes > 0 && n > int64(d.c.Remaining()/minBytes)) {
		return 0, d.fail(fmt.Sprintf("%s length %d exceeds remaining input", what, n), nil)
	}
	return int(n), nil
}

func (d *decoder) vint() (int64, error) {
	b, err := d.c.Byte()
	if err != nil {
		return 0, d.fail("truncated vint", err)
	}
	negative := b&1 != 0
	result := uint64(b>>1) & 0x3f
	shift := uint(6)
	for b&0x80 != 0 {
		if shift > 63 {
			return 0, d.fail("vint overflows 64 bits", nil)
		}
		if b, err = d.c.Byte(); err != nil {
			return 0, d.fail("truncated vint", err)
		}
		result |= uint64(b&0x7f) << shift
		shift += 7
	}
	if negative {
		return -int64(result), nil
	}
	return int64(result), nil
}

func (d *decoder) fixed(k Kind, n int) (Value, error) {
	b, err := d.c.Bytes(n)
	if err != nil {
		return Value{}, d.fail("truncated "+k.String(), err)
	}
	return Value{Kind: k, data: b}, nil
}

func (d *decoder) value() (Value, error) {
	if d.depth >= maxDepth {
		return Value{}, d.fail("nesting too deep", nil)
	}
	d.depth++
	defer func() { d.depth-- }()

	tag, err := d.c.Byte()
	if err != nil {
		return Value{}, d.fail("truncated value", err)
	}

	switch k := Kind(tag); k {
	case KindArray:
		n, err := d.count("array", 1)
		if err != nil {
			return Value{}, err
		}
		v := Value{Kind: k, elems: make([]Value, n)}
		for i := range v.elems {
			if v.elems[i], err = d.value(); err != nil {
				return Value{}, err
			}
		}
		return v, nil

	case KindBitArray:
		bits, err := d.vint()
		if err != nil {
			return Value{}, err
		}
		if bits < 0 || (bits+7)/8 > int64(d.c.Remaining()) {
			return Value{}, d.fail(fmt.Sprintf("bit array length %d exceeds remaining input", bits), nil)
		}
		b, _ := d.c.Bytes(int((bits + 7) / 8))
		return Value{Kind: k, num: bits, data: b}, nil

	case KindBlob:
		n, err := d.count("blob", 1)
		if err != nil {
			return Value{}, err
		}
		b, _ := d.c.Bytes(n)
		return Value{Kind: k, data: b}, nil

	case KindChoice:
		sel, err := d.vint()
		if err != nil {
			return Value{}, err
		}
		inner, err := d.value()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: k, num: sel, elems: []Value{inner}}, nil

	case KindOptional:
		present, err := d.c.Byte()
		if err != nil {
			return Value{}, d.fail("truncated optional", err)
		}
		if present == 0 {
			return Value{Kind: k}, nil
		}
		inner, err := d.value()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: k, elems: []Value{inner}}, nil

	case KindStruct:
		n, err := d.count("struct", 2)
		if err != nil {
			return Value{}, err
		}
		v := Value{Kind: k, fields: make([]Field, n)}
		for i := range v.fields {
			if v.fields[i].Tag, err = d.vint(); err != nil {
				return Value{}, err
			}
			if v.fields[i].Value, err = d.value(); err != nil {
				return Value{}, err
			}
		}
		return v, nil

	case KindU8:
		return d.fixed(k, 1)
	case KindU32:
		return d.fixed(k, 4)
	case KindU64:
		return d.fixed(k, 8)

	case KindVInt:
		n, err := d.vint()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: k, num: n}, nil

	default:
		return Value{}, d.fail(fmt.Sprintf("unknown kind tag %d", tag), nil)
	}
}
