package versioned

import (
	"bytes"
	"errors"
	"testing"
)

func TestVInt(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		wire []byte
	}{
		{name: "zero", n: 0, wire: []byte{0x00}},
		{name: "small positive", n: 5, wire: []byte{0x0a}},
		{name: "small negative", n: -5, wire: []byte{0x0b}},
		{name: "largest single byte", n: 63, wire: []byte{0x7e}},
		{name: "two bytes", n: 64, wire: []byte{0x80, 0x01}},
		{name: "base build", n: 94137, wire: appendVInt(nil, 94137)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := appendVInt(nil, tt.n)
			if !bytes.Equal(wire, tt.wire) {
				t.Errorf("appendVInt(%d) = %x, want %x", tt.n, wire, tt.wire)
			}
			d := &decoder{c: newCursor(wire)}
			got, err := d.vint()
			if err != nil {
				t.Fatalf("vint() error = %v", err)
			}
			if got != tt.n {
				t.Errorf("vint() = %d, want %d", got, tt.n)
			}
		})
	}
}

func TestDecode_Struct(t *testing.T) {
	// struct{0: blob "Zerg", 2: u8 1, 4: vint -3}
	wire := []byte{
		0x05, 0x06, // struct, 3 fields
		0x00, 0x02, 0x08, 'Z', 'e', 'r', 'g', // tag 0: blob len 4
		0x04, 0x06, 0x01, // tag 2: u8 1
		0x08, 0x09, 0x07, // tag 4: vint -3
	}

	v, err := Decode(wire)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if v.Kind != KindStruct || len(v.Fields()) != 3 {
		t.Fatalf("Decode() = %v with %d fields", v.Kind, len(v.Fields()))
	}

	race, _ := v.Field(0)
	if b, err := race.Blob(); err != nil || string(b) != "Zerg" {
		t.Errorf("field 0 = %q, %v", b, err)
	}
	flag, _ := v.Field(2)
	if ok, err := flag.Bool(); err != nil || !ok {
		t.Errorf("field 2 = %v, %v", ok, err)
	}
	n, _ := v.Field(4)
	if i, err := n.Int(); err != nil || i != -3 {
		t.Errorf("field 4 = %d, %v", i, err)
	}
	if _, ok := v.Field(9); ok {
		t.Error("Field(9) should be absent")
	}
}

func TestDecode_Errors(t *testing.T) {
	deep := bytes.Repeat([]byte{0x04, 0x01}, maxDepth+1)

	tests := []struct {
		name string
		wire []byte
	}{
		{name: "empty", wire: nil},
		{name: "unknown kind", wire: []byte{0x0c}},
		{name: "truncated blob", wire: []byte{0x02, 0x0a, 'a'}},
		{name: "negative blob length", wire: []byte{0x02, 0x03}},
		{name: "array longer than input", wire: []byte{0x00, 0x7e}},
		{name: "truncated u32", wire: []byte{0x07, 0x01, 0x02}},
		{name: "unterminated vint", wire: []byte{0x09, 0x80, 0x80}},
		{name: "nesting too deep", wire: deep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.wire)
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("Decode() error = %v, want *SyntaxError", err)
			}
		})
	}
}

func TestValue_TypeErrors(t *testing.T) {
	v := String("Terran")

	if _, err := v.Int(); err == nil {
		t.Error("Int() on blob should fail")
	}
	var te *TypeError
	if _, err := v.Array(); !errors.As(err, &te) || te.Want != KindArray || te.Got != KindBlob {
		t.Errorf("Array() on blob error = %v", err)
	}
	if _, _, err := Int(1).Optional(); err == nil {
		t.Error("Optional() on vint should fail")
	}
}

func TestValue_Unwrap(t *testing.T) {
	v := Some(Some(Int(7)))
	if n, err := v.Unwrap().Int(); err != nil || n != 7 {
		t.Errorf("Unwrap().Int() = %d, %v", n, err)
	}
	if got := None().Unwrap(); got.Kind != KindOptional {
		t.Errorf("None().Unwrap() kind = %v", got.Kind)
	}
}
