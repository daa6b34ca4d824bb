package binary

import (
	"strings"
	"testing"
)

func TestCursor(t *testing.T) {
	c := NewCursor([]byte{0x05, 0x02, 'h', 'i'}, "replay.details")

	b, err := c.Byte()
	if err != nil || b != 0x05 {
		t.Fatalf("Byte() = %d, %v", b, err)
	}
	if err := c.Skip(1); err != nil {
		t.Fatalf("Skip failed: %v", err)
	}
	s, err := c.Bytes(2)
	if err != nil || string(s) != "hi" {
		t.Fatalf("Bytes(2) = %q, %v", s, err)
	}
	if c.Remaining() != 0 || c.Offset() != 4 {
		t.Errorf("Remaining() = %d, Offset() = %d", c.Remaining(), c.Offset())
	}

	_, err = c.Byte()
	if err == nil {
		t.Fatal("expected error reading past end")
	}
	if !strings.Contains(err.Error(), "replay.details") {
		t.Errorf("error should name the buffer: %v", err)
	}
	if _, err := c.Bytes(-1); err == nil {
		t.Error("negative length should fail")
	}
}
