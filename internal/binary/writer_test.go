package binary

import (
	"bytes"
	"errors"
	"testing"
)

func TestSafeWriter_ByteOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	sw := NewSafeWriter(buf)

	Write[uint32](sw, 0x12345678)
	WriteLE[uint32](sw, 0x12345678)
	WriteLE[uint16](sw, 0x0102)
	sw.WriteByte(0xFF)

	want := []byte{0x12, 0x34, 0x56, 0x78, 0x78, 0x56, 0x34, 0x12, 0x02, 0x01, 0xFF}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got %x, want %x", buf.Bytes(), want)
	}
	if sw.Offset() != int64(len(want)) {
		t.Errorf("Offset() = %d, want %d", sw.Offset(), len(want))
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSafeWriter_StickyError(t *testing.T) {
	sw := NewSafeWriter(failingWriter{})

	if err := WriteLE[uint32](sw, 1); err == nil {
		t.Fatal("expected write error")
	}
	if err := sw.WriteBytes([]byte("more")); err == nil || err.Error() != "disk full" {
		t.Errorf("second write error = %v, want the first error", err)
	}
	if sw.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", sw.Offset())
	}
}
