package binary

import (
	"io"
)

// SafeWriter wraps io.Writer with position tracking.
type SafeWriter struct {
	w      io.Writer
	offset int64
	err    error
}

// NewSafeWriter creates a new SafeWriter.
func NewSafeWriter(w io.Writer) *SafeWriter {
	return &SafeWriter{w: w}
}

// Offset returns the current position (number of bytes written).
func (sw *SafeWriter) Offset() int64 {
	return sw.offset
}

// Err returns the first write error, if any. Once a write fails, later
// writes are no-ops.
func (sw *SafeWriter) Err() error {
	return sw.err
}

// WriteBytes writes raw bytes to the underlying writer.
func (sw *SafeWriter) WriteBytes(b []byte) error {
	if sw.err != nil {
		return sw.err
	}
	n, err := sw.w.Write(b)
	sw.offset += int64(n)
	sw.err = err
	return err
}

// WriteByte writes a single byte.
func (sw *SafeWriter) WriteByte(b byte) error {
	return sw.WriteBytes([]byte{b})
}

// Write writes a value of type T in big-endian byte order.
func Write[T Unsigned](sw *SafeWriter, val T) error {
	buf := make([]byte, sizeOf[T]())
	PutUint(buf, val, BigEndian)
	return sw.WriteBytes(buf)
}

// WriteLE writes a value of type T in little-endian byte order.
func WriteLE[T Unsigned](sw *SafeWriter, val T) error {
	buf := make([]byte, sizeOf[T]())
	PutUint(buf, val, LittleEndian)
	return sw.WriteBytes(buf)
}
