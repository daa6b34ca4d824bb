package binary

import "fmt"

// Cursor reads sequentially from an in-memory buffer.
//
// Unlike Reader it never touches an io.ReaderAt, which makes it the right
// tool for small decoded blobs such as the replay header segment.
type Cursor struct {
	buf  []byte
	off  int
	what string
}

// NewCursor returns a Cursor over b. what names the buffer in error messages.
func NewCursor(b []byte, what string) *Cursor {
	return &Cursor{buf: b, what: what}
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int {
	return c.off
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.off
}

// Byte reads one byte.
func (c *Cursor) Byte() (byte, error) {
	if c.off >= len(c.buf) {
		return 0, c.eof(1)
	}
	b := c.buf[c.off]
	c.off++
	return b, nil
}

// Bytes returns the next n bytes. The result aliases the underlying buffer.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, c.eof(n)
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// Skip discards n bytes.
func (c *Cursor) Skip(n int) error {
	_, err := c.Bytes(n)
	return err
}

func (c *Cursor) eof(n int) error {
	return fmt.Errorf("%s: read of %d bytes at offset %d exceeds length %d",
		c.what, n, c.off, len(c.buf))
}
