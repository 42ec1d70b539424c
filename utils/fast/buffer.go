// Package fast provides minimal byte-slice readers and writers for the hot
// serialization path. There is no bounds checking: reading past the end
// panics, and callers (the canonical codec) recover and surface a malformed-
// encoding error.
package fast

// Reader consumes a byte slice linearly.
type Reader struct {
	buf    []byte
	offset int
}

// Writer appends to a byte slice.
type Writer struct {
	buf []byte
}

// NewReader wraps the given slice for consumption.
func NewReader(bb []byte) *Reader {
	return &Reader{
		buf: bb,
	}
}

// NewWriter wraps the given slice for appends. Pass a slice with pre-
// allocated capacity to avoid growth.
func NewWriter(bb []byte) *Writer {
	return &Writer{
		buf: bb,
	}
}

// WriteByte appends one byte.
func (b *Writer) WriteByte(v byte) {
	b.buf = append(b.buf, v)
}

// Write appends a slice of bytes.
func (b *Writer) Write(v []byte) {
	b.buf = append(b.buf, v...)
}

// Read consumes and returns the next n bytes. The returned slice shares
// memory with the underlying buffer. Panics if fewer than n bytes remain.
func (b *Reader) Read(n int) []byte {
	res := b.buf[b.offset : b.offset+n]
	b.offset += n
	return res
}

// ReadByte consumes one byte. Panics if the buffer is exhausted.
func (b *Reader) ReadByte() byte {
	res := b.buf[b.offset]
	b.offset++
	return res
}

// Position returns how many bytes have been consumed.
func (b *Reader) Position() int {
	return b.offset
}

// Empty reports whether all bytes have been consumed.
func (b *Reader) Empty() bool {
	return len(b.buf) == b.offset
}

// Bytes returns the whole underlying buffer.
func (b *Reader) Bytes() []byte {
	return b.buf
}

// Bytes returns the accumulated content.
func (b *Writer) Bytes() []byte {
	return b.buf
}
