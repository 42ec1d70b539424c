package cser

import (
	"errors"

	"github.com/rony4d/go-epoch-audit/utils/bits"
	"github.com/rony4d/go-epoch-audit/utils/fast"
)

var (
	// ErrNonCanonicalEncoding is returned when a value was not packed
	// minimally or pad bits are non-zero.
	ErrNonCanonicalEncoding = errors.New("non canonical encoding")
	// ErrMalformedEncoding is returned when the blob structure is invalid or
	// truncated.
	ErrMalformedEncoding = errors.New("malformed encoding")
	// ErrTooLargeAlloc is returned when a decoded size exceeds the allowed
	// allocation limit.
	ErrTooLargeAlloc = errors.New("too large allocation")
)

// MaxAlloc bounds decoded byte-slice sizes.
const MaxAlloc = 100 * 1024

// Writer serializes into the two streams.
type Writer struct {
	BitsW  *bits.Writer // booleans and length fields
	BytesW *fast.Writer // value bytes
}

// Reader deserializes from the two streams.
type Reader struct {
	BitsR  *bits.Reader
	BytesR *fast.Reader
}

// NewWriter creates a ready-to-use writer with pre-allocated buffers.
func NewWriter() *Writer {
	return &Writer{
		BitsW:  bits.NewWriter(&bits.Array{Bytes: make([]byte, 0, 32)}),
		BytesW: fast.NewWriter(make([]byte, 0, 200)),
	}
}

// writeUint64Compact is a base-128 varint with inverted continuation logic:
// the MSB marks the LAST byte. Used only for the blob's length suffix.
func writeUint64Compact(bytesW *fast.Writer, v uint64) {
	for {
		chunk := v & 0x7f
		v >>= 7
		if v == 0 {
			chunk |= 0x80
		}
		bytesW.WriteByte(byte(chunk))
		if v == 0 {
			return
		}
	}
}

func readUint64Compact(bytesR *fast.Reader) uint64 {
	v := uint64(0)
	stop := false
	for i := 0; !stop; i++ {
		chunk := uint64(bytesR.ReadByte())
		stop = (chunk & 0x80) != 0
		word := chunk & 0x7f
		v |= word << (i * 7)
		// a zero top word means the value used more bytes than needed
		if i > 0 && stop && word == 0 {
			panic(ErrNonCanonicalEncoding)
		}
	}
	return v
}

// writeUint64BitCompact writes v little-endian using the fewest bytes, but at
// least minSize. Returns the byte count, which the caller records in the bit
// stream.
func writeUint64BitCompact(bytesW *fast.Writer, v uint64, minSize int) (size int) {
	for size < minSize || v != 0 {
		bytesW.WriteByte(byte(v))
		size++
		v >>= 8
	}
	return
}

func readUint64BitCompact(bytesR *fast.Reader, size int) uint64 {
	var (
		v    uint64
		last byte
	)
	for i, b := range bytesR.Read(size) {
		v |= uint64(b) << uint(8*i)
		last = b
	}
	// a zero top byte means the value used more bytes than needed
	if size > 1 && last == 0 {
		panic(ErrNonCanonicalEncoding)
	}
	return v
}

// readU64 reads the byte count from the bit stream, then the value bytes.
func (r *Reader) readU64(minSize int, bitsForSize int) uint64 {
	size := r.BitsR.Read(bitsForSize)
	size += uint(minSize)
	return readUint64BitCompact(r.BytesR, int(size))
}

// writeU64 writes the value bytes, then records the byte count in the bit
// stream.
func (w *Writer) writeU64(minSize int, bitsForSize int, v uint64) {
	size := writeUint64BitCompact(w.BytesW, v, minSize)
	w.BitsW.Write(bitsForSize, uint(size-minSize))
}

// U8 writes a raw byte. No length field needed.
func (w *Writer) U8(v uint8) {
	w.BytesW.WriteByte(v)
}

func (r *Reader) U8() uint8 {
	return r.BytesR.ReadByte()
}

// U16 uses 1 length bit (1 or 2 value bytes).
func (w *Writer) U16(v uint16) {
	w.writeU64(1, 1, uint64(v))
}

func (r *Reader) U16() uint16 {
	return uint16(r.readU64(1, 1))
}

// U32 uses 2 length bits (1..4 value bytes).
func (w *Writer) U32(v uint32) {
	w.writeU64(1, 2, uint64(v))
}

func (r *Reader) U32() uint32 {
	return uint32(r.readU64(1, 2))
}

// U64 uses 3 length bits (1..8 value bytes).
func (w *Writer) U64(v uint64) {
	w.writeU64(1, 3, v)
}

func (r *Reader) U64() uint64 {
	return r.readU64(1, 3)
}

// U56 encodes slice lengths: 3 length bits, 0..7 value bytes.
func (w *Writer) U56(v uint64) {
	const max = 1<<(8*7) - 1
	if v > max {
		panic("value out of range")
	}
	w.writeU64(0, 3, v)
}

func (r *Reader) U56() uint64 {
	return r.readU64(0, 3)
}

// Bool writes a single bit.
func (w *Writer) Bool(v bool) {
	u := uint(0)
	if v {
		u = 1
	}
	w.BitsW.Write(1, u)
}

func (r *Reader) Bool() bool {
	return r.BitsR.Read(1) != 0
}

// FixedBytes writes raw bytes with no length field; the reader must know the
// size.
func (w *Writer) FixedBytes(v []byte) {
	w.BytesW.Write(v)
}

func (r *Reader) FixedBytes(v []byte) {
	copy(v, r.BytesR.Read(len(v)))
}

// SliceBytes writes a length-prefixed byte slice.
func (w *Writer) SliceBytes(v []byte) {
	w.U56(uint64(len(v)))
	w.FixedBytes(v)
}

func (r *Reader) SliceBytes(maxLen int) []byte {
	size := r.U56()
	if size > uint64(maxLen) {
		panic(ErrTooLargeAlloc)
	}
	buf := make([]byte, size)
	r.FixedBytes(buf)
	return buf
}
