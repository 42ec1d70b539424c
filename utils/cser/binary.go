// Package cser implements the canonical split-stream serialization used for
// audit wire records (proof submissions, seal records).
//
// Values are written into two streams: a byte stream for value bytes and a
// bit stream for boolean flags and per-value length fields. On the wire the
// two are packed as
//
//	[ body bytes ] [ bit-stream bytes ] [ reversed varint len(bit-stream) ]
//
// with the length suffix written in reverse so a decoder can scan backwards
// from the end of the blob. Decoding enforces canonical form: every value
// must be packed minimally and all bits/bytes must be consumed.
package cser

import (
	"github.com/rony4d/go-epoch-audit/utils/bits"
	"github.com/rony4d/go-epoch-audit/utils/fast"
)

// MarshalBinaryAdapter runs the given marshaling callback against a fresh
// Writer and packs both streams into one blob.
func MarshalBinaryAdapter(marshalCser func(*Writer) error) ([]byte, error) {
	w := NewWriter()
	err := marshalCser(w)
	if err != nil {
		return nil, err
	}
	return binaryFromCSER(w.BitsW.Array, w.BytesW.Bytes())
}

func binaryFromCSER(bbits *bits.Array, bbytes []byte) (raw []byte, err error) {
	body := fast.NewWriter(bbytes)
	body.Write(bbits.Bytes)

	// length suffix, reversed so the reader can parse it from the tail
	size := fast.NewWriter(make([]byte, 0, 4))
	writeUint64Compact(size, uint64(len(bbits.Bytes)))
	body.Write(reversed(size.Bytes()))

	return body.Bytes(), nil
}

func binaryToCSER(raw []byte) (bbits *bits.Array, bbytes []byte, err error) {
	// parse the length suffix backwards (9 bytes covers any 64-bit varint)
	sizeBuf := reversed(tail(raw, 9))
	sizeReader := fast.NewReader(sizeBuf)
	bitsSize := readUint64Compact(sizeReader)

	raw = raw[:len(raw)-sizeReader.Position()]
	if uint64(len(raw)) < bitsSize {
		err = ErrMalformedEncoding
		return
	}

	bbits = &bits.Array{Bytes: raw[uint64(len(raw))-bitsSize:]}
	bbytes = raw[:uint64(len(raw))-bitsSize]
	return
}

// UnmarshalBinaryAdapter splits the blob back into the two streams, runs the
// given unmarshaling callback, and verifies that the encoding was canonical:
// no leftover bytes, no leftover non-zero bits.
func UnmarshalBinaryAdapter(raw []byte, unmarshalCser func(reader *Reader) error) (err error) {
	// the fast readers panic on truncated input
	defer func() {
		if r := recover(); r != nil {
			err = ErrMalformedEncoding
		}
	}()

	bbits, bbytes, err := binaryToCSER(raw)
	if err != nil {
		return err
	}

	bodyReader := &Reader{
		BitsR:  bits.NewReader(bbits),
		BytesR: fast.NewReader(bbytes),
	}

	err = unmarshalCser(bodyReader)
	if err != nil {
		return err
	}

	if bodyReader.BitsR.NonReadBytes() > 1 {
		return ErrNonCanonicalEncoding
	}
	// trailing pad bits of the last byte must be zero
	pad := bodyReader.BitsR.Read(bodyReader.BitsR.NonReadBits())
	if pad != 0 {
		return ErrNonCanonicalEncoding
	}
	if !bodyReader.BytesR.Empty() {
		return ErrNonCanonicalEncoding
	}

	return nil
}

func tail(b []byte, cap int) []byte {
	if len(b) > cap {
		return b[len(b)-cap:]
	}
	return b
}

func reversed(b []byte) []byte {
	rev := make([]byte, len(b))
	for i, v := range b {
		rev[len(b)-1-i] = v
	}
	return rev
}
