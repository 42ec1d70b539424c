package bits

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWriteReadRoundTrip writes a deterministic pseudo-random sequence of
// bit chunks and reads it back, crossing byte boundaries at every width.
func TestWriteReadRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(0))

	type chunk struct {
		bits int
		v    uint
	}

	arr := &Array{Bytes: make([]byte, 0, 64)}
	w := NewWriter(arr)

	chunks := make([]chunk, 0, 200)
	for i := 0; i < 200; i++ {
		bits := 1 + r.Intn(16)
		v := uint(r.Uint32()) & ((1 << uint(bits)) - 1)
		chunks = append(chunks, chunk{bits, v})
		w.Write(bits, v)
	}

	reader := NewReader(arr)
	for i, c := range chunks {
		got := reader.Read(c.bits)
		require.Equal(t, c.v, got, "chunk %d (%d bits)", i, c.bits)
	}
}

func TestSingleBits(t *testing.T) {
	arr := &Array{}
	w := NewWriter(arr)

	pattern := []uint{1, 0, 1, 1, 0, 0, 1, 0, 1, 1}
	for _, b := range pattern {
		w.Write(1, b)
	}

	reader := NewReader(arr)
	for i, want := range pattern {
		assert.Equal(t, want, reader.Read(1), "bit %d", i)
	}
}

// TestView verifies peeking does not advance the cursor.
func TestView(t *testing.T) {
	require := require.New(t)

	arr := &Array{}
	w := NewWriter(arr)
	w.Write(5, 0x15)
	w.Write(7, 0x51)

	reader := NewReader(arr)
	require.Equal(uint(0x15), reader.View(5))
	require.Equal(uint(0x15), reader.Read(5))
	require.Equal(uint(0x51), reader.View(7))
	require.Equal(uint(0x51), reader.Read(7))
}

func TestReadZeroBits(t *testing.T) {
	arr := &Array{Bytes: []byte{0xff}}
	reader := NewReader(arr)
	assert.Equal(t, uint(0), reader.Read(0))
	assert.Equal(t, 1, reader.NonReadBytes())
}

func TestNonReadCounters(t *testing.T) {
	require := require.New(t)

	arr := &Array{}
	w := NewWriter(arr)
	w.Write(12, 0xabc)

	reader := NewReader(arr)
	require.Equal(2, reader.NonReadBytes())
	require.Equal(16, reader.NonReadBits())

	reader.Read(3)
	require.Equal(2, reader.NonReadBytes())
	require.Equal(13, reader.NonReadBits())

	reader.Read(5)
	require.Equal(1, reader.NonReadBytes())
	require.Equal(8, reader.NonReadBits())
}
