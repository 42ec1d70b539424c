package inter

import (
	"time"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
)

// Timestamp is a UNIX nanoseconds timestamp.
type Timestamp uint64

// FromUnix converts a wall-clock time into a Timestamp.
func FromUnix(t time.Time) Timestamp {
	return Timestamp(t.UnixNano())
}

// Time converts the Timestamp back into a wall-clock time.
func (t Timestamp) Time() time.Time {
	return time.Unix(0, int64(t))
}

// Bytes returns the big-endian encoding of the Timestamp.
func (t Timestamp) Bytes() []byte {
	return bigendian.Uint64ToBytes(uint64(t))
}

// MaxTimestamp returns the later of two timestamps.
func MaxTimestamp(x, y Timestamp) Timestamp {
	if x > y {
		return x
	}
	return y
}
