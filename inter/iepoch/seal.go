package iepoch

import (
	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"

	"github.com/rony4d/go-epoch-audit/inter"
	"github.com/rony4d/go-epoch-audit/utils/cser"
)

// maxSealJailed bounds the jailed list during decoding. A seal can never
// jail more validators than a set contains, and sets are small.
const maxSealJailed = 10000

// SealRecord is the reconfiguration event emitted when an epoch is sealed.
// It is both the return value of the seal operation and the payload delivered
// to event subscribers (the consensus/networking layer reacts to the
// validator-set change it announces).
type SealRecord struct {
	// Epoch is the epoch number entered by the seal.
	Epoch idx.Epoch

	// Time is the block time at which the epoch was sealed.
	Time inter.Timestamp

	// OldSize and NewSize are the validator-set sizes before and after the
	// seal. OldSize - NewSize equals the jailed-set cardinality.
	OldSize uint32
	NewSize uint32

	// Jailed lists the validators removed by this seal, in ascending ID
	// order.
	Jailed []idx.ValidatorID

	// EpochStateHash fingerprints the committed EpochState, so subscribers
	// can cross-check that they derived the same post-seal state.
	EpochStateHash hash.Hash
}

// Hash calculates a deterministic hash of the record. Subscribers on
// different nodes must derive the same hash for the same seal.
func (r SealRecord) Hash() hash.Hash {
	jailed := make([]byte, 0, len(r.Jailed)*4)
	for _, id := range r.Jailed {
		jailed = append(jailed, bigendian.Uint32ToBytes(uint32(id))...)
	}
	return hash.Of(
		bigendian.Uint32ToBytes(uint32(r.Epoch)),
		r.Time.Bytes(),
		bigendian.Uint32ToBytes(r.OldSize),
		bigendian.Uint32ToBytes(r.NewSize),
		jailed,
		r.EpochStateHash.Bytes(),
	)
}

// MarshalCSER writes the record into the canonical split-stream encoding.
func (r SealRecord) MarshalCSER(w *cser.Writer) error {
	w.U32(uint32(r.Epoch))
	w.U64(uint64(r.Time))
	w.U32(r.OldSize)
	w.U32(r.NewSize)
	w.U32(uint32(len(r.Jailed)))
	for _, id := range r.Jailed {
		w.U32(uint32(id))
	}
	w.FixedBytes(r.EpochStateHash.Bytes())
	return nil
}

// UnmarshalCSER reads the record from the canonical encoding.
func (r *SealRecord) UnmarshalCSER(reader *cser.Reader) error {
	r.Epoch = idx.Epoch(reader.U32())
	r.Time = inter.Timestamp(reader.U64())
	r.OldSize = reader.U32()
	r.NewSize = reader.U32()
	jailedLen := reader.U32()
	if jailedLen > maxSealJailed {
		return cser.ErrTooLargeAlloc
	}
	r.Jailed = make([]idx.ValidatorID, jailedLen)
	for i := range r.Jailed {
		r.Jailed[i] = idx.ValidatorID(reader.U32())
	}
	h := make([]byte, 32)
	reader.FixedBytes(h)
	r.EpochStateHash = hash.BytesToHash(h)
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r SealRecord) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(r.MarshalCSER)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *SealRecord) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, r.UnmarshalCSER)
}
