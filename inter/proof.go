package inter

import (
	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-epoch-audit/utils/cser"
)

// ProofSubmission is the wire form of one participation proof. A validator
// submits these during the epoch; the ledger credits one unit per accepted
// submission. The signer must be the validator itself, which the ledger
// enforces on apply.
type ProofSubmission struct {
	// Epoch is the epoch the proof counts toward. A submission carried over
	// a reconfiguration boundary is stale and must be rejected by the
	// transaction layer.
	Epoch idx.Epoch

	// Validator is the submitting validator's account. It is both the signer
	// and the credited record, per the self-reporting ownership rule.
	Validator common.Address

	// Seq is the validator's submission sequence number within the epoch,
	// starting at 1. Duplicate sequence numbers are rejected upstream.
	Seq uint64
}

// Hash calculates a deterministic digest of the submission.
func (p ProofSubmission) Hash() hash.Hash {
	return hash.Of(
		bigendian.Uint32ToBytes(uint32(p.Epoch)),
		p.Validator.Bytes(),
		bigendian.Uint64ToBytes(p.Seq),
	)
}

// MarshalCSER writes the submission into the canonical encoding.
func (p ProofSubmission) MarshalCSER(w *cser.Writer) error {
	w.U32(uint32(p.Epoch))
	w.FixedBytes(p.Validator.Bytes())
	w.U64(p.Seq)
	return nil
}

// UnmarshalCSER reads the submission from the canonical encoding.
func (p *ProofSubmission) UnmarshalCSER(r *cser.Reader) error {
	p.Epoch = idx.Epoch(r.U32())
	addr := make([]byte, common.AddressLength)
	r.FixedBytes(addr)
	p.Validator = common.BytesToAddress(addr)
	p.Seq = r.U64()
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p ProofSubmission) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(p.MarshalCSER)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *ProofSubmission) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, p.UnmarshalCSER)
}
