package iepoch

import (
	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
)

// HistoryRecord bundles the complete state snapshot taken when an epoch was
// sealed: the block state as of the sealing block and the epoch state that
// the seal committed. Together they are everything needed to audit a past
// reconfiguration decision.
type HistoryRecord struct {
	// BlockState is the per-block state as of the very last block of the
	// sealed epoch.
	BlockState BlockState

	// EpochState is the epoch state committed by the seal: the new
	// validator set, profiles, and the rules that were in force.
	EpochState EpochState
}

// IdxHistoryRecord wraps HistoryRecord with the epoch the seal opened,
// associating the snapshot with its position in history.
type IdxHistoryRecord struct {
	HistoryRecord
	Idx idx.Epoch
}

// Hash is a deterministic fingerprint of the whole record, combining the
// hashes of both state snapshots.
func (hr HistoryRecord) Hash() hash.Hash {
	return hash.Of(hr.BlockState.Hash().Bytes(), hr.EpochState.Hash().Bytes())
}
