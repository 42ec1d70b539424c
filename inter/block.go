// Package inter defines the core data structures shared between the consensus
// layer and the epoch-audit subsystem. This file contains the Block structure,
// the per-block input the consensus layer hands to the audit engine's
// prologue hook.
//
// Key concepts:
//   - Block: consensus metadata of one finalized block (index, round, time)
//   - Proposer: the validator that produced the block
//   - Voters: the validators whose attestations were confirmed in the block
//
// The audit engine consumes one Block per prologue invocation. Voters feed the
// epoch vote tally; Time and Round drive the epoch-boundary trigger. The
// voter-set composition is allowed to change from block to block within the
// same epoch.
package inter

import (
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
)

// Block is the consensus-side summary of one finalized block, as delivered to
// the audit engine's block-prologue hook by the privileged system caller.
type Block struct {
	// Idx is the sequential block number.
	Idx idx.Block

	// Round is the consensus round that finalized the block. A deployment may
	// configure epoch sealing on a round threshold instead of (or alongside)
	// a time threshold.
	Round uint64

	// Time is the consensus timestamp of the block. It is derived from the
	// median time of validator events, so it is monotonic across blocks.
	Time Timestamp

	// Proposer is the validator that produced the block.
	Proposer idx.ValidatorID

	// Voters lists the validators whose votes/attestations were confirmed in
	// this block. Each listed validator earns one vote credit for the epoch.
	// The list is not required to be stable across blocks.
	Voters []idx.ValidatorID
}

// EstimateSize returns an approximate in-memory size of the block in bytes.
// Used for buffer pre-allocation when serializing block streams.
func (b *Block) EstimateSize() int {
	// Idx + Round + Time + Proposer, then 4 bytes per voter ID.
	return 8 + 8 + 8 + 4 + len(b.Voters)*4
}

// HasVoter reports whether the given validator is credited in this block.
func (b *Block) HasVoter(id idx.ValidatorID) bool {
	for _, v := range b.Voters {
		if v == id {
			return true
		}
	}
	return false
}
