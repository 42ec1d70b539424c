// Package iepoch defines the state the audit engine maintains and transitions.
// There are two levels of state:
//  1. BlockState: advances with every processed block (last block context,
//     per-epoch block counter).
//  2. EpochState: finalized only at epoch seal (validator set, profiles,
//     epoch counter, rules).
//
// Both carry Copy and Hash methods so the engine can stage a transition on
// copies and commit it atomically, and so nodes can compare state
// fingerprints after a seal.
package iepoch

import (
	"crypto/sha256"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/Fantom-foundation/lachesis-base/inter/pos"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-epoch-audit/audit"
	"github.com/rony4d/go-epoch-audit/inter"
	"github.com/rony4d/go-epoch-audit/inter/drivertype"
)

// BlockCtx is the consensus context of one processed block.
type BlockCtx struct {
	Idx   idx.Block
	Round uint64
	Time  inter.Timestamp
}

// BlockState is the audit-side state that changes with every block.
type BlockState struct {
	// LastBlock is the context of the most recently processed block.
	LastBlock BlockCtx

	// EpochBlocks counts the blocks processed in the current epoch. It is
	// the denominator of the vote-participation ratio and resets at seal.
	EpochBlocks uint64
}

// Copy creates a copy of the BlockState. The struct is flat, so the value
// copy is deep.
func (bs BlockState) Copy() BlockState {
	return bs
}

// Hash calculates the SHA256 hash of the RLP-encoded BlockState.
func (bs BlockState) Hash() hash.Hash {
	hasher := sha256.New()
	if err := rlp.Encode(hasher, &bs); err != nil {
		panic("can't hash: " + err.Error())
	}
	return hash.BytesToHash(hasher.Sum(nil))
}

// EpochState is the state finalized at epoch boundaries. It is mutated
// exclusively by the reconfiguration engine, and only as a whole: a seal
// either commits every field or none.
type EpochState struct {
	// Epoch is the monotonically increasing epoch counter.
	Epoch idx.Epoch

	// EpochStart is the block time at which the current epoch began.
	EpochStart inter.Timestamp

	// PrevEpochStart is when the preceding epoch began, kept for duration
	// queries.
	PrevEpochStart inter.Timestamp

	// EpochStartRound is the consensus round at epoch start, the base of the
	// round-threshold seal trigger.
	EpochStartRound uint64

	// Validators is the authoritative active validator set with weights.
	Validators *pos.Validators

	// Profiles carries the audit-side profile of every validator in
	// Validators, plus jailed validators when history retention is on.
	Profiles drivertype.ValidatorProfiles

	// Rules is the policy active during this epoch.
	Rules audit.Rules
}

// Duration returns the length of the previous epoch.
func (es EpochState) Duration() inter.Timestamp {
	return es.EpochStart - es.PrevEpochStart
}

// GetProfile looks up the profile of a validator by ID.
func (es EpochState) GetProfile(id idx.ValidatorID) (drivertype.Validator, bool) {
	profile, ok := es.Profiles[id]
	return profile, ok
}

// Copy creates a deep copy of the EpochState. Validators is immutable once
// built, so the pointer is shared; Profiles and Rules are deep-copied.
func (es EpochState) Copy() EpochState {
	cp := es
	cp.Profiles = es.Profiles.Copy()
	cp.Rules = es.Rules.Copy()
	return cp
}

// epochStateRLP is the canonical encoding of EpochState for hashing. Rules
// are fingerprinted through their JSON dump rather than encoded structurally,
// which keeps policy additions from silently changing old hashes.
type epochStateRLP struct {
	Epoch           idx.Epoch
	EpochStart      inter.Timestamp
	PrevEpochStart  inter.Timestamp
	EpochStartRound uint64
	Validators      *pos.Validators
	Profiles        drivertype.ValidatorProfiles
	RulesDump       string
}

// Hash calculates the SHA256 hash of the RLP-encoded EpochState.
func (es EpochState) Hash() hash.Hash {
	hasher := sha256.New()
	err := rlp.Encode(hasher, &epochStateRLP{
		Epoch:           es.Epoch,
		EpochStart:      es.EpochStart,
		PrevEpochStart:  es.PrevEpochStart,
		EpochStartRound: es.EpochStartRound,
		Validators:      es.Validators,
		Profiles:        es.Profiles,
		RulesDump:       es.Rules.String(),
	})
	if err != nil {
		panic("can't hash: " + err.Error())
	}
	return hash.BytesToHash(hasher.Sum(nil))
}
