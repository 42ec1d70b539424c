// Package stats implements the epoch vote aggregator: per-validator counts of
// blocks voted in, accumulated once per block during prologue processing.
// The per-epoch block total tracked alongside is the denominator of the
// vote-participation ratio used by case classification.
package stats

import (
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-epoch-audit/audit"
)

// Aggregator accumulates vote credits for the current epoch. All mutating
// calls are privileged and arrive serialized, one per block, from the
// engine's prologue hook. Not goroutine-safe on its own.
type Aggregator struct {
	system common.Address
	votes  map[idx.ValidatorID]uint64
	blocks uint64
}

// New creates an empty aggregator bound to the given system identity.
func New(system common.Address) *Aggregator {
	return &Aggregator{
		system: system,
		votes:  make(map[idx.ValidatorID]uint64),
	}
}

// ApplyVotes credits one vote to every listed validator and counts the block.
// Called exactly once per block. The voter set may shrink or change between
// blocks of the same epoch; absent validators simply earn no credit. Only the
// system caller is accepted.
func (a *Aggregator) ApplyVotes(caller common.Address, voters []idx.ValidatorID) error {
	if caller != a.system {
		return fmt.Errorf("vote tally by %s: %w", caller, audit.ErrUnauthorized)
	}
	a.blocks++
	for _, id := range voters {
		a.votes[id] += 1
	}
	return nil
}

// Copy returns an independent deep copy of the aggregator. The engine takes
// one before a seal attempt so a rejected seal can restore the tallies.
func (a *Aggregator) Copy() *Aggregator {
	cp := &Aggregator{
		system: a.system,
		votes:  make(map[idx.ValidatorID]uint64, len(a.votes)),
		blocks: a.blocks,
	}
	for id, n := range a.votes {
		cp.votes[id] = n
	}
	return cp
}

// VoteCount returns the validator's accumulated credits for the current
// epoch, zero if it never voted.
func (a *Aggregator) VoteCount(id idx.ValidatorID) uint64 {
	return a.votes[id]
}

// EpochBlocks returns the number of blocks tallied in the current epoch.
func (a *Aggregator) EpochBlocks() uint64 {
	return a.blocks
}

// Reset clears all tallies at epoch roll. Privileged; the engine reads every
// classification input before invoking it.
func (a *Aggregator) Reset(caller common.Address) error {
	if caller != a.system {
		return fmt.Errorf("stats reset by %s: %w", caller, audit.ErrUnauthorized)
	}
	a.votes = make(map[idx.ValidatorID]uint64)
	a.blocks = 0
	return nil
}
