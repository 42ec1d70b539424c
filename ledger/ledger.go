// Package ledger implements the per-epoch participation ledger: the count of
// proofs each validator has submitted in the current epoch.
//
// Records are self-reported but ownership-gated: only the validator itself
// may increment its own count, so records never alias and need no per-record
// locking. All access is serialized by block order through the engine; the
// ledger itself is not goroutine-safe.
package ledger

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-epoch-audit/audit"
)

// Ledger tracks current-epoch proof counts keyed by validator account.
type Ledger struct {
	system common.Address
	counts map[common.Address]uint64
}

// New creates an empty ledger. Privileged operations (Reset) require the
// given system identity as caller.
func New(system common.Address) *Ledger {
	return &Ledger{
		system: system,
		counts: make(map[common.Address]uint64),
	}
}

// RecordProof credits one proof to target's current-epoch count. The signer
// must be the target itself; any other signer gets ErrUnauthorized and the
// ledger is left unchanged.
func (l *Ledger) RecordProof(signer common.Address, target common.Address) error {
	if signer != target {
		return fmt.Errorf("record proof for %s signed by %s: %w", target, signer, audit.ErrUnauthorized)
	}
	l.counts[target] += 1
	return nil
}

// Count returns the validator's current-epoch proof count, zero if none
// recorded.
func (l *Ledger) Count(validator common.Address) uint64 {
	return l.counts[validator]
}

// Reset clears every count at epoch roll. Only the system caller may invoke
// it; the engine guarantees classification reads complete before the reset.
// Prior counts become unreadable, not archived.
func (l *Ledger) Reset(caller common.Address) error {
	if caller != l.system {
		return fmt.Errorf("ledger reset by %s: %w", caller, audit.ErrUnauthorized)
	}
	l.counts = make(map[common.Address]uint64)
	return nil
}
