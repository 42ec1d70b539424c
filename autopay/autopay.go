// Package autopay implements the per-validator enrollment registry for
// automatic payment distribution. Enrollment is independent of participation
// bookkeeping but is consumed by case classification: a compliant validator
// with autopay lands in case 1, one without in case 2.
package autopay

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-epoch-audit/audit"
)

// Registry tracks which validator accounts opted into autopay. Enrollment is
// a one-way transition: there is no disable operation. Not goroutine-safe;
// access is serialized by block order through the engine.
type Registry struct {
	system  common.Address
	enabled map[common.Address]bool
}

// New creates an empty registry. Privileged operations (Purge) require the
// given system identity as caller.
func New(system common.Address) *Registry {
	return &Registry{
		system:  system,
		enabled: make(map[common.Address]bool),
	}
}

// Enable enrolls the target. Self-service: the signer must be the target.
// Idempotent - repeated calls are no-ops, not errors.
func (r *Registry) Enable(signer common.Address, target common.Address) error {
	if signer != target {
		return fmt.Errorf("autopay enable for %s signed by %s: %w", target, signer, audit.ErrUnauthorized)
	}
	r.enabled[target] = true
	return nil
}

// IsEnabled reports the enrollment flag, false by default.
func (r *Registry) IsEnabled(validator common.Address) bool {
	return r.enabled[validator]
}

// Purge removes the enrollment of the given accounts. Used by the engine at
// epoch seal for jailed validators when the deployment does not retain
// jailed history. Privileged.
func (r *Registry) Purge(caller common.Address, validators []common.Address) error {
	if caller != r.system {
		return fmt.Errorf("autopay purge by %s: %w", caller, audit.ErrUnauthorized)
	}
	for _, v := range validators {
		delete(r.enabled, v)
	}
	return nil
}
