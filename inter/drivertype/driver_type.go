// Package drivertype defines the profile structures for validators tracked by
// the epoch-audit subsystem. It bridges the consensus-side validator indices
// (idx.ValidatorID, pos.Validators) and the account-side identities
// (addresses) that the participation ledger and autopay registry are keyed by.
package drivertype

import (
	"io"
	"math/big"
	"sort"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-epoch-audit/inter/validatorpk"
)

var (
	// DoublesignBit marks a validator caught equivocating. Carried in the
	// status word alongside the jail bit; an equivocating validator is
	// excluded regardless of its audit case.
	DoublesignBit = uint64(1 << 7)

	// JailedBit marks a validator removed from the active set by a failed
	// epoch audit (case 3 or 4).
	JailedBit = uint64(1 << 0)

	// OkStatus is the clean state with no adverse bits set.
	OkStatus = uint64(0)
)

// Validator is the audit-side profile of a consensus validator. It links the
// consensus identity to the account addresses used by the self-service
// interfaces.
type Validator struct {
	// Weight is the validator's voting power.
	Weight *big.Int

	// PubKey verifies event and vote signatures produced by this validator.
	PubKey validatorpk.PubKey

	// Address is the validator's own account. Proof submissions and autopay
	// enrollment must be signed by this address.
	Address common.Address

	// Operator is the payment recipient, distinct from the validator
	// identity. Autopay distributions are directed here.
	Operator common.Address

	// Status carries the adverse-condition bits (JailedBit, DoublesignBit).
	Status uint64
}

// Copy creates a deep copy of the profile. Weight and PubKey.Raw are
// reference types and must not be shared between copies.
func (v Validator) Copy() Validator {
	cp := v
	if v.Weight != nil {
		cp.Weight = new(big.Int).Set(v.Weight)
	}
	cp.PubKey = v.PubKey.Copy()
	return cp
}

// IsJailed reports whether the jail bit is set.
func (v Validator) IsJailed() bool {
	return v.Status&JailedBit != 0
}

// ValidatorProfiles is the profile table for a validator set, keyed by the
// consensus validator ID.
type ValidatorProfiles map[idx.ValidatorID]Validator

// Copy creates a deep copy of the table.
func (vv ValidatorProfiles) Copy() ValidatorProfiles {
	cp := make(ValidatorProfiles, len(vv))
	for id, profile := range vv {
		cp[id] = profile.Copy()
	}
	return cp
}

// SortedIDs returns the validator IDs in ascending order. Iteration over the
// map itself is non-deterministic; every consensus-visible walk of the table
// must use this order.
func (vv ValidatorProfiles) SortedIDs() []idx.ValidatorID {
	ids := make([]idx.ValidatorID, 0, len(vv))
	for id := range vv {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	return ids
}

// validatorAndID pairs a profile with its ID for canonical serialization.
type validatorAndID struct {
	ValidatorID idx.ValidatorID
	Validator   Validator
}

// EncodeRLP implements rlp.Encoder. Maps have no canonical RLP form, so the
// table is encoded as a list of (ID, profile) pairs sorted by ID. State
// hashing depends on this being deterministic.
func (vv ValidatorProfiles) EncodeRLP(w io.Writer) error {
	sorted := make([]validatorAndID, 0, len(vv))
	for _, id := range vv.SortedIDs() {
		sorted = append(sorted, validatorAndID{id, vv[id]})
	}
	return rlp.Encode(w, sorted)
}

// DecodeRLP implements rlp.Decoder.
func (vv *ValidatorProfiles) DecodeRLP(s *rlp.Stream) error {
	var sorted []validatorAndID
	if err := s.Decode(&sorted); err != nil {
		return err
	}
	*vv = make(ValidatorProfiles, len(sorted))
	for _, it := range sorted {
		(*vv)[it.ValidatorID] = it.Validator
	}
	return nil
}
