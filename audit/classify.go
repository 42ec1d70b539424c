package audit

import (
	"math/bits"

	"github.com/rony4d/go-epoch-audit/inter"
)

// Classify maps one validator's epoch record to its compliance case.
//
// The function is pure and total: identical inputs always yield the same
// case, and every input combination maps to exactly one of the four cases.
// The engine calls it once per validator at epoch seal, and the read-only
// query interface calls it on the in-progress epoch; both must agree, so no
// state may leak in here.
//
// proofs and votes are the validator's current-epoch counters; epochBlocks is
// the total number of blocks processed in the epoch (the denominator of the
// vote-participation ratio).
func Classify(proofs, votes, epochBlocks uint64, autopayOn bool, r AuditRules) inter.Case {
	if proofs == 0 {
		return inter.CaseInactive
	}
	if proofs < r.MinSealProofs {
		return inter.CaseBelowThreshold
	}
	if !voteRatioMet(votes, epochBlocks, r) {
		return inter.CaseBelowThreshold
	}
	if autopayOn {
		return inter.CaseCompliant
	}
	return inter.CaseNoAutoPay
}

// voteRatioMet checks votes/epochBlocks >= VoteRatioNum/VoteRatioDen without
// division, so the comparison is exact. The cross products are compared in
// 128 bits, keeping the check exact for any counter and ratio values. An
// epoch with no blocks yet has no participation requirement.
func voteRatioMet(votes, epochBlocks uint64, r AuditRules) bool {
	if epochBlocks == 0 || r.VoteRatioDen == 0 {
		return true
	}
	hiV, loV := bits.Mul64(votes, r.VoteRatioDen)
	hiB, loB := bits.Mul64(epochBlocks, r.VoteRatioNum)
	if hiV != hiB {
		return hiV > hiB
	}
	return loV >= loB
}
