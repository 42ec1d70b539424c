// Package audit defines the policy rules and the case classifier of the
// validator epoch-audit subsystem.
//
// This package provides:
//   - Network identification constants (MainNet, TestNet, FakeNet)
//   - Epoch rules: the time/round thresholds that trigger reconfiguration
//   - Audit rules: the thresholds separating compliant validators from
//     jailable ones, and the quorum floor that a seal may never cross
//   - The pure case-classification function consumed at epoch seal
//
// The Rules type is the central configuration structure: every consensus-
// critical parameter of a deployment lives here, and network presets
// (main/test/fake) bundle the supported combinations.
package audit

import (
	"encoding/json"
	"time"

	"github.com/rony4d/go-epoch-audit/inter"
)

// Network identification constants.
const (
	// MainNetworkID is the chain ID of the production network.
	MainNetworkID uint64 = 0xab

	// TestNetworkID is the chain ID of the public testnet.
	TestNetworkID uint64 = 0xab2

	// FakeNetworkID is the chain ID of local/fake networks used in testing.
	FakeNetworkID uint64 = 0xab3
)

// RulesJSON is the serializable form of Rules, used for config files and
// genesis dumps.
type RulesJSON struct {
	Name      string // network name identifier ("main", "test", "fake")
	NetworkID uint64 // chain ID

	// Epochs holds the epoch-boundary triggers.
	Epochs EpochsRules

	// Audit holds the classification thresholds and the quorum floor.
	Audit AuditRules
}

// Rules describes the complete configuration of an audit deployment.
type Rules RulesJSON

// EpochsRules defines when an epoch is sealed. A zero value disables the
// corresponding trigger; at least one trigger must be configured.
type EpochsRules struct {
	// MaxEpochDuration seals the epoch once the elapsed block time since
	// epoch start reaches this threshold.
	MaxEpochDuration inter.Timestamp

	// MaxEpochRounds seals the epoch once the block round reaches this
	// many rounds past the epoch-start round.
	MaxEpochRounds uint64
}

// AuditRules defines the per-epoch compliance policy. The thresholds are
// policy constants: deployment-configurable, but identical on every node of
// a network. Classification must be deterministic given these values.
type AuditRules struct {
	// MinSealProofs is the number of mining/participation proofs a validator
	// must submit in an epoch to pass the audit.
	MinSealProofs uint64

	// VoteRatioNum/VoteRatioDen is the fraction of the epoch's blocks a
	// validator must have voted in to pass the audit. 14-of-15 participation
	// passes a 2/3 ratio comfortably; a validator voting in under the ratio
	// is classified below-threshold even with sufficient proofs.
	VoteRatioNum uint64
	VoteRatioDen uint64

	// MinQuorumSize is the smallest validator set a seal may commit. A seal
	// whose jailed set would leave fewer active validators is rejected.
	MinQuorumSize int

	// RetainJailedHistory keeps the autopay enrollment of jailed validators
	// so a later re-admission resumes where it left off. When false, the
	// enrollment is purged at the seal that jails them.
	RetainJailedHistory bool
}

// MainNetRules returns the production configuration: day-long epochs and
// conservative audit thresholds.
func MainNetRules() Rules {
	return Rules{
		Name:      "main",
		NetworkID: MainNetworkID,
		Epochs: EpochsRules{
			MaxEpochDuration: inter.Timestamp(24 * time.Hour),
			MaxEpochRounds:   0, // time-triggered only
		},
		Audit: AuditRules{
			MinSealProofs:       7,
			VoteRatioNum:        2,
			VoteRatioDen:        3,
			MinQuorumSize:       4,
			RetainJailedHistory: true,
		},
	}
}

// TestNetRules returns the testnet configuration. Same audit policy as
// mainnet with shorter epochs, so misconfigured validators surface quickly.
func TestNetRules() Rules {
	return Rules{
		Name:      "test",
		NetworkID: TestNetworkID,
		Epochs: EpochsRules{
			MaxEpochDuration: inter.Timestamp(4 * time.Hour),
			MaxEpochRounds:   0,
		},
		Audit: AuditRules{
			MinSealProofs:       7,
			VoteRatioNum:        2,
			VoteRatioDen:        3,
			MinQuorumSize:       4,
			RetainJailedHistory: true,
		},
	}
}

// FakeNetRules returns the local-network configuration with accelerated
// epochs for tests and development:
//   - 60 second epochs, with a round trigger as a backstop
//   - lowered proof threshold
//   - quorum floor of 3 so small fake sets can still exercise jailing
func FakeNetRules() Rules {
	return Rules{
		Name:      "fake",
		NetworkID: FakeNetworkID,
		Epochs: EpochsRules{
			MaxEpochDuration: inter.Timestamp(60 * time.Second),
			MaxEpochRounds:   1000,
		},
		Audit: AuditRules{
			MinSealProofs:       5,
			VoteRatioNum:        2,
			VoteRatioDen:        3,
			MinQuorumSize:       3,
			RetainJailedHistory: true,
		},
	}
}

// Copy creates a copy of Rules. Rules currently holds no reference types,
// so the value copy is deep; the method exists so call sites stay correct
// if that changes.
func (r Rules) Copy() Rules {
	return r
}

// String returns a JSON representation of Rules for logging and config dumps.
func (r Rules) String() string {
	b, _ := json.Marshal(&r)
	return string(b)
}
