// Package genesis defines the configuration that bootstraps an audit
// deployment: the policy rules, the initial validator set with profiles, and
// the starting time. All nodes of a network must agree on this structure
// byte for byte, so everything in it is deterministic.
//
// Usage:
//
//	g := genesis.FakeGenesis(5, audit.FakeNetRules(), start)
//	eng, err := engine.New(g, engine.DefaultSystemCaller)
//
// Genesis files for real networks are JSON documents decoding into Genesis;
// fake networks are generated programmatically with deterministic keys.
package genesis

import (
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/Fantom-foundation/lachesis-base/inter/pos"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-epoch-audit/audit"
	"github.com/rony4d/go-epoch-audit/inter"
	"github.com/rony4d/go-epoch-audit/inter/drivertype"
	"github.com/rony4d/go-epoch-audit/inter/validatorpk"
)

// Validator is one entry of the genesis validator set.
type Validator struct {
	ID       idx.ValidatorID
	PubKey   validatorpk.PubKey
	Address  common.Address
	Operator common.Address
	Weight   *big.Int
}

// Genesis is the complete bootstrap configuration.
type Genesis struct {
	Rules      audit.Rules
	Time       inter.Timestamp
	Validators []Validator
}

// Profiles builds the audit-side profile table of the genesis set.
func (g Genesis) Profiles() drivertype.ValidatorProfiles {
	profiles := make(drivertype.ValidatorProfiles, len(g.Validators))
	for _, v := range g.Validators {
		profiles[v.ID] = drivertype.Validator{
			Weight:   new(big.Int).Set(v.Weight),
			PubKey:   v.PubKey.Copy(),
			Address:  v.Address,
			Operator: v.Operator,
			Status:   drivertype.OkStatus,
		}
	}
	return profiles
}

// BuildValidators constructs the consensus validator set of the genesis.
func (g Genesis) BuildValidators() *pos.Validators {
	builder := pos.NewBuilder()
	for _, v := range g.Validators {
		builder.Set(v.ID, pos.Weight(v.Weight.Uint64()))
	}
	return builder.Build()
}
