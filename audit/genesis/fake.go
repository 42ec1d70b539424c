package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"time"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rony4d/go-epoch-audit/audit"
	"github.com/rony4d/go-epoch-audit/inter"
	"github.com/rony4d/go-epoch-audit/inter/validatorpk"
)

// FakeGenesisTime is the default start time of fake networks, chosen fixed so
// fake chains are reproducible across runs.
var FakeGenesisTime = inter.FromUnix(time.Date(2020, 12, 22, 0, 0, 0, 0, time.UTC))

// fakeWeight is the stake assigned to every fakenet validator.
var fakeWeight = big.NewInt(1000000)

// FakeKey derives the deterministic private key of fakenet validator n.
// The same n always yields the same key on every machine, which lets
// independent test nodes agree on the fake validator set without exchange.
func FakeKey(n idx.ValidatorID) *ecdsa.PrivateKey {
	seed := crypto.Keccak256([]byte("fakenet-validator"), bigendian.Uint32ToBytes(uint32(n)))
	return crypto.ToECDSAUnsafe(seed)
}

// FakeGenesis generates a deterministic genesis with num equally weighted
// validators (IDs 1..num) for local networks and tests. Each validator's
// operator account is its own account.
func FakeGenesis(num int, rules audit.Rules, time inter.Timestamp) Genesis {
	validators := make([]Validator, 0, num)
	for i := 1; i <= num; i++ {
		id := idx.ValidatorID(i)
		key := FakeKey(id)
		addr := crypto.PubkeyToAddress(key.PublicKey)
		validators = append(validators, Validator{
			ID: id,
			PubKey: validatorpk.PubKey{
				Type: validatorpk.Types.Secp256k1,
				Raw:  crypto.FromECDSAPub(&key.PublicKey),
			},
			Address:  addr,
			Operator: addr,
			Weight:   new(big.Int).Set(fakeWeight),
		})
	}
	return Genesis{
		Rules:      rules,
		Time:       time,
		Validators: validators,
	}
}
