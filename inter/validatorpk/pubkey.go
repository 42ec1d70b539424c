// Package validatorpk provides the public-key representation for audited
// validators. A PubKey carries a scheme tag next to the raw key bytes so the
// audit subsystem can verify proof submissions and vote signatures without
// assuming a single curve. Address derivation for secp256k1 keys links the
// consensus identity to the account identity the ledger is keyed by.
package validatorpk

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Types enumerates the supported key schemes.
var Types = struct {
	Secp256k1 uint8
}{
	// 0xc0 tags an uncompressed secp256k1 key.
	Secp256k1: 0xc0,
}

// PubKey is a validator public key with its scheme tag.
type PubKey struct {
	// Type identifies the signature scheme of Raw.
	Type uint8
	// Raw is the encoded public key.
	Raw []byte
}

// Empty reports whether the key is uninitialized.
func (pk PubKey) Empty() bool {
	return len(pk.Raw) == 0 && pk.Type == 0
}

// Bytes returns the flat encoding: one scheme byte followed by the raw key.
func (pk PubKey) Bytes() []byte {
	return append([]byte{pk.Type}, pk.Raw...)
}

// String returns the 0x-prefixed hex encoding of Bytes.
func (pk PubKey) String() string {
	return "0x" + common.Bytes2Hex(pk.Bytes())
}

// Copy creates a deep copy. Raw is a slice and must not be shared.
func (pk PubKey) Copy() PubKey {
	return PubKey{
		Type: pk.Type,
		Raw:  common.CopyBytes(pk.Raw),
	}
}

// Address derives the account address controlled by this key. Only defined
// for secp256k1 keys; other schemes return an error.
func (pk PubKey) Address() (common.Address, error) {
	if pk.Type != Types.Secp256k1 {
		return common.Address{}, errors.New("address derivation is defined for secp256k1 keys only")
	}
	ecdsaKey, err := crypto.UnmarshalPubkey(pk.Raw)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*ecdsaKey), nil
}

// FromBytes reconstructs a PubKey from its flat encoding.
func FromBytes(b []byte) (PubKey, error) {
	if len(b) == 0 {
		return PubKey{}, errors.New("empty pubkey")
	}
	return PubKey{b[0], b[1:]}, nil
}

// FromString parses a hex string, with or without the 0x prefix.
func FromString(str string) (PubKey, error) {
	return FromBytes(common.FromHex(str))
}

// MarshalText implements encoding.TextMarshaler, so keys serialize as hex
// strings in JSON configs and genesis files.
func (pk *PubKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PubKey) UnmarshalText(input []byte) error {
	res, err := FromString(string(input))
	if err != nil {
		return err
	}
	*pk = res
	return nil
}
