package ledger

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-epoch-audit/audit"
)

var (
	system = common.HexToAddress("0xd100a01e00000000000000000000000000000000")
	alice  = common.HexToAddress("0x01")
	bob    = common.HexToAddress("0x02")
)

func TestRecordProofSelfOnly(t *testing.T) {
	require := require.New(t)
	l := New(system)

	require.NoError(l.RecordProof(alice, alice))
	require.NoError(l.RecordProof(alice, alice))
	require.Equal(uint64(2), l.Count(alice))

	// a different signer is rejected and the target's count is unchanged
	err := l.RecordProof(bob, alice)
	require.True(errors.Is(err, audit.ErrUnauthorized))
	require.Equal(uint64(2), l.Count(alice))

	// even the system caller may not write another validator's record
	err = l.RecordProof(system, alice)
	require.True(errors.Is(err, audit.ErrUnauthorized))
	require.Equal(uint64(2), l.Count(alice))
}

func TestCountDefaultsToZero(t *testing.T) {
	l := New(system)
	require.Equal(t, uint64(0), l.Count(alice))
}

func TestResetPrivileged(t *testing.T) {
	require := require.New(t)
	l := New(system)

	require.NoError(l.RecordProof(alice, alice))
	require.NoError(l.RecordProof(bob, bob))

	// non-system callers cannot reset
	err := l.Reset(alice)
	require.True(errors.Is(err, audit.ErrUnauthorized))
	require.Equal(uint64(1), l.Count(alice))

	require.NoError(l.Reset(system))
	require.Equal(uint64(0), l.Count(alice))
	require.Equal(uint64(0), l.Count(bob))
}
