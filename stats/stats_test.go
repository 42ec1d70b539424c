package stats

import (
	"errors"
	"testing"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-epoch-audit/audit"
)

var (
	system   = common.HexToAddress("0xd100a01e00000000000000000000000000000000")
	outsider = common.HexToAddress("0x99")
)

func TestApplyVotesAccumulates(t *testing.T) {
	require := require.New(t)
	a := New(system)

	require.NoError(a.ApplyVotes(system, []idx.ValidatorID{1, 2, 3}))
	require.NoError(a.ApplyVotes(system, []idx.ValidatorID{1, 2, 3}))

	// voter-set composition may change between blocks
	require.NoError(a.ApplyVotes(system, []idx.ValidatorID{1, 3}))
	require.NoError(a.ApplyVotes(system, []idx.ValidatorID{1}))

	require.Equal(uint64(4), a.VoteCount(1))
	require.Equal(uint64(2), a.VoteCount(2))
	require.Equal(uint64(3), a.VoteCount(3))
	require.Equal(uint64(0), a.VoteCount(9))
	require.Equal(uint64(4), a.EpochBlocks())
}

func TestApplyVotesPrivileged(t *testing.T) {
	require := require.New(t)
	a := New(system)

	err := a.ApplyVotes(outsider, []idx.ValidatorID{1})
	require.True(errors.Is(err, audit.ErrUnauthorized))
	require.Equal(uint64(0), a.VoteCount(1))
	require.Equal(uint64(0), a.EpochBlocks())
}

func TestResetClearsTallies(t *testing.T) {
	require := require.New(t)
	a := New(system)

	require.NoError(a.ApplyVotes(system, []idx.ValidatorID{1, 2}))

	err := a.Reset(outsider)
	require.True(errors.Is(err, audit.ErrUnauthorized))
	require.Equal(uint64(1), a.EpochBlocks())

	require.NoError(a.Reset(system))
	require.Equal(uint64(0), a.VoteCount(1))
	require.Equal(uint64(0), a.VoteCount(2))
	require.Equal(uint64(0), a.EpochBlocks())
}

func TestCopyIsIndependent(t *testing.T) {
	require := require.New(t)
	a := New(system)

	require.NoError(a.ApplyVotes(system, []idx.ValidatorID{1, 2}))
	cp := a.Copy()

	require.NoError(a.ApplyVotes(system, []idx.ValidatorID{1}))
	require.NoError(a.ApplyVotes(system, []idx.ValidatorID{1}))

	// the copy keeps the tallies as of the snapshot
	require.Equal(uint64(1), cp.VoteCount(1))
	require.Equal(uint64(1), cp.EpochBlocks())
	require.Equal(uint64(3), a.VoteCount(1))
	require.Equal(uint64(3), a.EpochBlocks())

	// and mutating the copy leaves the original alone
	require.NoError(cp.ApplyVotes(system, []idx.ValidatorID{2}))
	require.Equal(uint64(1), a.VoteCount(2))
	require.Equal(uint64(2), cp.VoteCount(2))
}
