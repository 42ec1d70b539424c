package inter

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestProofSubmissionSerialization(t *testing.T) {
	require := require.New(t)

	original := ProofSubmission{
		Epoch:     7,
		Validator: common.HexToAddress("0x51f1d9b6b11a1c1b1f3c2a9a0b2e6d4c8f905531"),
		Seq:       3,
	}

	raw, err := original.MarshalBinary()
	require.NoError(err)

	var decoded ProofSubmission
	require.NoError(decoded.UnmarshalBinary(raw))
	require.Equal(original, decoded)

	// identical submissions hash identically, different ones don't
	require.Equal(original.Hash(), decoded.Hash())
	decoded.Seq++
	require.NotEqual(original.Hash(), decoded.Hash())

	// truncated blobs are rejected
	var truncated ProofSubmission
	require.Error(truncated.UnmarshalBinary(raw[:len(raw)-2]))
}
