package swap

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickswap-labs/jitoswap/internal/jupiter"
	"github.com/quickswap-labs/jitoswap/internal/wallet"
)

func testWallet(t *testing.T) *wallet.Wallet {
	t.Helper()
	w, err := wallet.New(base58.Encode(solana.NewWallet().PrivateKey))
	require.NoError(t, err)
	return w
}

func testInstructionSet(signer solana.PublicKey) *jupiter.InstructionSet {
	ix := solana.NewInstruction(
		solana.SystemProgramID,
		solana.AccountMetaSlice{
			{PublicKey: signer, IsSigner: true, IsWritable: true},
			{PublicKey: WSOLMint, IsSigner: false, IsWritable: true},
		},
		[]byte{2, 0, 0, 0, 1, 0, 0, 0},
	)
	return &jupiter.InstructionSet{
		Entries:   []jupiter.GroupedInstruction{{Group: jupiter.GroupSwap, Instruction: ix}},
		Blockhash: solana.Hash{7, 7, 7},
		InputMint: WSOLMint,
	}
}

func TestBuildSignedTransaction(t *testing.T) {
	w := testWallet(t)
	set := testInstructionSet(w.PublicKey)

	tx, err := BuildSignedTransaction(set, w)
	require.NoError(t, err)

	require.Len(t, tx.Signatures, 1)
	assert.Equal(t, w.PublicKey, tx.Message.AccountKeys[0])
	assert.Equal(t, set.Blockhash, tx.Message.RecentBlockhash)
	require.NoError(t, tx.VerifySignatures())
}

func TestBuildSignedTransaction_Deterministic(t *testing.T) {
	w := testWallet(t)
	set := testInstructionSet(w.PublicKey)

	first, err := BuildSignedTransaction(set, w)
	require.NoError(t, err)
	second, err := BuildSignedTransaction(set, w)
	require.NoError(t, err)

	firstRaw, err := first.MarshalBinary()
	require.NoError(t, err)
	secondRaw, err := second.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, firstRaw, secondRaw)
}

func TestBuildSignedTransaction_EmptySet(t *testing.T) {
	w := testWallet(t)
	_, err := BuildSignedTransaction(&jupiter.InstructionSet{}, w)
	assert.Error(t, err)
}
