package wallet

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	w, err := New(base58.Encode(key))
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), w.PublicKey)
	assert.Equal(t, w.PublicKey.String(), w.String())
}

func TestNew_InvalidInput(t *testing.T) {
	_, err := New("not-base58-!!!")
	assert.Error(t, err)

	// A 32-byte seed is not accepted; the full 64-byte keypair is required.
	_, err = New(base58.Encode(make([]byte, 32)))
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	t.Setenv(EnvPrivateKey, base58.Encode(key))

	w, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), w.PublicKey)
}

func TestFromEnv_Missing(t *testing.T) {
	t.Setenv(EnvPrivateKey, "")
	_, err := FromEnv()
	assert.Error(t, err)
}

func TestSignTransaction(t *testing.T) {
	w, err := New(base58.Encode(solana.NewWallet().PrivateKey))
	require.NoError(t, err)

	ix := solana.NewInstruction(
		solana.SystemProgramID,
		solana.AccountMetaSlice{
			{PublicKey: w.PublicKey, IsSigner: true, IsWritable: true},
		},
		[]byte{1},
	)
	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		solana.Hash{1},
		solana.TransactionPayer(w.PublicKey),
	)
	require.NoError(t, err)

	require.NoError(t, w.SignTransaction(tx))
	require.Len(t, tx.Signatures, 1)
	assert.NoError(t, tx.VerifySignatures())
}
