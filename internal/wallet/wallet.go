// ==================================
// File: internal/wallet/wallet.go
// ==================================
package wallet

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// EnvPrivateKey is the environment variable holding the payer key.
const EnvPrivateKey = "SOL_PRIVATE_KEY"

// Wallet is the payer keypair. Read-only after load.
type Wallet struct {
	PrivateKey solana.PrivateKey
	PublicKey  solana.PublicKey
}

// New creates a wallet from a base58-encoded private key.
func New(privateKeyBase58 string) (*Wallet, error) {
	privateKeyBytes, err := base58.Decode(privateKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	if len(privateKeyBytes) != 64 {
		return nil, fmt.Errorf("invalid private key length: expected 64 bytes, got %d", len(privateKeyBytes))
	}
	privateKey := solana.PrivateKey(privateKeyBytes)
	return &Wallet{
		PrivateKey: privateKey,
		PublicKey:  privateKey.PublicKey(),
	}, nil
}

// FromEnv loads the wallet from the SOL_PRIVATE_KEY environment variable.
func FromEnv() (*Wallet, error) {
	key := os.Getenv(EnvPrivateKey)
	if key == "" {
		return nil, fmt.Errorf("%s not set", EnvPrivateKey)
	}
	return New(key)
}

// SignTransaction signs tx with the wallet's private key. The wallet is
// the only signer this system ever uses.
func (w *Wallet) SignTransaction(tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.PublicKey) {
			return &w.PrivateKey
		}
		return nil
	})
	return err
}

// String returns the wallet's public key.
func (w *Wallet) String() string {
	return w.PublicKey.String()
}
