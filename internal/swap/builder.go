// =============================
// File: internal/swap/builder.go
// =============================
package swap

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/quickswap-labs/jitoswap/internal/jupiter"
	"github.com/quickswap-labs/jitoswap/internal/wallet"
)

// BuildSignedTransaction compiles an assembled instruction set and its
// blockhash checkpoint into a signed v0 transaction. Accounts are listed
// explicitly; lookup tables are not compressed in. Pure given identical
// inputs: same instructions, blockhash and keypair produce byte-identical
// output.
func BuildSignedTransaction(set *jupiter.InstructionSet, signer *wallet.Wallet) (*solana.Transaction, error) {
	if len(set.Entries) == 0 {
		return nil, fmt.Errorf("instruction set is empty")
	}

	tx, err := solana.NewTransaction(
		set.Instructions(),
		set.Blockhash,
		solana.TransactionPayer(signer.PublicKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile transaction: %w", err)
	}
	tx.Message.SetVersion(solana.MessageVersionV0)

	if err := signer.SignTransaction(tx); err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	if len(tx.Signatures) != 1 {
		return nil, fmt.Errorf("expected exactly one signature, got %d", len(tx.Signatures))
	}

	return tx, nil
}
