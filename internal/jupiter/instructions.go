// =============================
// File: internal/jupiter/instructions.go
// =============================
package jupiter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// InstructionGroup tags where an instruction came from in the provider
// response. Group order inside an InstructionSet is fixed: compute budget,
// setup, swap, cleanup. The runtime requires this order.
type InstructionGroup string

const (
	GroupComputeBudget InstructionGroup = "compute_budget"
	GroupSetup         InstructionGroup = "setup"
	GroupSwap          InstructionGroup = "swap"
	GroupCleanup       InstructionGroup = "cleanup"
)

// GroupedInstruction is one instruction together with its source group.
type GroupedInstruction struct {
	Group       InstructionGroup
	Instruction solana.Instruction
}

// InstructionSet is the canonical ordered instruction list for one swap,
// plus the blockhash checkpoint the provider bound the instructions to.
// It is immutable once assembled.
type InstructionSet struct {
	Entries      []GroupedInstruction
	Blockhash    solana.Hash
	LookupTables []solana.PublicKey
	InputMint    solana.PublicKey
}

// Instructions returns the flat instruction list in canonical order.
func (s *InstructionSet) Instructions() []solana.Instruction {
	out := make([]solana.Instruction, 0, len(s.Entries))
	for _, entry := range s.Entries {
		out = append(out, entry.Instruction)
	}
	return out
}

// SwapInstructions fetches the provider's instruction breakdown for a
// quote and re-encodes it into an InstructionSet. Associated token
// accounts missing for either leg arrive as provider setup instructions.
// tipLamports is the bundler tip attached via the prioritization fee.
func (c *Client) SwapInstructions(ctx context.Context, quote *Quote, user solana.PublicKey, tipLamports uint64) (*InstructionSet, error) {
	body, err := json.Marshal(swapInstructionsRequest{
		QuoteResponse:           quote.Raw(),
		UserPublicKey:           user.String(),
		WrapAndUnwrapSol:        true,
		DynamicComputeUnitLimit: true,
		PrioritizationFeeLamports: prioritizationFee{
			JitoTipLamports: tipLamports,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode swap-instructions request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/swap-instructions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build swap-instructions request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("swap-instructions request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded swapInstructionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ProviderError{Endpoint: "swap-instructions", Detail: err.Error()}
	}
	if decoded.Error != "" {
		return nil, &ProviderError{Endpoint: "swap-instructions", Detail: decoded.Error}
	}

	set, err := assembleInstructionSet(&decoded, quote.InputMint)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Swap instructions assembled",
		zap.Int("instructions", len(set.Entries)),
		zap.Int("lookup_tables", len(set.LookupTables)),
		zap.String("blockhash", set.Blockhash.String()))

	return set, nil
}

// assembleInstructionSet re-encodes provider instruction groups in the
// canonical order. Provider "other" instructions belong to the setup group.
func assembleInstructionSet(resp *swapInstructionsResponse, inputMint solana.PublicKey) (*InstructionSet, error) {
	if resp.SwapInstruction == nil {
		return nil, &ProviderError{Endpoint: "swap-instructions", Detail: "response is missing swapInstruction"}
	}
	if resp.BlockhashWithMetadata == nil {
		return nil, &ProviderError{Endpoint: "swap-instructions", Detail: "response is missing blockhashWithMetadata"}
	}

	blockhash, err := blockhashFromBytes(resp.BlockhashWithMetadata.Blockhash)
	if err != nil {
		return nil, &ProviderError{Endpoint: "swap-instructions", Detail: err.Error()}
	}

	var entries []GroupedInstruction
	appendGroup := func(group InstructionGroup, payloads []instructionPayload) error {
		for i := range payloads {
			ix, err := decodeInstruction(&payloads[i])
			if err != nil {
				return &ProviderError{
					Endpoint: "swap-instructions",
					Detail:   fmt.Sprintf("%s instruction %d: %v", group, i, err),
				}
			}
			entries = append(entries, GroupedInstruction{Group: group, Instruction: ix})
		}
		return nil
	}

	if err := appendGroup(GroupComputeBudget, resp.ComputeBudgetInstructions); err != nil {
		return nil, err
	}
	if err := appendGroup(GroupSetup, resp.SetupInstructions); err != nil {
		return nil, err
	}
	if err := appendGroup(GroupSetup, resp.OtherInstructions); err != nil {
		return nil, err
	}
	if err := appendGroup(GroupSwap, []instructionPayload{*resp.SwapInstruction}); err != nil {
		return nil, err
	}
	if resp.CleanupInstruction != nil {
		if err := appendGroup(GroupCleanup, []instructionPayload{*resp.CleanupInstruction}); err != nil {
			return nil, err
		}
	}

	tables := make([]solana.PublicKey, 0, len(resp.AddressLookupTableAddresses))
	for _, addr := range resp.AddressLookupTableAddresses {
		key, err := solana.PublicKeyFromBase58(addr)
		if err != nil {
			return nil, &ProviderError{
				Endpoint: "swap-instructions",
				Detail:   fmt.Sprintf("invalid lookup table address %q: %v", addr, err),
			}
		}
		tables = append(tables, key)
	}

	return &InstructionSet{
		Entries:      entries,
		Blockhash:    blockhash,
		LookupTables: tables,
		InputMint:    inputMint,
	}, nil
}

// decodeInstruction converts one provider instruction payload into a
// solana instruction, failing on any malformed field.
func decodeInstruction(payload *instructionPayload) (solana.Instruction, error) {
	programID, err := solana.PublicKeyFromBase58(payload.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("invalid programId %q: %w", payload.ProgramID, err)
	}

	accounts := make(solana.AccountMetaSlice, 0, len(payload.Accounts))
	for _, acc := range payload.Accounts {
		key, err := solana.PublicKeyFromBase58(acc.Pubkey)
		if err != nil {
			return nil, fmt.Errorf("invalid account pubkey %q: %w", acc.Pubkey, err)
		}
		accounts = append(accounts, &solana.AccountMeta{
			PublicKey:  key,
			IsSigner:   acc.IsSigner,
			IsWritable: acc.IsWritable,
		})
	}

	data, err := base64.StdEncoding.DecodeString(payload.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid instruction data: %w", err)
	}

	return solana.NewInstruction(programID, accounts, data), nil
}

func blockhashFromBytes(raw []int) (solana.Hash, error) {
	var hash solana.Hash
	if len(raw) != len(hash) {
		return hash, fmt.Errorf("blockhash has %d bytes, expected %d", len(raw), len(hash))
	}
	for i, b := range raw {
		if b < 0 || b > 255 {
			return hash, fmt.Errorf("blockhash byte %d out of range: %d", i, b)
		}
		hash[i] = byte(b)
	}
	return hash, nil
}
