// =============================
// File: internal/jupiter/types.go
// =============================
package jupiter

import (
	"encoding/json"

	"github.com/gagliardetto/solana-go"
)

// RouteLeg is one hop of the aggregator's route plan.
type RouteLeg struct {
	AmmKey     string
	Label      string
	InputMint  string
	OutputMint string
	InAmount   uint64
	OutAmount  uint64
	Percent    int
}

// Quote is a priced route for one swap. The raw provider payload is kept
// verbatim because the swap-instructions endpoint consumes it unchanged;
// a quote is bound to the route the provider found and is consumed once.
type Quote struct {
	InputMint  solana.PublicKey
	OutputMint solana.PublicKey
	InAmount   uint64
	OutAmount  uint64
	RoutePlan  []RouteLeg

	raw json.RawMessage
}

// Raw returns the provider payload exactly as received.
func (q *Quote) Raw() json.RawMessage { return q.raw }

// quoteResponse mirrors the quote endpoint's JSON.
type quoteResponse struct {
	InputMint            string           `json:"inputMint"`
	InAmount             string           `json:"inAmount"`
	OutputMint           string           `json:"outputMint"`
	OutAmount            string           `json:"outAmount"`
	OtherAmountThreshold string           `json:"otherAmountThreshold"`
	SwapMode             string           `json:"swapMode"`
	SlippageBps          int              `json:"slippageBps"`
	PriceImpactPct       string           `json:"priceImpactPct"`
	RoutePlan            []routePlanEntry `json:"routePlan"`
	Error                string           `json:"error"`
	ErrorCode            string           `json:"errorCode"`
}

type routePlanEntry struct {
	SwapInfo swapInfo `json:"swapInfo"`
	Percent  int      `json:"percent"`
}

type swapInfo struct {
	AmmKey     string `json:"ammKey"`
	Label      string `json:"label"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`
	FeeAmount  string `json:"feeAmount"`
	FeeMint    string `json:"feeMint"`
}

// swapInstructionsRequest is the body posted to the swap-instructions
// endpoint. The provider creates missing associated token accounts for
// either leg through its setup instructions.
type swapInstructionsRequest struct {
	QuoteResponse             json.RawMessage   `json:"quoteResponse"`
	UserPublicKey             string            `json:"userPublicKey"`
	WrapAndUnwrapSol          bool              `json:"wrapAndUnwrapSol"`
	DynamicComputeUnitLimit   bool              `json:"dynamicComputeUnitLimit"`
	PrioritizationFeeLamports prioritizationFee `json:"prioritizationFeeLamports"`
}

type prioritizationFee struct {
	JitoTipLamports uint64 `json:"jitoTipLamports"`
}

type swapInstructionsResponse struct {
	ComputeBudgetInstructions   []instructionPayload   `json:"computeBudgetInstructions"`
	SetupInstructions           []instructionPayload   `json:"setupInstructions"`
	OtherInstructions           []instructionPayload   `json:"otherInstructions"`
	SwapInstruction             *instructionPayload    `json:"swapInstruction"`
	CleanupInstruction          *instructionPayload    `json:"cleanupInstruction"`
	AddressLookupTableAddresses []string               `json:"addressLookupTableAddresses"`
	BlockhashWithMetadata       *blockhashWithMetadata `json:"blockhashWithMetadata"`
	Error                       string                 `json:"error"`
}

type instructionPayload struct {
	ProgramID string               `json:"programId"`
	Accounts  []accountMetaPayload `json:"accounts"`
	Data      string               `json:"data"`
}

type accountMetaPayload struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

// blockhashWithMetadata carries the blockhash as an array of byte values.
type blockhashWithMetadata struct {
	Blockhash []int `json:"blockhash"`
}

// priceResponse mirrors the price endpoint's JSON.
type priceResponse struct {
	Data map[string]*priceEntry `json:"data"`
}

type priceEntry struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Price string `json:"price"`
}
