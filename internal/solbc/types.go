// =============================
// File: internal/solbc/types.go
// =============================

// Package solbc is the standard JSON-RPC path to the chain: balance and
// account reads for sizing and display, plus plain sendTransaction as the
// fallback submission path.
package solbc

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 10 * time.Second
	maxAttempts    = 3
)

// TokenBalance is one owner's balance for a mint in smallest units.
type TokenBalance struct {
	Mint     solana.PublicKey
	Amount   uint64
	Decimals uint8
}

// Reader is the read surface the swap engine and market summary use.
type Reader interface {
	GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error)
	GetTokenBalance(ctx context.Context, owner, mint solana.PublicKey) (*TokenBalance, error)
	GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error)
}

// Client is a round-robin pool over several RPC endpoints. A node that
// fails a call is marked inactive and skipped until the pool wraps around.
type Client struct {
	rpcClients []*RPCClient
	currIndex  int
	mutex      sync.Mutex
	logger     *zap.Logger
}

// RPCClient is one pooled endpoint.
type RPCClient struct {
	Client  *rpc.Client
	URL     string
	active  bool
	mutex   sync.RWMutex
	metrics *RPCMetrics
}

// RPCMetrics tracks per-endpoint call outcomes.
type RPCMetrics struct {
	successCount uint64
	errorCount   uint64
	latency      time.Duration
	mutex        sync.RWMutex
}
