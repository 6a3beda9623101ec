// =============================
// File: internal/solbc/client.go
// =============================
package solbc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// standardMaxRetries bounds node-side resubmission on the standard path.
var standardMaxRetries uint = 1

// NewClient creates a pooled RPC client over the given endpoints.
func NewClient(rpcURLs []string, logger *zap.Logger) (*Client, error) {
	if len(rpcURLs) == 0 {
		return nil, errors.New("empty RPC URL list")
	}

	var clients []*RPCClient
	for _, urlStr := range rpcURLs {
		if _, err := url.Parse(urlStr); err != nil {
			logger.Warn("Invalid RPC URL", zap.String("url", urlStr), zap.Error(err))
			continue
		}
		clients = append(clients, &RPCClient{
			Client:  rpc.New(urlStr),
			URL:     urlStr,
			active:  true,
			metrics: &RPCMetrics{},
		})
	}
	if len(clients) == 0 {
		return nil, errors.New("no valid RPC URLs provided")
	}

	return &Client{
		rpcClients: clients,
		logger:     logger.Named("solbc"),
	}, nil
}

// retryRead runs op against the pool with bounded exponential backoff,
// failing over to the next endpoint on each attempt. Reads are the only
// retried calls in this package; submission is never resubmitted here.
func retryRead[T any](ctx context.Context, c *Client, op func(ctx context.Context, client *rpc.Client) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	attempt := func() (T, error) {
		var zero T
		client := c.getNextClient()
		if client == nil {
			return zero, backoff.Permanent(errors.New("no active RPC clients available"))
		}

		start := time.Now()
		result, err := op(ctx, client.Client)
		client.updateMetrics(err == nil, time.Since(start))
		if err != nil {
			client.setActive(false)
			return zero, err
		}
		return result, nil
	}

	return backoff.Retry(ctx, attempt,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxAttempts),
	)
}

// GetBalance returns the native balance in lamports.
func (c *Client) GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error) {
	return retryRead(ctx, c, func(ctx context.Context, client *rpc.Client) (uint64, error) {
		out, err := client.GetBalance(ctx, pubkey, rpc.CommitmentProcessed)
		if err != nil {
			return 0, fmt.Errorf("failed to get balance: %w", err)
		}
		return out.Value, nil
	})
}

// parsedTokenAccount is the jsonParsed shape of an SPL token account.
type parsedTokenAccount struct {
	Parsed struct {
		Info struct {
			TokenAmount struct {
				Amount   string `json:"amount"`
				Decimals uint8  `json:"decimals"`
			} `json:"tokenAmount"`
		} `json:"info"`
	} `json:"parsed"`
}

// GetTokenBalance returns the owner's balance for mint in smallest units.
// A missing token account reads as zero. Always a fresh read: sell sizing
// must never work off a cached balance.
func (c *Client) GetTokenBalance(ctx context.Context, owner, mint solana.PublicKey) (*TokenBalance, error) {
	return retryRead(ctx, c, func(ctx context.Context, client *rpc.Client) (*TokenBalance, error) {
		out, err := client.GetTokenAccountsByOwner(ctx, owner,
			&rpc.GetTokenAccountsConfig{Mint: &mint},
			&rpc.GetTokenAccountsOpts{
				Encoding:   solana.EncodingJSONParsed,
				Commitment: rpc.CommitmentProcessed,
			})
		if err != nil {
			return nil, fmt.Errorf("failed to get token accounts: %w", err)
		}
		if len(out.Value) == 0 {
			return &TokenBalance{Mint: mint}, nil
		}

		var parsed parsedTokenAccount
		if err := json.Unmarshal(out.Value[0].Account.Data.GetRawJSON(), &parsed); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to parse token account: %w", err))
		}
		amount, err := strconv.ParseUint(parsed.Parsed.Info.TokenAmount.Amount, 10, 64)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("malformed token amount %q: %w", parsed.Parsed.Info.TokenAmount.Amount, err))
		}

		return &TokenBalance{
			Mint:     mint,
			Amount:   amount,
			Decimals: parsed.Parsed.Info.TokenAmount.Decimals,
		}, nil
	})
}

// GetAccountInfo fetches raw account data at confirmed commitment.
func (c *Client) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	return retryRead(ctx, c, func(ctx context.Context, client *rpc.Client) (*rpc.GetAccountInfoResult, error) {
		out, err := client.GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: rpc.CommitmentConfirmed,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get account info: %w", err)
		}
		return out, nil
	})
}

// GetTokenSupply returns a mint's supply in smallest units with decimals.
func (c *Client) GetTokenSupply(ctx context.Context, mint solana.PublicKey) (uint64, uint8, error) {
	type supply struct {
		amount   uint64
		decimals uint8
	}
	out, err := retryRead(ctx, c, func(ctx context.Context, client *rpc.Client) (supply, error) {
		res, err := client.GetTokenSupply(ctx, mint, rpc.CommitmentFinalized)
		if err != nil {
			return supply{}, fmt.Errorf("failed to get token supply: %w", err)
		}
		amount, err := strconv.ParseUint(res.Value.Amount, 10, 64)
		if err != nil {
			return supply{}, backoff.Permanent(fmt.Errorf("malformed supply amount %q: %w", res.Value.Amount, err))
		}
		return supply{amount: amount, decimals: res.Value.Decimals}, nil
	})
	if err != nil {
		return 0, 0, err
	}
	return out.amount, out.decimals, nil
}

// GetNativeSupply returns total native supply in lamports.
func (c *Client) GetNativeSupply(ctx context.Context) (uint64, error) {
	return retryRead(ctx, c, func(ctx context.Context, client *rpc.Client) (uint64, error) {
		res, err := client.GetSupply(ctx, rpc.CommitmentFinalized)
		if err != nil {
			return 0, fmt.Errorf("failed to get supply: %w", err)
		}
		return res.Value.Total, nil
	})
}

// GetLatestBlockhash returns a recent blockhash checkpoint.
func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	return retryRead(ctx, c, func(ctx context.Context, client *rpc.Client) (solana.Hash, error) {
		res, err := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
		if err != nil {
			return solana.Hash{}, fmt.Errorf("failed to get latest blockhash: %w", err)
		}
		return res.Value.Blockhash, nil
	})
}

// SendTransaction submits a signed transaction on the standard path.
// Preflight is skipped and node-side retries are bounded; the call is
// made once, with no pool failover, so a transaction is never duplicated.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	client := c.getNextClient()
	if client == nil {
		return solana.Signature{}, errors.New("no active RPC clients available")
	}

	start := time.Now()
	sig, err := client.Client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight: true,
		MaxRetries:    &standardMaxRetries,
	})
	client.updateMetrics(err == nil, time.Since(start))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("sendTransaction failed: %w", err)
	}
	return sig, nil
}
