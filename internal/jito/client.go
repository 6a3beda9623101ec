// =============================
// File: internal/jito/client.go
// =============================

// Package jito submits signed transactions through the block-engine relay.
package jito

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// DefaultURL is the mainnet block-engine transactions endpoint.
const DefaultURL = "https://mainnet.block-engine.jito.wtf/api/v1/transactions"

// maxRetries bounds the relay's own resubmission of the transaction.
const maxRetries = 1

// ErrEmptyResult means the relay answered without an error but also
// without a signature.
var ErrEmptyResult = errors.New("relay returned no signature")

// RelayError is an explicit error reported by the relay.
type RelayError struct {
	Code    int
	Message string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("relay rejected transaction: %s", e.Message)
}

// Client sends transactions to the relay over JSON-RPC.
type Client struct {
	url    string
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a relay client. An empty URL falls back to mainnet.
func NewClient(url string, httpClient *http.Client, logger *zap.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		url:    url,
		http:   httpClient,
		logger: logger.Named("jito"),
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type sendOpts struct {
	Encoding      string `json:"encoding"`
	SkipPreflight bool   `json:"skipPreflight"`
	MaxRetries    int    `json:"maxRetries"`
}

type rpcResponse struct {
	Result string    `json:"result"`
	Error  *rpcError `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SendTransaction submits one signed transaction and returns its
// signature. Skips preflight simulation; one relay-side retry at most.
// The call is fire-and-forget at the network level: once the request is
// written, the transaction is not recalled on any local failure.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to serialize transaction: %w", err)
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "sendTransaction",
		Params: []interface{}{
			base64.StdEncoding.EncodeToString(raw),
			sendOpts{Encoding: "base64", SkipPreflight: true, MaxRetries: maxRetries},
		},
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to encode relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return solana.Signature{}, fmt.Errorf("failed to read relay response: %w", err)
	}

	if decoded.Error != nil {
		return solana.Signature{}, &RelayError{Code: decoded.Error.Code, Message: decoded.Error.Message}
	}
	if decoded.Result == "" {
		return solana.Signature{}, ErrEmptyResult
	}

	sig, err := solana.SignatureFromBase58(decoded.Result)
	if err != nil {
		return solana.Signature{}, &RelayError{Message: fmt.Sprintf("malformed signature %q: %v", decoded.Result, err)}
	}

	c.logger.Debug("Transaction relayed",
		zap.String("signature", sig.String()),
		zap.Duration("elapsed", time.Since(start)))

	return sig, nil
}
