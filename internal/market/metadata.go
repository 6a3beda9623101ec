// =============================
// File: internal/market/metadata.go
// =============================
package market

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/quickswap-labs/jitoswap/internal/solbc"
)

// TokenMetadataProgram is the Metaplex token metadata program.
var TokenMetadataProgram = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

const metadataTTL = 5 * time.Minute

// TokenMetadata is the on-chain name and symbol of a mint.
type TokenMetadata struct {
	Name      string
	Symbol    string
	UpdatedAt time.Time
}

// metadataAccount is the borsh head of a Metaplex metadata account. The
// account carries more fields; decoding stops after symbol.
type metadataAccount struct {
	Key             uint8
	UpdateAuthority solana.PublicKey
	Mint            solana.PublicKey
	Name            string
	Symbol          string
}

// MetadataCache resolves and caches token metadata by mint.
type MetadataCache struct {
	cache  sync.Map
	reader solbc.Reader
	logger *zap.Logger
}

// NewMetadataCache creates a metadata cache over the RPC reader.
func NewMetadataCache(reader solbc.Reader, logger *zap.Logger) *MetadataCache {
	return &MetadataCache{
		reader: reader,
		logger: logger.Named("metadata"),
	}
}

// Get returns the name and symbol for a mint, from cache when fresh.
func (c *MetadataCache) Get(ctx context.Context, mint solana.PublicKey) (*TokenMetadata, error) {
	if cached, ok := c.cache.Load(mint.String()); ok {
		md := cached.(*TokenMetadata)
		if time.Since(md.UpdatedAt) < metadataTTL {
			return md, nil
		}
	}

	md, err := c.fetch(ctx, mint)
	if err != nil {
		return nil, err
	}
	c.cache.Store(mint.String(), md)
	return md, nil
}

func (c *MetadataCache) fetch(ctx context.Context, mint solana.PublicKey) (*TokenMetadata, error) {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("metadata"), TokenMetadataProgram.Bytes(), mint.Bytes()},
		TokenMetadataProgram,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to derive metadata address for %s: %w", mint, err)
	}

	info, err := c.reader.GetAccountInfo(ctx, pda)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata account: %w", err)
	}
	if info.Value == nil || info.Value.Data == nil {
		return nil, fmt.Errorf("no metadata account for mint %s", mint)
	}

	var decoded metadataAccount
	if err := bin.NewBorshDecoder(info.Value.Data.GetBinary()).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode metadata for %s: %w", mint, err)
	}

	md := &TokenMetadata{
		Name:      strings.TrimRight(decoded.Name, "\x00"),
		Symbol:    strings.TrimRight(decoded.Symbol, "\x00"),
		UpdatedAt: time.Now(),
	}
	c.logger.Debug("Token metadata resolved",
		zap.String("mint", mint.String()),
		zap.String("symbol", md.Symbol))
	return md, nil
}
