package swap

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quickswap-labs/jitoswap/internal/jupiter"
	"github.com/quickswap-labs/jitoswap/internal/solbc"
)

var testTokenMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

type fakeQuoteProvider struct {
	quoteErr error
	set      *jupiter.InstructionSet
	setErr   error

	gotInput    solana.PublicKey
	gotOutput   solana.PublicKey
	gotAmount   uint64
	gotSlippage uint64
	gotTip      uint64
	setCalls    int
}

func (f *fakeQuoteProvider) GetQuote(ctx context.Context, inputMint, outputMint solana.PublicKey, amount uint64, slippageBps uint64) (*jupiter.Quote, error) {
	f.gotInput, f.gotOutput, f.gotAmount, f.gotSlippage = inputMint, outputMint, amount, slippageBps
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return &jupiter.Quote{InputMint: inputMint, OutputMint: outputMint, InAmount: amount, OutAmount: amount / 2}, nil
}

func (f *fakeQuoteProvider) SwapInstructions(ctx context.Context, quote *jupiter.Quote, user solana.PublicKey, tipLamports uint64) (*jupiter.InstructionSet, error) {
	f.setCalls++
	f.gotTip = tipLamports
	return f.set, f.setErr
}

type fakeBalances struct {
	balance uint64
	err     error
	calls   int
}

func (f *fakeBalances) GetTokenBalance(ctx context.Context, owner, mint solana.PublicKey) (*solbc.TokenBalance, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &solbc.TokenBalance{Mint: mint, Amount: f.balance, Decimals: 6}, nil
}

type fakeSubmitter struct {
	sig     solana.Signature
	err     error
	calls   int
	gotSide Side
}

func (f *fakeSubmitter) Submit(ctx context.Context, tx *solana.Transaction, side Side) (solana.Signature, error) {
	f.calls++
	f.gotSide = side
	return f.sig, f.err
}

type fakeTracker struct {
	status ConfirmationStatus
	err    error
	calls  int
}

func (f *fakeTracker) Await(ctx context.Context, sig solana.Signature) (ConfirmationStatus, error) {
	f.calls++
	return f.status, f.err
}

func newTestEngine(t *testing.T, quotes *fakeQuoteProvider, balances *fakeBalances, submitter *fakeSubmitter, tracker *fakeTracker) *Engine {
	t.Helper()
	w := testWallet(t)
	if quotes.set == nil && quotes.setErr == nil {
		quotes.set = testInstructionSet(w.PublicKey)
	}
	return NewEngine(quotes, balances, submitter, tracker, w, zap.NewNop())
}

func TestExecute_Buy(t *testing.T) {
	quotes := &fakeQuoteProvider{}
	submitter := &fakeSubmitter{sig: solana.Signature{9}}
	tracker := &fakeTracker{status: StatusConfirmed}
	engine := newTestEngine(t, quotes, &fakeBalances{}, submitter, tracker)

	result, err := engine.Execute(context.Background(), &Order{
		Side:        SideBuy,
		TokenMint:   testTokenMint,
		AmountSol:   0.5,
		SlippageBps: 500,
		TipLamports: 10_000,
	})
	require.NoError(t, err)

	assert.Equal(t, WSOLMint, quotes.gotInput)
	assert.Equal(t, testTokenMint, quotes.gotOutput)
	assert.Equal(t, uint64(500_000_000), quotes.gotAmount)
	assert.Equal(t, uint64(500), quotes.gotSlippage)
	assert.Equal(t, uint64(10_000), quotes.gotTip)

	assert.Equal(t, SideBuy, submitter.gotSide)
	assert.Equal(t, StatusConfirmed, result.Status)
	assert.Equal(t, solana.Signature{9}, result.Signature)
	assert.Equal(t, uint64(250_000_000), result.OutAmount)
}

func TestExecute_SellSizesFromFreshBalance(t *testing.T) {
	quotes := &fakeQuoteProvider{}
	balances := &fakeBalances{balance: 1_000_000}
	submitter := &fakeSubmitter{sig: solana.Signature{9}}
	engine := newTestEngine(t, quotes, balances, submitter, &fakeTracker{status: StatusConfirmed})

	_, err := engine.Execute(context.Background(), &Order{
		Side:        SideSell,
		TokenMint:   testTokenMint,
		SellPercent: 40,
		SlippageBps: 200,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, balances.calls)
	assert.Equal(t, testTokenMint, quotes.gotInput)
	assert.Equal(t, WSOLMint, quotes.gotOutput)
	assert.Equal(t, uint64(400_000), quotes.gotAmount)
	assert.Equal(t, SideSell, submitter.gotSide)
}

func TestExecute_SellPercentOutOfRange(t *testing.T) {
	engine := newTestEngine(t, &fakeQuoteProvider{}, &fakeBalances{balance: 100}, &fakeSubmitter{}, &fakeTracker{})

	_, err := engine.Execute(context.Background(), &Order{
		Side:        SideSell,
		TokenMint:   testTokenMint,
		SellPercent: 150,
		SlippageBps: 200,
	})
	assert.Error(t, err)
}

func TestExecute_SellZeroBalance(t *testing.T) {
	quotes := &fakeQuoteProvider{}
	submitter := &fakeSubmitter{}
	engine := newTestEngine(t, quotes, &fakeBalances{balance: 0}, submitter, &fakeTracker{})

	_, err := engine.Execute(context.Background(), &Order{
		Side:        SideSell,
		TokenMint:   testTokenMint,
		SellPercent: 100,
		SlippageBps: 200,
	})
	require.Error(t, err)
	assert.Equal(t, 0, submitter.calls)
}

func TestExecute_NoRouteStopsPipeline(t *testing.T) {
	quotes := &fakeQuoteProvider{quoteErr: jupiter.ErrNoRoute}
	submitter := &fakeSubmitter{}
	engine := newTestEngine(t, quotes, &fakeBalances{}, submitter, &fakeTracker{})

	_, err := engine.Execute(context.Background(), &Order{
		Side:        SideBuy,
		TokenMint:   testTokenMint,
		AmountSol:   0.1,
		SlippageBps: 500,
	})
	assert.ErrorIs(t, err, jupiter.ErrNoRoute)
	assert.Equal(t, 0, quotes.setCalls)
	assert.Equal(t, 0, submitter.calls)
}

func TestExecute_InstructionFailureStopsBeforeSubmission(t *testing.T) {
	quotes := &fakeQuoteProvider{setErr: &jupiter.ProviderError{Endpoint: "swap-instructions", Detail: "response is missing swapInstruction"}}
	submitter := &fakeSubmitter{}
	tracker := &fakeTracker{}
	engine := newTestEngine(t, quotes, &fakeBalances{}, submitter, tracker)

	_, err := engine.Execute(context.Background(), &Order{
		Side:        SideBuy,
		TokenMint:   testTokenMint,
		AmountSol:   0.1,
		SlippageBps: 500,
	})

	var pe *jupiter.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 0, submitter.calls)
	assert.Equal(t, 0, tracker.calls)
}

func TestExecute_SubmissionFailureSkipsConfirmation(t *testing.T) {
	submitter := &fakeSubmitter{err: errors.New("relay rejected transaction: transaction expired")}
	tracker := &fakeTracker{}
	engine := newTestEngine(t, &fakeQuoteProvider{}, &fakeBalances{}, submitter, tracker)

	result, err := engine.Execute(context.Background(), &Order{
		Side:        SideBuy,
		TokenMint:   testTokenMint,
		AmountSol:   0.1,
		SlippageBps: 500,
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 0, tracker.calls)
}

func TestExecute_ConfirmationFailureKeepsSignature(t *testing.T) {
	submitter := &fakeSubmitter{sig: solana.Signature{9}}
	tracker := &fakeTracker{status: StatusOnChainError, err: &OnChainError{Detail: "InstructionError"}}
	engine := newTestEngine(t, &fakeQuoteProvider{}, &fakeBalances{}, submitter, tracker)

	result, err := engine.Execute(context.Background(), &Order{
		Side:        SideBuy,
		TokenMint:   testTokenMint,
		AmountSol:   0.1,
		SlippageBps: 500,
	})

	var oce *OnChainError
	require.ErrorAs(t, err, &oce)
	require.NotNil(t, result)
	assert.Equal(t, solana.Signature{9}, result.Signature)
	assert.Equal(t, StatusOnChainError, result.Status)
}
