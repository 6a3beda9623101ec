package task

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quickswap-labs/jitoswap/internal/swap"
)

const usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

func writeTasksFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTasks(t *testing.T) {
	m := NewManager(zap.NewNop())
	path := writeTasksFile(t,
		"task_name,side,token_mint,amount_sol,sell_percent,slippage_bps,tip_sol\n"+
			"buy-usdc,buy,"+usdcMint+",0.5,0,300,0.0001\n"+
			"sell-half,sell,"+usdcMint+",0,50,,\n")

	tasks, err := m.LoadTasks(path)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "buy-usdc", tasks[0].TaskName)
	assert.Equal(t, swap.SideBuy, tasks[0].Side)
	assert.Equal(t, 0.5, tasks[0].AmountSol)
	assert.Equal(t, uint64(300), tasks[0].SlippageBps)
	assert.Equal(t, 0.0001, tasks[0].TipSol)

	assert.Equal(t, swap.SideSell, tasks[1].Side)
	assert.Equal(t, 50.0, tasks[1].SellPercent)
	assert.Zero(t, tasks[1].SlippageBps)
}

func TestLoadTasks_SkipsInvalidRows(t *testing.T) {
	m := NewManager(zap.NewNop())
	path := writeTasksFile(t,
		"task_name,side,token_mint,amount_sol,sell_percent,slippage_bps,tip_sol\n"+
			"bad-side,hold,"+usdcMint+",0.5,0,,\n"+
			"bad-mint,buy,not-a-mint,0.5,0,,\n"+
			"bad-amount,buy,"+usdcMint+",zero,0,,\n"+
			"sell-all,sell,"+usdcMint+",0,100,,\n")

	tasks, err := m.LoadTasks(path)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "sell-all", tasks[0].TaskName)
}

func TestLoadTasks_MissingFile(t *testing.T) {
	m := NewManager(zap.NewNop())
	_, err := m.LoadTasks(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestLoadTasks_HeaderOnly(t *testing.T) {
	m := NewManager(zap.NewNop())
	path := writeTasksFile(t, "task_name,side,token_mint,amount_sol,sell_percent,slippage_bps,tip_sol\n")
	_, err := m.LoadTasks(path)
	assert.Error(t, err)
}

func TestToOrder_Defaults(t *testing.T) {
	buy := &Task{TaskName: "b", Side: swap.SideBuy, TokenMint: usdcMint, AmountSol: 1}
	order, err := buy.ToOrder()
	require.NoError(t, err)
	assert.Equal(t, uint64(DefaultBuySlippageBps), order.SlippageBps)
	assert.Equal(t, uint64(DefaultTipSol*swap.LamportsPerSOL), order.TipLamports)

	sell := &Task{TaskName: "s", Side: swap.SideSell, TokenMint: usdcMint, SellPercent: 100}
	order, err = sell.ToOrder()
	require.NoError(t, err)
	assert.Equal(t, uint64(DefaultSellSlippageBps), order.SlippageBps)
}

func TestToOrder_ExplicitValues(t *testing.T) {
	task := &Task{
		TaskName:    "b",
		Side:        swap.SideBuy,
		TokenMint:   usdcMint,
		AmountSol:   0.25,
		SlippageBps: 1000,
		TipSol:      0.001,
	}
	order, err := task.ToOrder()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), order.SlippageBps)
	assert.Equal(t, uint64(1_000_000), order.TipLamports)
	assert.Equal(t, 0.25, order.AmountSol)
}

func TestTaskValidate(t *testing.T) {
	cases := []struct {
		name string
		task Task
		ok   bool
	}{
		{"valid buy", Task{TaskName: "t", Side: swap.SideBuy, TokenMint: usdcMint, AmountSol: 1}, true},
		{"valid sell", Task{TaskName: "t", Side: swap.SideSell, TokenMint: usdcMint, SellPercent: 50}, true},
		{"empty name", Task{Side: swap.SideBuy, TokenMint: usdcMint, AmountSol: 1}, false},
		{"zero buy amount", Task{TaskName: "t", Side: swap.SideBuy, TokenMint: usdcMint}, false},
		{"sell percent over 100", Task{TaskName: "t", Side: swap.SideSell, TokenMint: usdcMint, SellPercent: 101}, false},
		{"slippage too high", Task{TaskName: "t", Side: swap.SideBuy, TokenMint: usdcMint, AmountSol: 1, SlippageBps: 10_001}, false},
		{"negative tip", Task{TaskName: "t", Side: swap.SideBuy, TokenMint: usdcMint, AmountSol: 1, TipSol: -1}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.task.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
