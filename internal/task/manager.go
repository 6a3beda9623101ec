// =============================================
// File: internal/task/manager.go
// =============================================
// Package task loads trading tasks from CSV configuration.
package task

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/quickswap-labs/jitoswap/internal/swap"
)

// Manager handles task loading.
type Manager struct {
	logger *zap.Logger
}

// NewManager creates a new task manager.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger.Named("tasks")}
}

// LoadTasks reads tasks from a CSV file.
// CSV format: task_name,side,token_mint,amount_sol,sell_percent,slippage_bps,tip_sol
// For buy tasks, amount_sol = SOL to spend and sell_percent is ignored.
// For sell tasks, sell_percent = share of the current balance to liquidate.
// slippage_bps and tip_sol are optional and fall back to defaults.
func (m *Manager) LoadTasks(path string) ([]Task, error) {
	m.logger.Debug("Loading tasks", zap.String("path", path))

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file error: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV error: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no tasks found (need header + at least one task)")
	}

	tasks := make([]Task, 0, len(records)-1)
	for i, row := range records[1:] {
		if len(row) < 5 {
			m.logger.Warn("Skipping row with insufficient columns",
				zap.Int("row", i+2),
				zap.Int("columns", len(row)))
			continue
		}

		amountSol, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			m.logger.Warn("Invalid amount_sol value", zap.String("value", row[3]), zap.Error(err))
			continue
		}
		sellPercent, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			m.logger.Warn("Invalid sell_percent value", zap.String("value", row[4]), zap.Error(err))
			continue
		}

		var slippageBps uint64
		if len(row) > 5 && row[5] != "" {
			slippageBps, err = strconv.ParseUint(row[5], 10, 64)
			if err != nil {
				m.logger.Warn("Invalid slippage_bps value", zap.String("value", row[5]), zap.Error(err))
				continue
			}
		}

		var tipSol float64
		if len(row) > 6 && row[6] != "" {
			tipSol, err = strconv.ParseFloat(row[6], 64)
			if err != nil {
				m.logger.Warn("Invalid tip_sol value", zap.String("value", row[6]), zap.Error(err))
				continue
			}
		}

		t := Task{
			TaskName:    row[0],
			Side:        swap.Side(row[1]),
			TokenMint:   row[2],
			AmountSol:   amountSol,
			SellPercent: sellPercent,
			SlippageBps: slippageBps,
			TipSol:      tipSol,
			CreatedAt:   time.Now(),
		}
		if err := t.Validate(); err != nil {
			m.logger.Warn("Skipping invalid task",
				zap.String("task", t.TaskName),
				zap.Error(err))
			continue
		}
		tasks = append(tasks, t)
	}

	m.logger.Info("Tasks loaded successfully", zap.Int("count", len(tasks)))
	return tasks, nil
}
