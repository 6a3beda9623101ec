// =============================
// File: internal/bot/runner.go
// =============================
package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go/rpc/ws"
	"go.uber.org/zap"

	"github.com/quickswap-labs/jitoswap/internal/config"
	"github.com/quickswap-labs/jitoswap/internal/httpclient"
	"github.com/quickswap-labs/jitoswap/internal/jito"
	"github.com/quickswap-labs/jitoswap/internal/jupiter"
	"github.com/quickswap-labs/jitoswap/internal/market"
	"github.com/quickswap-labs/jitoswap/internal/solbc"
	"github.com/quickswap-labs/jitoswap/internal/swap"
	"github.com/quickswap-labs/jitoswap/internal/task"
	"github.com/quickswap-labs/jitoswap/internal/wallet"
)

// Runner wires configuration into a running bot and executes tasks.
type Runner struct {
	logger      *zap.Logger
	config      *config.Config
	session     *httpclient.Session
	wallet      *wallet.Wallet
	engine      *swap.Engine
	market      *market.Service
	taskManager *task.Manager
	wsClient    *ws.Client
	shutdownCh  chan os.Signal
}

// NewRunner creates an uninitialized runner.
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{
		logger:     logger,
		shutdownCh: make(chan os.Signal, 1),
	}
}

// Initialize loads the wallet and connects every client.
func (r *Runner) Initialize(ctx context.Context, cfg *config.Config) error {
	r.config = cfg

	w, err := wallet.FromEnv()
	if err != nil {
		return fmt.Errorf("failed to load wallet: %w", err)
	}
	r.wallet = w
	r.logger.Info("Wallet loaded", zap.String("pubkey", w.String()))

	jitoURL := cfg.JitoURL
	pingTargets := []string{cfg.RPCList[0]}
	if cfg.JupiterBaseURL != "" {
		pingTargets = append(pingTargets, cfg.JupiterBaseURL)
	} else {
		pingTargets = append(pingTargets, jupiter.DefaultBaseURL)
	}
	if jitoURL != "" {
		pingTargets = append(pingTargets, jitoURL)
	}
	r.session = httpclient.NewSession(pingTargets, cfg.KeepAliveDuration(), r.logger)
	r.session.StartKeepAlive(ctx)

	chain, err := solbc.NewClient(cfg.RPCList, r.logger)
	if err != nil {
		return fmt.Errorf("failed to create RPC client: %w", err)
	}

	wsClient, err := ws.Connect(ctx, cfg.WebSocketURL)
	if err != nil {
		return fmt.Errorf("failed to connect websocket: %w", err)
	}
	r.wsClient = wsClient

	jup := jupiter.NewClient(cfg.JupiterBaseURL, cfg.JupiterPriceURL, r.session.Client(), r.logger)

	var relay swap.TransactionSender
	if jitoURL != "" {
		relay = jito.NewClient(jitoURL, r.session.Client(), r.logger)
	} else {
		r.logger.Warn("No Jito URL configured, falling back to the standard RPC path")
	}

	submitter := swap.NewSubmitter(relay, chain, cfg.SellRaceBudgetDuration(), r.logger)
	tracker := swap.NewTracker(&swap.WSOpener{Client: wsClient}, cfg.ConfirmTimeoutDuration(), r.logger)

	r.engine = swap.NewEngine(jup, chain, submitter, tracker, w, r.logger)
	r.market = market.NewService(chain, jup, r.logger)
	r.taskManager = task.NewManager(r.logger)

	return nil
}

// Run executes the configured tasks one after another. Tasks are
// deliberately sequential: two concurrent sells from the same wallet
// would size off the same balance read.
func (r *Runner) Run(ctx context.Context) error {
	signal.Notify(r.shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sig := <-r.shutdownCh
		r.logger.Info("Signal received: " + sig.String())
		cancel()
	}()

	tasks, err := r.taskManager.LoadTasks(r.config.TasksFile)
	if err != nil {
		return err
	}
	r.logger.Info(fmt.Sprintf("Loaded %d trading tasks", len(tasks)))

	for i := range tasks {
		if runCtx.Err() != nil {
			r.logger.Info("Run cancelled, stopping task execution")
			return runCtx.Err()
		}
		if err := r.executeTask(runCtx, &tasks[i]); err != nil {
			r.logger.Error("Task failed",
				zap.String("task", tasks[i].TaskName),
				zap.Error(err))
		}
	}

	r.logger.Info("All tasks finished")
	return nil
}

func (r *Runner) executeTask(ctx context.Context, t *task.Task) error {
	log := r.logger.With(
		zap.String("task", t.TaskName),
		zap.String("side", string(t.Side)),
		zap.String("mint", t.TokenMint))
	log.Info("Executing task")

	order, err := t.ToOrder()
	if err != nil {
		return err
	}

	result, err := r.engine.Execute(ctx, order)
	if err != nil {
		// Classified failures surface verbatim; the presentation layer
		// renders them without rewording.
		if result != nil && result.Status == swap.StatusTimedOut {
			log.Warn("Confirmation timed out; the transaction may still land",
				zap.String("signature", result.Signature.String()))
		}
		return err
	}

	log.Info("Swap executed",
		zap.String("signature", result.Signature.String()),
		zap.Uint64("out_amount", result.OutAmount))

	if summary, sumErr := r.market.TokenSummary(ctx, r.wallet.PublicKey, order.TokenMint); sumErr == nil {
		log.Info("Token summary",
			zap.String("name", summary.Name),
			zap.String("symbol", summary.Symbol),
			zap.String("balance", summary.Balance.String()),
			zap.String("market_cap_usdc", market.FormatMarketCap(summary.MarketCapUSDC)),
			zap.String("sol_balance", summary.SOLBalance.String()))
	}

	return nil
}

// Shutdown releases the websocket and HTTP resources.
func (r *Runner) Shutdown() {
	r.logger.Info("Bot shutting down gracefully")
	if r.wsClient != nil {
		r.wsClient.Close()
	}
	if r.session != nil {
		r.session.Close()
	}
	if err := r.logger.Sync(); err != nil && !errors.Is(err, os.ErrNotExist) {
		if err.Error() != "sync /dev/stdout: invalid argument" &&
			err.Error() != "sync /dev/stderr: inappropriate ioctl for device" {
			fmt.Fprintf(os.Stderr, "failed to sync logger during shutdown: %v\n", err)
		}
	}
}
