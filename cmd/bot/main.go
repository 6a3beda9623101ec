// ====================================
// File: cmd/bot/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/quickswap-labs/jitoswap/internal/bot"
	"github.com/quickswap-labs/jitoswap/internal/config"
	"github.com/quickswap-labs/jitoswap/internal/logger"
)

func main() {
	os.Exit(run())
}

// run keeps the deferred shutdown and log flush ahead of the process
// exit; os.Exit directly in main would skip them.
func run() int {
	configPath := flag.String("config", "configs/config.json", "path to configuration file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// .env is optional; the private key may already be in the environment.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Development = *debug || cfg.DebugLogging
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		return 1
	}
	defer log.Sync()
	log.Info("Starting quickswap bot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := bot.NewRunner(log.Logger)
	if err := runner.Initialize(ctx, cfg); err != nil {
		log.Error("Failed to initialize bot", zap.Error(err))
		return 1
	}
	defer runner.Shutdown()

	if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("Bot execution error", zap.Error(err))
		return 1
	}
	return 0
}
