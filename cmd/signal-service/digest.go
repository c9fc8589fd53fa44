package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"wealth-signals/internal/signals/config"
	"wealth-signals/pkg/logger"
	"wealth-signals/pkg/telegram"
	"wealth-signals/pkg/trace"
	"wealth-signals/pkg/utils"

	"github.com/spf13/cobra"
)

var digestLimit int

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Computes signals once and sends them to Telegram",
	RunE:  runDigest,
}

func init() {
	digestCmd.Flags().IntVarP(&digestLimit, "limit", "l", 0, "Number of tickers (defaults to signals.default_limit)")
}

func runDigest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = appLogger.Sync() }()

	shutdownTracer, err := trace.Init(cfg.Tracing.Enabled, cfg.App.Name, cfg.App.Version)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	notifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram notifier: %w", err)
	}

	a, err := newApp(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer a.Close()

	limit := digestLimit
	if limit <= 0 {
		limit = cfg.Signals.DefaultLimit
	}

	signals := a.signals.GetSignals(ctx, limit)
	messages := telegram.FormatSignalDigest(signals, utils.TimeNowIST())
	if err := notifier.SendMessages(messages); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}

	appLogger.Info("Signal digest sent", logger.IntField("signals", len(signals)), logger.IntField("messages", len(messages)))
	return nil
}
