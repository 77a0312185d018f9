// Command d30ctl runs the game-day pipeline by hand.
//
// Usage:
//
//	d30ctl aggregate --date 20260320
//	d30ctl reconcile --date 2026-03-20
//	d30ctl standings --date 2026-03-20 --final
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/dirty-thirty/internal/app"
	"github.com/riskibarqy/dirty-thirty/internal/config"
	"github.com/riskibarqy/dirty-thirty/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "d30ctl",
		Short:        "Dirty Thirty game-day tools",
		SilenceUsage: true,
	}

	var jsonOutput bool
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print machine-readable JSON")

	root.AddCommand(aggregateCmd(&jsonOutput))
	root.AddCommand(reconcileCmd(&jsonOutput))
	root.AddCommand(standingsCmd(&jsonOutput))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// runWithApp loads config, wires the service graph and hands it to fn.
func runWithApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := app.NewLogger(cfg)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	return fn(ctx, a)
}
