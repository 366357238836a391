package main

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"os"
	"os/signal"
	"procurement_evaluation_system/configs"
	"procurement_evaluation_system/internal/cli"
	"procurement_evaluation_system/internal/cli/render"
	"procurement_evaluation_system/internal/di"
	"procurement_evaluation_system/internal/evaluation"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	config, err := configs.LoadEvaluationCLIConfig()
	// Command output goes to stdout; only warnings and errors are logged.
	logger := di.NewLogger(config.App, config.Logger).Desugar().WithOptions(zap.IncreaseLevel(zap.WarnLevel)).Sugar()
	defer func() { _ = logger.Sync() }()

	if err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closer, err := di.NewStore(ctx, config.App, config.DB, config.SQLite, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
		return 1
	}
	defer closer.Close()

	engine := evaluation.NewEngine(store, evaluation.Config{LockTimeout: config.Engine.LockTimeout}, logger, nil)

	if err := cli.NewRootCmd(engine).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
		return 1
	}
	return 0
}
