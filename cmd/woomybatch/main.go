package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/woomy/internal/config"
	"github.com/udisondev/woomy/internal/processor"
)

const ConfigPath = "config/woomy.yaml"

var (
	errUsage  = errors.New("usage: woomybatch -d|-e <dir>")
	errFailed = errors.New("some files failed")
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) != 2 {
		return errUsage
	}
	mode, err := processor.ParseMode(args[0])
	if err != nil {
		return err
	}

	cfgPath := ConfigPath
	if p := os.Getenv("WOOMY_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadTool(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	slog.Info("config loaded", "workers", cfg.Batch.Workers, "pattern", cfg.Batch.Pattern, "archive", cfg.Database.Enabled)

	engine, err := processor.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	archive, closeArchive, err := processor.OpenArchive(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeArchive()

	p := processor.New(engine, cfg, archive)
	sum, err := p.ProcessDir(ctx, mode, args[1], cfg.Batch.Pattern, cfg.Batch.Workers)
	slog.Info("batch finished",
		"dir", args[1],
		"mode", mode,
		"processed", sum.Processed,
		"unverified", sum.Unverified,
		"failed", sum.Failed,
		"skipped", sum.Skipped,
	)
	if err != nil {
		return err
	}
	if sum.Failed > 0 {
		return fmt.Errorf("%w: %d", errFailed, sum.Failed)
	}
	return nil
}
