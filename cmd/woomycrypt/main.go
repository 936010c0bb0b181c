package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/udisondev/woomy/internal/config"
	"github.com/udisondev/woomy/internal/processor"
)

const ConfigPath = "config/woomy.yaml"

const mismatchWarning = "Failed to verify data! Output could be wrong."

var errUsage = errors.New("usage: woomycrypt -d|-e <file path>")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stdout, err)
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

	engine, err := processor.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	archive, closeArchive, err := processor.OpenArchive(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeArchive()

	res, err := processor.New(engine, cfg, archive).ProcessFile(ctx, mode, args[1])
	if err != nil {
		return err
	}

	if !res.Verified {
		fmt.Fprintln(stdout, mismatchWarning)
	}
	if res.Amiibo != nil {
		slog.Info("amiibo", "record", res.Amiibo)
	}
	slog.Info("output written", "path", res.Output, "mode", res.Mode)
	return nil
}
