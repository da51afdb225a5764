package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"newsarchive/internal/app"
	"newsarchive/internal/config"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"
)

const version = "1.0.0"

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = "newsarchive"
	cliApp.Usage = "archive today's news from an RSS feed into a static HTML page"
	cliApp.Version = version
	cliApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Value: "config.json",
			Usage: "path to an optional JSON config file",
		},
	}
	cliApp.Action = run

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not load .env: %w", err)
	}
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("=== News archiver ===")
	a, err := app.New(ctx, cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Run(ctx); err != nil {
		slog.Error("Archive run failed", slog.String("component", "app"), slog.Any("error", err))
		return err
	}
	fmt.Println("Done.")
	return nil
}
