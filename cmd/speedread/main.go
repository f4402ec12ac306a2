package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"speedread/internal/config"
	"speedread/internal/pipeline"
	"speedread/internal/store"
	"speedread/internal/summarize"
	"speedread/internal/version"
)

func main() {
	// Best-effort .env so OPENAI_API_KEY can live next to the binary.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	app := &cli.Command{
		Name:  "speedread",
		Usage: "Generate a 3-bullet speed-read page from news feeds",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run one fetch/summarize/publish pass and exit",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Usage: "Path to config file (default: ~/.config/speedread/config.yaml)"},
					&cli.StringFlag{Name: "output", Usage: "Override output directory"},
					&cli.IntFlag{Name: "max", Usage: "Override max stories per run"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					if v := strings.TrimSpace(c.String("output")); v != "" {
						cfg.OutputDir = config.ExpandPath(v)
					}
					if v := c.Int("max"); v > 0 {
						cfg.MaxStories = v
					}
					if cfg.AI.APIKey == "" && cfg.AI.BaseURL == "" {
						return fmt.Errorf("OPENAI_API_KEY is not set")
					}
					summ := summarize.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model,
						time.Duration(cfg.SummarizeTimeoutSec)*time.Second, sugar)
					stats, err := pipeline.New(cfg, summ, sugar).Run(ctx)
					if err != nil {
						return err
					}
					fmt.Printf("Published %d stories (%d fetched, %d new, %d skipped)\n",
						stats.Summarized, stats.Fetched, stats.New, stats.Skipped)
					return nil
				},
			},
			{
				Name:  "history",
				Usage: "List recently summarized stories",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Usage: "Path to config file"},
					&cli.IntFlag{Name: "limit", Usage: "Max entries to show (default: 20)", Value: 20},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					return runHistory(ctx, cfg, c.Int("limit"))
				},
			},
			{
				Name:  "version",
				Usage: "Print version",
				Action: func(ctx context.Context, c *cli.Command) error {
					fmt.Println(version.GetVersion())
					return nil
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		sugar.Fatalw("run failed", "err", err)
	}
}

func runHistory(ctx context.Context, cfg config.Config, limit int) error {
	if _, err := os.Stat(cfg.DatabasePath); err != nil {
		fmt.Printf("No database found at %s\n", cfg.DatabasePath)
		fmt.Println("Hint: run './speedread run' once to create it.")
		return nil
	}
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	recs, err := st.History(ctx, limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No summarized stories yet.")
		return nil
	}
	for _, r := range recs {
		fmt.Printf("[%s] %s\n", r.ProcessedAt.Format("2006-01-02 15:04"), r.Title)
		fmt.Printf("  %s\n", r.Link)
		fmt.Printf("  - %s\n", r.WhatHappened)
		fmt.Printf("  - %s\n", r.WhyItMatters)
		fmt.Printf("  - %s\n", r.IntrigueHook)
		fmt.Println(strings.Repeat("-", 80))
	}
	return nil
}
