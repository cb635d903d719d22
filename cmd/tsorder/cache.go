package main

import (
	"fmt"
	"time"

	"github.com/panbanda/tsorder/internal/output"
	"github.com/urfave/cli/v2"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the descriptor cache",
		Subcommands: []*cli.Command{
			{
				Name:      "stats",
				Usage:     "Show descriptor cache statistics",
				ArgsUsage: "[dir]",
				Action:    runCacheStats,
			},
			{
				Name:      "clear",
				Usage:     "Remove all cached descriptors",
				ArgsUsage: "[dir]",
				Action:    runCacheClear,
			},
		},
	}
}

func runCacheStats(c *cli.Context) error {
	cfg, svc, err := setup(c)
	if err != nil {
		return err
	}
	store, err := svc.Cache(argOr(c, 0, "."))
	if err != nil {
		return err
	}
	stats, err := store.GetStats()
	if err != nil {
		return fmt.Errorf("reading cache: %w", err)
	}

	f, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Output(output.NewTable(
		"Descriptor Cache",
		[]string{"Metric", "Value"},
		[][]string{
			{"Entries", fmt.Sprintf("%d", stats.Entries)},
			{"Size (bytes)", fmt.Sprintf("%d", stats.TotalSize)},
			{"Oldest", stats.OldestAge.Round(time.Second).String()},
			{"Newest", stats.NewestAge.Round(time.Second).String()},
		},
		nil,
		stats,
	))
}

func runCacheClear(c *cli.Context) error {
	_, svc, err := setup(c)
	if err != nil {
		return err
	}
	store, err := svc.Cache(argOr(c, 0, "."))
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	diagFormatter(c).Success("Cache cleared")
	return nil
}
