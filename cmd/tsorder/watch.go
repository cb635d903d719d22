package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/panbanda/tsorder/pkg/watch"
	"github.com/urfave/cli/v2"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Rebuild whenever a source file changes",
		ArgsUsage: "[dir] [output]",
		Flags: append([]cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period before rebuilding (default watch.debounce_ms from config)",
			},
		}, buildFlags()...),
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	cfg, svc, err := setup(c)
	if err != nil {
		return err
	}
	f, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer f.Close()

	dir, err := filepath.Abs(argOr(c, 0, "."))
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	out := argOr(c, 1, cfg.Build.Output)

	debounce := c.Duration("debounce")
	if debounce <= 0 {
		debounce = time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	}

	watcher, err := watch.NewWatcher(dir, cfg, debounce)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()
	watcher.SetOutput(errWriter(c))

	rebuild := func() {
		if err := buildOnce(c, cfg, svc, f, dir, out); err != nil {
			f.Error("%v", err)
		}
	}
	rebuild()
	watcher.SetCallback(func(changed []string) { rebuild() })

	if err := watcher.Start(c.Context); err != nil && !errors.Is(err, c.Context.Err()) {
		return err
	}
	return nil
}
