package main

import (
	"path/filepath"

	"github.com/panbanda/tsorder/internal/manifest"
	"github.com/panbanda/tsorder/internal/service/analysis"
	"github.com/urfave/cli/v2"
)

func manifestCmd() *cli.Command {
	return &cli.Command{
		Name:      "manifest",
		Usage:     "Write the reference manifest for dir to file, or stdout",
		ArgsUsage: "[dir] [file]",
		Flags: []cli.Flag{
			refFlag(),
			&cli.BoolFlag{
				Name:  "relative",
				Usage: "Write paths relative to the manifest (or dir for stdout) with forward slashes",
			},
		},
		Action: runManifestCmd,
	}
}

func runManifestCmd(c *cli.Context) error {
	cfg, svc, err := setup(c)
	if err != nil {
		return err
	}
	f, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer f.Close()

	dir := argOr(c, 0, ".")
	var stats analysis.Stats
	result, err := svc.Order(c.Context, dir, runOptions(c, c.String("ref"), &stats))
	if err != nil {
		return err
	}
	reportStats(c, f, &stats)
	printWarnings(f, result)

	opts := manifest.Options{Relative: cfg.Manifest.Relative || c.Bool("relative")}
	if file := argOr(c, 1, ""); file != "" {
		if err := manifest.WriteFile(file, result.Paths, opts); err != nil {
			return err
		}
		f.Success("Wrote %s (%d units)", file, len(result.Paths))
		return nil
	}

	base, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	opts.BaseDir = base
	return manifest.Render(c.App.Writer, result.Paths, opts)
}
