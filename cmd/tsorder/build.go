package main

import (
	"fmt"

	"github.com/panbanda/tsorder/internal/build"
	"github.com/panbanda/tsorder/internal/output"
	"github.com/panbanda/tsorder/internal/service/analysis"
	"github.com/panbanda/tsorder/pkg/config"
	"github.com/panbanda/tsorder/pkg/models"
	"github.com/urfave/cli/v2"
)

func buildFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "manifest",
			Usage: "Keep the reference manifest at this path instead of a temporary file",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print the compiler command and manifest without running it",
		},
	}
}

func buildCmd() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Aliases:   []string{"b"},
		Usage:     "Order the sources in dir and compile them into output with tsc",
		ArgsUsage: "[dir] [output]",
		Description: `Orders the TypeScript sources under dir (default ".") and runs
  <build.command> <build.args...> --out <output> <manifest>
where the manifest lists every source as a reference directive in order.
output defaults to build.output from the config ("script.js").`,
		Flags:  buildFlags(),
		Action: runBuildCmd,
	}
}

func runBuildCmd(c *cli.Context) error {
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
	out := argOr(c, 1, cfg.Build.Output)
	return buildOnce(c, cfg, svc, f, dir, out)
}

// buildOnce orders dir and runs the configured invoker. Warnings never abort.
func buildOnce(c *cli.Context, cfg *config.Config, svc *analysis.Service, f *output.Formatter, dir, out string) error {
	var stats analysis.Stats
	result, err := svc.Order(c.Context, dir, runOptions(c, "", &stats))
	if err != nil {
		return err
	}
	reportStats(c, f, &stats)
	printWarnings(f, result)

	if len(result.Paths) == 0 {
		f.Warning("No source files found in %s", dir)
		return nil
	}

	tsc := build.NewTsc(cfg.Build,
		build.WithOutput(c.App.Writer, errWriter(c)),
		build.WithManifestPath(c.String("manifest")),
		build.WithRelativePaths(cfg.Manifest.Relative),
	)
	var inv build.Invoker = tsc
	if c.Bool("dry-run") {
		inv = build.NewDryRun(tsc, c.App.Writer)
	}

	if err := inv.Build(c.Context, result.Paths, out); err != nil {
		return err
	}
	if !c.Bool("dry-run") {
		f.Success("Built %s from %d units", out, len(result.Paths))
	}
	return nil
}

// printWarnings reports ordering diagnostics on the diagnostics writer.
func printWarnings(f *output.Formatter, result *models.OrderResult) {
	for _, w := range result.Warnings {
		f.Warning("%s: %s", w.Path, w.Message)
	}
}

func orderCmd() *cli.Command {
	return &cli.Command{
		Name:      "order",
		Usage:     "Print the compilation order with class names, parents, and weights",
		ArgsUsage: "[dir]",
		Flags:     []cli.Flag{refFlag()},
		Action:    runOrderCmd,
	}
}

func refFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "ref",
		Usage: "Read sources at a git revision instead of the working tree",
	}
}

func runOrderCmd(c *cli.Context) error {
	cfg, svc, err := setup(c)
	if err != nil {
		return err
	}
	f, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer f.Close()

	var stats analysis.Stats
	result, err := svc.Order(c.Context, argOr(c, 0, "."), runOptions(c, c.String("ref"), &stats))
	if err != nil {
		return err
	}
	reportStats(c, f, &stats)
	return f.Output(output.OrderView(result))
}

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Report inheritance cycles, dangling parents, duplicates, and misorderings",
		ArgsUsage: "[dir]",
		Description: `Checks the inheritance graph without changing the order. Exits non-zero
when a cycle is found, or with --strict when any class is ordered before
one of its ancestors.`,
		Flags: []cli.Flag{
			refFlag(),
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Also fail on misorderings",
			},
		},
		Action: runCheckCmd,
	}
}

func runCheckCmd(c *cli.Context) error {
	cfg, svc, err := setup(c)
	if err != nil {
		return err
	}
	f, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer f.Close()

	var stats analysis.Stats
	report, err := svc.Check(c.Context, argOr(c, 0, "."), runOptions(c, c.String("ref"), &stats))
	if err != nil {
		return err
	}
	reportStats(c, f, &stats)
	if err := f.Output(output.CheckView(report)); err != nil {
		return err
	}

	if !report.Healthy() {
		return fmt.Errorf("%d inheritance cycle(s) found", report.Summary.Cycles)
	}
	if c.Bool("strict") && len(report.Misorderings) > 0 {
		return fmt.Errorf("%d class(es) ordered before an ancestor", len(report.Misorderings))
	}
	return nil
}
