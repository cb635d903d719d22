package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/panbanda/tsorder/internal/output"
	"github.com/panbanda/tsorder/internal/progress"
	"github.com/panbanda/tsorder/internal/service/analysis"
	"github.com/panbanda/tsorder/pkg/config"
	"github.com/panbanda/tsorder/pkg/source"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// progressThreshold is the unit count above which reads show a progress bar.
const progressThreshold = 200

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "tsorder",
		Usage:   "Order TypeScript sources so classes follow the classes they extend",
		Version: version,
		Description: `tsorder scans a directory for TypeScript source files, finds the exported class
each file declares and the class it extends, and orders the files so base
classes are compiled before their subclasses. The order is written as a
reference manifest and handed to tsc to produce a single output file.

Run without a command to build: tsorder [dir] [output]`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"TSORDER_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, yaml, markdown, toon (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write formatted output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable the descriptor cache",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		}, buildFlags()...),
		ArgsUsage: "[dir] [output]",
		Action:    runBuildCmd,
		Commands: []*cli.Command{
			buildCmd(),
			orderCmd(),
			manifestCmd(),
			checkCmd(),
			watchCmd(),
			configCmd(),
			cacheCmd(),
			mcpCmd(),
		},
	}
}

// argOr returns the n-th positional argument, or def when absent.
func argOr(c *cli.Context, n int, def string) string {
	if c.Args().Len() > n && c.Args().Get(n) != "" {
		return c.Args().Get(n)
	}
	return def
}

// loadConfig loads the file named by --config, or searches the default locations.
func loadConfig(c *cli.Context) (*config.LoadResult, error) {
	var opts []config.LoadOption
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithPath(path))
	}
	return config.LoadConfig(opts...)
}

// setup loads configuration and creates the analysis service.
func setup(c *cli.Context) (*config.Config, *analysis.Service, error) {
	result, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	if c.Bool("verbose") && result.Source != "" {
		fmt.Fprintf(c.App.ErrWriter, "Using config %s\n", result.Source)
	}
	return result.Config, analysis.New(analysis.WithConfig(result.Config)), nil
}

// newFormatter creates a formatter honoring --format, --output, and the config.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	name := c.String("format")
	if name == "" {
		name = cfg.Output.Format
	}
	format := output.ParseFormat(name)
	colored := cfg.Output.Color && !color.NoColor

	if path := c.String("output"); path != "" {
		return output.NewFormatter(format, path, false)
	}
	return output.NewWriterFormatter(format, c.App.Writer, errWriter(c), colored), nil
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

// runOptions builds per-run options from the command line.
func runOptions(c *cli.Context, ref string, stats *analysis.Stats) analysis.Options {
	w := errWriter(c)
	return analysis.Options{
		Ref:     ref,
		NoCache: c.Bool("no-cache"),
		Stats:   stats,
		Tracker: func(total int) source.Tracker {
			if total < progressThreshold {
				return nil
			}
			return progress.NewTrackerTo(w, "Reading sources", total)
		},
	}
}

// reportStats prints run details when --verbose is set.
func reportStats(c *cli.Context, f *output.Formatter, stats *analysis.Stats) {
	if !c.Bool("verbose") {
		return
	}
	if stats.Cached {
		f.Info("Read %d units (cache: %d hits, %d misses)", stats.Units, stats.CacheHits, stats.CacheMisses)
		return
	}
	f.Info("Read %d units (cache disabled)", stats.Units)
}

// diagFormatter creates a text formatter for commands that only print status messages.
func diagFormatter(c *cli.Context) *output.Formatter {
	return output.NewWriterFormatter(output.FormatText, c.App.Writer, errWriter(c), !color.NoColor)
}
