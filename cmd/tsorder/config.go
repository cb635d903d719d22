package main

import (
	"fmt"

	"github.com/panbanda/tsorder/pkg/config"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Subcommands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Validate a configuration file",
				Description: `Validates a tsorder configuration file against its schema and for
invalid values.

Examples:
  tsorder config validate                   # Validates default config locations
  tsorder -c tsorder.toml config validate   # Validates specific file`,
				Action: runConfigValidate,
			},
			{
				Name:  "show",
				Usage: "Show the effective configuration",
				Description: `Shows the merged configuration from defaults and config file as TOML.

Examples:
  tsorder config show
  tsorder -c .tsorder/tsorder.yaml config show`,
				Action: runConfigShow,
			},
		},
	}
}

func runConfigValidate(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		path = config.FindConfigFile(".", ".tsorder")
	}
	if path == "" {
		f := diagFormatter(c)
		f.Warning("No config file found. Default configuration is valid.")
		return nil
	}

	f := diagFormatter(c)
	if err := config.ValidateFile(path); err != nil {
		f.Error("Configuration validation failed: %v", err)
		return err
	}
	if _, err := config.Load(path); err != nil {
		f.Error("Configuration validation failed: %v", err)
		return err
	}
	f.Success("Configuration valid: %s", path)
	return nil
}

func runConfigShow(c *cli.Context) error {
	result, err := loadConfig(c)
	if err != nil {
		return err
	}

	w := c.App.Writer
	if result.Source != "" {
		fmt.Fprintf(w, "# Configuration from: %s\n\n", result.Source)
	} else {
		fmt.Fprintln(w, "# Default configuration (no config file found)")
	}

	content, err := toml.Marshal(result.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = w.Write(content)
	return err
}
