package cmd

import (
	"fmt"
	"os"

	"github.com/go-drift/compose/cmd/compose/internal/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "config",
		Short: "Show the resolved configuration",
		Long: `Show the configuration replay would run with.

Values come from compose.yaml in the project root when present. The app
name defaults to the last element of the go.mod module path, or to the
directory name outside a Go module.`,
		Usage: "compose config",
		Run:   runConfig,
	})
}

func runConfig(args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	module := cfg.ModulePath
	if module == "" {
		module = "(none)"
	}
	fmt.Fprintf(stdout, "Project: %s\n", cfg.Root)
	fmt.Fprintf(stdout, "  app:          %s\n", cfg.AppName)
	fmt.Fprintf(stdout, "  module:       %s\n", module)
	fmt.Fprintf(stdout, "  log level:    %s\n", cfg.LogLevel)
	fmt.Fprintf(stdout, "  verbose:      %t\n", cfg.Verbose)
	fmt.Fprintf(stdout, "  sync rebuild: %t\n", cfg.SyncRebuild)
	fmt.Fprintf(stdout, "  metrics:      %t\n", cfg.Metrics)
	return nil
}

func resolveConfig() (*config.Resolved, error) {
	dir := projectDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = config.FindProjectRoot(wd)
	}
	return config.Resolve(dir)
}
