package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/packsmith/cpack/internal/debug"
	"github.com/packsmith/cpack/internal/display"
	"github.com/packsmith/cpack/internal/userconfig"
	"github.com/packsmith/cpack/internal/version"

	"github.com/urfave/cli/v2"
)

var (
	// Version is reported by --version, set from the centralized version package.
	Version = version.Version

	// cfg holds the loaded .cpack.kdl defaults, populated by the Before hook.
	cfg *userconfig.Config
)

func main() {
	app := &cli.App{
		Name:                   "cpack",
		Usage:                  "Compile and extract FoundryVTT-style compendium packs",
		Version:                Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Project directory to look for .cpack.kdl in",
				Value:   ".",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Show debug information",
			},
		},
		Commands: []*cli.Command{
			compileCommand,
			extractCommand,
			repairCommand,
			watchCommand,
		},
		Before: func(c *cli.Context) error {
			root, err := filepath.Abs(c.String("config"))
			if err != nil {
				return fmt.Errorf("resolving project root: %w", err)
			}
			loaded, err := userconfig.Load(root)
			if err != nil {
				return fmt.Errorf("loading .cpack.kdl: %w", err)
			}
			cfg = loaded

			if c.Bool("verbose") {
				debug.EnableDebug = "true"
			}
			if cfg.LogFile != "" {
				logPath := cfg.LogFile
				if !filepath.IsAbs(logPath) {
					logPath = filepath.Join(root, logPath)
				}
				f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("opening log_file %s: %w", logPath, err)
				}
				debug.EnableDebug = "true"
				debug.SetDebugOutput(f)
			} else if c.Bool("verbose") {
				debug.SetDebugOutput(os.Stderr)
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, display.Colorize(display.LevelError, fmt.Sprintf("cpack: %v", err)))
		os.Exit(1)
	}
}

// cliLogger adapts --verbose to a pack.Logger writing to stderr, colorized
// the way the teacher's CLI colors status lines before printing them.
func cliLogger(verbose bool) func(format string, args ...interface{}) {
	if !verbose {
		return nil
	}
	return func(format string, args ...interface{}) {
		line := display.Colorize(display.LevelInfo, fmt.Sprintf(format, args...))
		fmt.Fprintln(os.Stderr, line)
	}
}
