package main

import (
	"errors"
	"time"

	"github.com/packsmith/cpack/internal/cpackerrors"
	"github.com/packsmith/cpack/internal/debug"
	"github.com/packsmith/cpack/internal/lockprobe"
	"github.com/packsmith/cpack/internal/pack"

	"github.com/urfave/cli/v2"
)

var compileCommand = &cli.Command{
	Name:      "compile",
	Usage:     "Compile a directory of source documents into a pack",
	ArgsUsage: "<src> <dest>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "nedb",
			Usage: "Write a NeDB-style log store instead of a LevelDB sorted store",
		},
		&cli.BoolFlag{
			Name:  "yaml",
			Usage: "Read YAML source documents instead of JSON",
		},
		&cli.BoolFlag{
			Name:  "recursive",
			Usage: "Recurse into subdirectories of src",
			Value: true,
		},
	},
	Action: compileAction,
}

func compileAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("usage: cpack compile <src> <dest>")
	}
	src, dest := c.Args().Get(0), c.Args().Get(1)

	locked, err := lockprobe.Probe(dest + ".lock")
	if err != nil {
		return err
	}
	if locked {
		return cpackerrors.NewLockedPack("compile", dest)
	}

	var exclude []string
	if cfg != nil {
		exclude = cfg.Exclude
	}

	opts := pack.CompileOptions{
		NeDB:      c.Bool("nedb"),
		YAML:      c.Bool("yaml") || (cfg != nil && cfg.YAML),
		Recursive: c.Bool("recursive") && (cfg == nil || cfg.Recursive),
		Exclude:   exclude,
		Log:       cliLogger(c.Bool("verbose")),
	}

	start := time.Now()
	if err := pack.Compile(src, dest, opts); err != nil {
		return err
	}
	debug.LogCompile("compiled %s -> %s in %v\n", src, dest, time.Since(start))
	return nil
}
