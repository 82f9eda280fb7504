package main

import (
	"errors"

	"github.com/packsmith/cpack/internal/pack"

	"github.com/urfave/cli/v2"
)

var repairCommand = &cli.Command{
	Name:      "repair",
	Usage:     "Recover a sorted-store pack after an unclean shutdown",
	ArgsUsage: "<path>",
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			return errors.New("usage: cpack repair <path>")
		}
		return pack.Repair(c.Args().Get(0), pack.RepairOptions{
			Log: cliLogger(c.Bool("verbose")),
		})
	},
}
