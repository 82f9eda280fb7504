package main

import (
	"errors"
	"time"

	"github.com/packsmith/cpack/internal/debug"
	"github.com/packsmith/cpack/internal/pack"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"
)

var watchCommand = &cli.Command{
	Name:      "watch",
	Usage:     "Recompile a pack whenever its source directory changes",
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
		&cli.IntFlag{
			Name:  "debounce-ms",
			Usage: "Delay after the last change before recompiling",
			Value: 300,
		},
	},
	Action: watchAction,
}

// watchAction mirrors the debounce-then-act shape of the teacher's
// FileWatcher/eventDebouncer pair, minus the incremental scan state:
// every debounced batch here just triggers a full recompile.
func watchAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("usage: cpack watch <src> <dest>")
	}
	src, dest := c.Args().Get(0), c.Args().Get(1)
	debounce := time.Duration(c.Int("debounce-ms")) * time.Millisecond

	var exclude []string
	if cfg != nil {
		exclude = cfg.Exclude
	}

	opts := pack.CompileOptions{
		NeDB:      c.Bool("nedb"),
		YAML:      c.Bool("yaml") || (cfg != nil && cfg.YAML),
		Recursive: cfg == nil || cfg.Recursive,
		Exclude:   exclude,
		Log:       cliLogger(c.Bool("verbose")),
	}

	recompile := func() {
		start := time.Now()
		if err := pack.Compile(src, dest, opts); err != nil {
			debug.LogCompile("watch recompile failed: %v\n", err)
			return
		}
		debug.LogCompile("watch recompiled %s -> %s in %v\n", src, dest, time.Since(start))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(src); err != nil {
		return err
	}

	recompile()

	var timer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, recompile)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			debug.LogCompile("watch error: %v\n", err)
		}
	}
}
