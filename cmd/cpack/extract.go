package main

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/packsmith/cpack/internal/cpackerrors"
	"github.com/packsmith/cpack/internal/debug"
	"github.com/packsmith/cpack/internal/lockprobe"
	"github.com/packsmith/cpack/internal/manifest"
	"github.com/packsmith/cpack/internal/pack"

	"github.com/urfave/cli/v2"
)

var extractCommand = &cli.Command{
	Name:      "extract",
	Usage:     "Extract a pack into a directory of source documents",
	ArgsUsage: "<src> <dest>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "nedb",
			Usage: "Read a NeDB-style log store instead of a LevelDB sorted store",
		},
		&cli.BoolFlag{
			Name:  "yaml",
			Usage: "Write YAML instead of JSON",
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "Document type stored in a log-store pack (e.g. Actor, Item)",
		},
		&cli.StringFlag{
			Name:  "collection",
			Usage: "Collection name, overriding --type's resolution",
		},
		&cli.StringFlag{
			Name:  "manifest-dir",
			Usage: "Directory of installed-package manifests to resolve --type from when it isn't given",
		},
		&cli.BoolFlag{
			Name:  "clean",
			Usage: "Replace dest's contents entirely rather than merging",
		},
		&cli.BoolFlag{
			Name:  "folders",
			Usage: "Project folder hierarchy onto the output directory tree",
		},
		&cli.BoolFlag{
			Name:  "expand-adventures",
			Usage: "Split each Adventure document's embedded collections into sibling files",
		},
		&cli.BoolFlag{
			Name:  "omit-volatile",
			Usage: "Skip rewriting a file when only volatile _stats fields changed",
		},
	},
	Action: extractAction,
}

func extractAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("usage: cpack extract <src> <dest>")
	}
	src, dest := c.Args().Get(0), c.Args().Get(1)

	locked, err := lockprobe.Probe(src + ".lock")
	if err != nil {
		return err
	}
	if locked {
		return cpackerrors.NewLockedPack("extract", src)
	}

	documentType := c.String("type")
	if documentType == "" && c.String("collection") == "" {
		if dir := c.String("manifest-dir"); dir != "" {
			resolved, err := resolveDocumentType(dir, src)
			if err != nil {
				return err
			}
			documentType = resolved
		}
	}

	opts := pack.ExtractOptions{
		NeDB:             c.Bool("nedb"),
		YAML:             c.Bool("yaml") || (cfg != nil && cfg.YAML),
		DocumentType:     documentType,
		Collection:       c.String("collection"),
		Clean:            c.Bool("clean"),
		Folders:          c.Bool("folders") || (cfg != nil && cfg.Folders),
		ExpandAdventures: c.Bool("expand-adventures"),
		OmitVolatile:     c.Bool("omit-volatile"),
		Log:              cliLogger(c.Bool("verbose")),
	}

	start := time.Now()
	if err := pack.Extract(src, dest, opts); err != nil {
		return err
	}
	debug.LogExtract("extracted %s -> %s in %v\n", src, dest, time.Since(start))
	return nil
}

// resolveDocumentType looks up src's pack name (its base filename, minus
// extension) against the manifest registry found under manifestDir.
func resolveDocumentType(manifestDir, src string) (string, error) {
	reg, err := manifest.Load(manifestDir)
	if err != nil {
		return "", err
	}
	packName := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	docType, ok := reg.DocumentType(packName)
	if !ok {
		return "", nil
	}
	return docType, nil
}
