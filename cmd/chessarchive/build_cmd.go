package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kyleboon/chessarchive/internal/builder"
	"github.com/kyleboon/chessarchive/internal/builder/explorer"
	"github.com/kyleboon/chessarchive/internal/builder/heatmap"
	"github.com/kyleboon/chessarchive/internal/builder/popularity"
	"github.com/kyleboon/chessarchive/internal/builder/stats"
	"github.com/kyleboon/chessarchive/internal/columnar"
)

var buildCommand = &cli.Command{
	Name:  "build",
	Usage: "run an analytics builder over loaded shards",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "dir", Required: true, Usage: "directory of .parquet shards"},
		&cli.StringFlag{Name: "builder", Required: true, Usage: "builder name (or \"all\")"},
		&cli.StringFlag{Name: "out", Value: "json", Usage: "output directory, relative to --dir unless absolute"},
	},
	Action: runBuild,
}

func newRegistry() *builder.Registry {
	r := builder.NewRegistry()
	r.Register(popularity.Builder{})
	r.Register(heatmap.Builder{})
	r.Register(explorer.Builder{})
	r.Register(stats.Builder{})
	return r
}

func runBuild(c *cli.Context) error {
	dir := expandPath(c.String("dir"))
	name := c.String("builder")
	outDir := c.String("out")

	loader, err := columnar.Load(dir)
	if err != nil {
		return fmt.Errorf("loading shards: %w", err)
	}
	rows := loader.Rows()

	registry := newRegistry()
	now := time.Now()

	names := []string{name}
	if name == "all" {
		names = registry.List()
	}

	root := dir
	if filepath.IsAbs(outDir) {
		root = ""
	}

	for _, n := range names {
		b, err := registry.Get(n)
		if err != nil {
			return err
		}
		path, err := builder.Export(b, rows, root, outDir, "", now)
		if err != nil {
			return fmt.Errorf("running builder %s: %w", n, err)
		}
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}
