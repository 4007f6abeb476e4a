package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kyleboon/chessarchive/internal/checksum"
	"github.com/kyleboon/chessarchive/internal/columnar"
	"github.com/kyleboon/chessarchive/internal/pgn"
	"github.com/kyleboon/chessarchive/internal/pgnstream"
)

var exportCommand = &cli.Command{
	Name:  "export",
	Usage: "parse a zstd-compressed PGN archive into a columnar shard",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "input", Required: true, Usage: "path to the .pgn.zst archive"},
		&cli.StringFlag{Name: "output", Required: true, Usage: "path to the output .parquet shard"},
		&cli.StringFlag{Name: "checksums", Usage: "path to a sha256sums manifest next to the archive"},
		&cli.BoolFlag{Name: "eval-only", Usage: "keep only games with engine evaluations"},
		&cli.StringSliceFlag{Name: "time-control", Usage: "restrict to these time-control buckets (BULLET, BLITZ, RAPID)"},
	},
	Action: runExport,
}

func runExport(c *cli.Context) error {
	inputPath := expandPath(c.String("input"))
	outputPath := expandPath(c.String("output"))

	if manifestPath := c.String("checksums"); manifestPath != "" {
		manifest, err := checksum.LoadManifest(expandPath(manifestPath))
		if err != nil {
			return fmt.Errorf("loading checksum manifest: %w", err)
		}
		base := baseName(inputPath)
		result, err := checksum.Verify(manifest, inputPath, base)
		if err != nil {
			return fmt.Errorf("verifying checksum: %w", err)
		}
		if result.Checked && !result.Match {
			log.Warn().Str("file", base).Str("expected", result.Expected).Str("actual", result.Actual).
				Msg("checksum mismatch")
		} else if !result.Checked {
			log.Warn().Str("file", base).Msg("no checksum entry found, skipping verification")
		}
	}

	reader, err := pgnstream.OpenLineReader(inputPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	totalBytes, err := reader.CompressedSize()
	if err != nil {
		return err
	}

	filter := columnar.Filter{EvalOnly: c.Bool("eval-only")}
	if buckets := c.StringSlice("time-control"); len(buckets) > 0 {
		filter.OnlyTimeControlBuckets = map[string]bool{}
		for _, b := range buckets {
			filter.OnlyTimeControlBuckets[strings.ToUpper(b)] = true
		}
	}

	exporter := columnar.NewExporter(filter, func(consumed, total int64) {
		fmt.Printf("\rProcessed %d / %d bytes", consumed, total)
	}, totalBytes)

	sourceFile := baseName(inputPath)
	splitter := pgnstream.NewSplitter()
	gamesWritten := 0

	for {
		line, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if rec, ok := splitter.Feed(line); ok {
			if game, ok := convertAndParse(rec, sourceFile); ok {
				exporter.Add(columnar.RowFromGame(game), reader.CompressedBytesRead())
				gamesWritten++
			}
		}
	}
	if rec, ok := splitter.Flush(); ok {
		if game, ok := convertAndParse(rec, sourceFile); ok {
			exporter.Add(columnar.RowFromGame(game), reader.CompressedBytesRead())
			gamesWritten++
		}
	}

	if err := exporter.WriteFile(outputPath, reader.CompressedBytesRead()); err != nil {
		return fmt.Errorf("writing shard: %w", err)
	}

	fmt.Printf("\nWrote %d games to %s\n", gamesWritten, outputPath)
	return nil
}

func convertAndParse(rec pgnstream.Record, sourceFile string) (pgn.ParsedGame, bool) {
	game, ok := pgn.Parse(pgn.Record{
		Tags:         rec.Tags,
		MovetextFlat: rec.MovetextFlat,
		MovetextRaw:  rec.MovetextRaw,
	})
	if !ok {
		return pgn.ParsedGame{}, false
	}
	game.SourceFile = sourceFile
	return game, true
}

func baseName(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}
