// Command chessarchive ingests zstd-compressed PGN archives into
// columnar shards and runs analytics builders over them.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

var log zerolog.Logger

func main() {
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	app := &cli.App{
		Name:  "chessarchive",
		Usage: "ingest PGN archives into columnar shards and build analytics artifacts",
		Commands: []*cli.Command{
			exportCommand,
			loadCommand,
			buildCommand,
			fetchCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// expandPath expands a leading "~" to the user's home directory.
func expandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
