package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kyleboon/chessarchive/internal/fetch"
)

var fetchCommand = &cli.Command{
	Name:  "fetch",
	Usage: "download a PGN archive over HTTP",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "url", Required: true, Usage: "URL of the PGN or compressed-PGN archive"},
		&cli.StringFlag{Name: "output", Required: true, Usage: "path to write the downloaded archive"},
	},
	Action: runFetch,
}

func runFetch(c *cli.Context) error {
	url := c.String("url")
	outputPath := expandPath(c.String("output"))

	client := fetch.NewClient()
	fmt.Printf("Fetching %s...\n", url)

	body, err := client.DownloadPGN(url)
	if err != nil {
		return fmt.Errorf("fetching archive: %w", err)
	}

	if err := os.WriteFile(outputPath, body, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}

	fmt.Printf("Wrote %d bytes to %s\n", len(body), outputPath)
	return nil
}
