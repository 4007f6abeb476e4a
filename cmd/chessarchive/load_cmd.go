package main

import (
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/kyleboon/chessarchive/internal/columnar"
)

var loadCommand = &cli.Command{
	Name:  "load",
	Usage: "load columnar shards and print summary statistics",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "dir", Required: true, Usage: "directory of .parquet shards"},
	},
	Action: runLoad,
}

func runLoad(c *cli.Context) error {
	dir := expandPath(c.String("dir"))

	loader, err := columnar.Load(dir)
	if err != nil {
		return fmt.Errorf("loading shards: %w", err)
	}

	stats := loader.Stats()
	fmt.Printf("Total games: %d\n\n", stats.TotalGames)

	fmt.Println("By time control:")
	for _, tc := range sortedStringKeys(stats.ByTimeControl) {
		fmt.Printf("  %-10s %d\n", tc, stats.ByTimeControl[tc])
	}

	fmt.Println("\nBy year:")
	var years []int32
	for y := range stats.ByYear {
		years = append(years, y)
	}
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })
	for _, y := range years {
		fmt.Printf("  %d %d\n", y, stats.ByYear[y])
	}

	return nil
}

func sortedStringKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
