// Package builder defines the pluggable analytics-builder contract (§4.7):
// a Builder consumes loaded rows and produces a JSON-serializable payload,
// which Export wraps in a stable envelope and writes under
// <root>/<outDir>/<name>/<filename>.json.
package builder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kyleboon/chessarchive/internal/columnar"
)

// ErrMissingColumns is the error type for a Builder whose input rows lack
// data it needs. Rows arrive as typed columnar.Row values and none of the
// builders in this module checks for absent columns, so none returns it.
type ErrMissingColumns struct {
	Builder string
	Missing []string
}

func (e *ErrMissingColumns) Error() string {
	return fmt.Sprintf("builder %q: missing required data: %s", e.Builder, strings.Join(e.Missing, ", "))
}

// Builder produces an analytics artifact from a set of loaded rows.
type Builder interface {
	Name() string
	Build(rows []columnar.Row) (any, error)
}

// Result is the stable envelope every builder's payload is wrapped in
// before being written to disk.
type Result struct {
	Builder       string `json:"builder"`
	CreatedAtUnix int64  `json:"created_at_unix"`
	Payload       any    `json:"payload"`
}

// Export runs b against rows and writes the wrapped JSON payload to
// <root>/<outDir>/<b.Name()>/<filename>.json. filename is generated from
// the rows' common source file (or "all") plus the builder name and a
// timestamp when empty.
func Export(b Builder, rows []columnar.Row, root, outDir, filename string, now time.Time) (string, error) {
	payload, err := b.Build(rows)
	if err != nil {
		return "", fmt.Errorf("building %s: %w", b.Name(), err)
	}

	targetDir := filepath.Join(root, outDir, b.Name())
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("creating builder output directory %s: %w", targetDir, err)
	}

	if filename == "" {
		filename = defaultFilename(b.Name(), rows, now)
	}
	if !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}

	wrapped := Result{
		Builder:       b.Name(),
		CreatedAtUnix: now.Unix(),
		Payload:       payload,
	}

	data, err := json.MarshalIndent(wrapped, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding %s payload: %w", b.Name(), err)
	}

	outPath := filepath.Join(targetDir, filename)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", outPath, err)
	}
	return outPath, nil
}

// defaultFilename mirrors default_filename: it uses the rows' single
// common source file if they all share one, otherwise "all".
func defaultFilename(name string, rows []columnar.Row, now time.Time) string {
	base := "all"
	if unique := uniqueSourceFile(rows); unique != "" {
		base = strings.TrimSuffix(unique, ".parquet")
		base = strings.TrimSuffix(base, ".pgn.zst")
		base = strings.TrimSuffix(base, ".zst")
		base = strings.TrimSuffix(base, ".pgn")
	}
	return fmt.Sprintf("%s_%s_%d", base, name, now.Unix())
}

func uniqueSourceFile(rows []columnar.Row) string {
	seen := ""
	for _, r := range rows {
		if r.SourceFile == "" {
			continue
		}
		if seen == "" {
			seen = r.SourceFile
			continue
		}
		if seen != r.SourceFile {
			return ""
		}
	}
	return seen
}
