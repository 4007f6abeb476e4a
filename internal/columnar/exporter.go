package columnar

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/kyleboon/chessarchive/internal/progress"
)

// Filter selects which rows an Exporter keeps, applied in Add before a row
// is appended to the batch. Both fields are optional per §4.5's "optional
// filters".
type Filter struct {
	EvalOnly               bool
	OnlyTimeControlBuckets map[string]bool
}

func (f Filter) keep(r Row) bool {
	if f.EvalOnly && !r.HasEval {
		return false
	}
	if len(f.OnlyTimeControlBuckets) > 0 && !f.OnlyTimeControlBuckets[r.TimeControl] {
		return false
	}
	return true
}

// Exporter writes Rows to a single Parquet file under a frozen schema.
// Writes go to a temporary file in the destination directory and are
// renamed into place on success, so a failed export never leaves a partial
// shard behind (§5).
type Exporter struct {
	filter   Filter
	progress *progress.Reporter
	builder  *rowBatchBuilder
}

// NewExporter returns an Exporter applying the given filter. progressHook,
// if non-nil, is invoked at the adaptive cadence of internal/progress with
// (compressed bytes consumed, total compressed bytes).
func NewExporter(filter Filter, progressHook progress.Hook, totalCompressedBytes int64) *Exporter {
	return &Exporter{
		filter:   filter,
		progress: progress.New(progressHook, totalCompressedBytes),
		builder:  newRowBatchBuilder(),
	}
}

// Add appends a row if it survives the filter. bytesConsumed is the
// compressed-byte offset of the underlying archive at the time this row
// was produced, used to drive the throttled progress hook.
func (e *Exporter) Add(r Row, bytesConsumed int64) {
	e.progress.Report(bytesConsumed, false)
	if !e.filter.keep(r) {
		return
	}
	e.builder.add(r)
}

// WriteFile flushes all accumulated rows to path as a single Zstd-compressed
// Parquet file. An empty accumulator still produces a file with the
// declared schema and zero rows.
func (e *Exporter) WriteFile(path string, finalBytesConsumed int64) error {
	e.progress.Done(finalBytesConsumed)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".columnar-*.parquet.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary shard file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	props := parquet.NewWriterProperties(
		parquet.WithVersion(parquet.V2_LATEST),
		parquet.WithCompression(compress.Codecs.Zstd),
	)
	arrowProps := pqarrow.DefaultWriterProps()

	writer, err := pqarrow.NewFileWriter(Schema, tmp, props, arrowProps)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("opening parquet writer: %w", err)
	}

	record := e.builder.build()
	if record != nil {
		if err := writer.Write(record); err != nil {
			writer.Close()
			tmp.Close()
			record.Release()
			return fmt.Errorf("writing parquet batch: %w", err)
		}
		record.Release()
	}

	if err := writer.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary shard file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming shard into place: %w", err)
	}
	return nil
}

// rowBatchBuilder accumulates Rows into a single Arrow record batch,
// following the append-then-build-once pattern of a columnar batch writer.
type rowBatchBuilder struct {
	events, sites, utcDates                                             []string
	years                                                                []*int32
	tcRaws, tcs                                                          []string
	whiteElos, blackElos                                                 []*int32
	averageElos                                                          []*float64
	resultRaws                                                           []string
	resultValues                                                        []int8
	ecos, openings                                                       []string
	hasEvals                                                            []bool
	averageAccuracies                                                   []*float64
	averageAccuracyPerMoveJSONs                                         []string
	avgAccuracyWhites, avgAccuracyBlacks                                []*float64
	avgAccuracyPerMoveWhiteJSONs, avgAccuracyPerMoveBlackJSONs          []string
	movesJSONs, pgnSources, sourceFiles                                 []string
}

func newRowBatchBuilder() *rowBatchBuilder {
	return &rowBatchBuilder{}
}

func (b *rowBatchBuilder) add(r Row) {
	b.events = append(b.events, r.Event)
	b.sites = append(b.sites, r.Site)
	b.utcDates = append(b.utcDates, r.UTCDate)
	b.years = append(b.years, r.Year)
	b.tcRaws = append(b.tcRaws, r.TimeControlRaw)
	b.tcs = append(b.tcs, r.TimeControl)
	b.whiteElos = append(b.whiteElos, r.WhiteElo)
	b.blackElos = append(b.blackElos, r.BlackElo)
	b.averageElos = append(b.averageElos, r.AverageElo)
	b.resultRaws = append(b.resultRaws, r.ResultRaw)
	b.resultValues = append(b.resultValues, r.ResultValue)
	b.ecos = append(b.ecos, r.ECO)
	b.openings = append(b.openings, r.Opening)
	b.hasEvals = append(b.hasEvals, r.HasEval)
	b.averageAccuracies = append(b.averageAccuracies, r.AverageAccuracy)
	b.averageAccuracyPerMoveJSONs = append(b.averageAccuracyPerMoveJSONs, r.AverageAccuracyPerMoveJSON)
	b.avgAccuracyWhites = append(b.avgAccuracyWhites, r.AvgAccuracyWhite)
	b.avgAccuracyBlacks = append(b.avgAccuracyBlacks, r.AvgAccuracyBlack)
	b.avgAccuracyPerMoveWhiteJSONs = append(b.avgAccuracyPerMoveWhiteJSONs, r.AvgAccuracyPerMoveWhiteJSON)
	b.avgAccuracyPerMoveBlackJSONs = append(b.avgAccuracyPerMoveBlackJSONs, r.AvgAccuracyPerMoveBlackJSON)
	b.movesJSONs = append(b.movesJSONs, r.MovesJSON)
	b.pgnSources = append(b.pgnSources, r.PGNSource)
	b.sourceFiles = append(b.sourceFiles, r.SourceFile)
}

func appendNullableInt32(fb *array.Int32Builder, v *int32) {
	if v == nil {
		fb.AppendNull()
		return
	}
	fb.Append(*v)
}

func appendNullableFloat64(fb *array.Float64Builder, v *float64) {
	if v == nil {
		fb.AppendNull()
		return
	}
	fb.Append(*v)
}

// build materializes the accumulated columns into one arrow.Record, or nil
// if nothing was accumulated (an empty shard still gets written with the
// declared schema and zero rows by the caller skipping this step).
func (b *rowBatchBuilder) build() arrow.Record {
	if len(b.events) == 0 {
		return nil
	}

	rb := array.NewRecordBuilder(memory.DefaultAllocator, Schema)
	defer rb.Release()

	eventB := rb.Field(0).(*array.StringBuilder)
	siteB := rb.Field(1).(*array.StringBuilder)
	utcDateB := rb.Field(2).(*array.StringBuilder)
	yearB := rb.Field(3).(*array.Int32Builder)
	tcRawB := rb.Field(4).(*array.StringBuilder)
	tcB := rb.Field(5).(*array.StringBuilder)
	whiteEloB := rb.Field(6).(*array.Int32Builder)
	blackEloB := rb.Field(7).(*array.Int32Builder)
	averageEloB := rb.Field(8).(*array.Float64Builder)
	resultRawB := rb.Field(9).(*array.StringBuilder)
	resultValueB := rb.Field(10).(*array.Int8Builder)
	ecoB := rb.Field(11).(*array.StringBuilder)
	openingB := rb.Field(12).(*array.StringBuilder)
	hasEvalB := rb.Field(13).(*array.BooleanBuilder)
	averageAccuracyB := rb.Field(14).(*array.Float64Builder)
	averageAccuracyPerMoveB := rb.Field(15).(*array.StringBuilder)
	avgAccuracyWhiteB := rb.Field(16).(*array.Float64Builder)
	avgAccuracyBlackB := rb.Field(17).(*array.Float64Builder)
	avgAccuracyPerMoveWhiteB := rb.Field(18).(*array.StringBuilder)
	avgAccuracyPerMoveBlackB := rb.Field(19).(*array.StringBuilder)
	movesJSONB := rb.Field(20).(*array.StringBuilder)
	pgnSourceB := rb.Field(21).(*array.StringBuilder)
	sourceFileB := rb.Field(22).(*array.StringBuilder)

	for i := range b.events {
		eventB.Append(b.events[i])
		siteB.Append(b.sites[i])
		utcDateB.Append(b.utcDates[i])
		appendNullableInt32(yearB, b.years[i])
		tcRawB.Append(b.tcRaws[i])
		tcB.Append(b.tcs[i])
		appendNullableInt32(whiteEloB, b.whiteElos[i])
		appendNullableInt32(blackEloB, b.blackElos[i])
		appendNullableFloat64(averageEloB, b.averageElos[i])
		resultRawB.Append(b.resultRaws[i])
		resultValueB.Append(b.resultValues[i])
		ecoB.Append(b.ecos[i])
		openingB.Append(b.openings[i])
		hasEvalB.Append(b.hasEvals[i])
		appendNullableFloat64(averageAccuracyB, b.averageAccuracies[i])
		averageAccuracyPerMoveB.Append(b.averageAccuracyPerMoveJSONs[i])
		appendNullableFloat64(avgAccuracyWhiteB, b.avgAccuracyWhites[i])
		appendNullableFloat64(avgAccuracyBlackB, b.avgAccuracyBlacks[i])
		avgAccuracyPerMoveWhiteB.Append(b.avgAccuracyPerMoveWhiteJSONs[i])
		avgAccuracyPerMoveBlackB.Append(b.avgAccuracyPerMoveBlackJSONs[i])
		movesJSONB.Append(b.movesJSONs[i])
		pgnSourceB.Append(b.pgnSources[i])
		sourceFileB.Append(b.sourceFiles[i])
	}

	return rb.NewRecord()
}
