package columnar

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/kyleboon/chessarchive/internal/pgn"
)

// Stats summarizes a loaded set of shards, mirroring loader.py's stats().
type Stats struct {
	TotalGames      int
	ByTimeControl   map[string]int
	ByYear          map[int32]int
}

// Loader reads every *.parquet file under a directory, in sorted order
// (§4.6, §5's cross-file ordering requirement), and exposes the combined
// rows either as summary Stats or rehydrated ParsedGames.
type Loader struct {
	rows []Row
}

// Load reads and concatenates every *.parquet shard found directly under
// dir, sorted lexicographically by filename.
func Load(dir string) (*Loader, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading shard directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == ".parquet" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	l := &Loader{}
	for _, name := range names {
		rows, err := loadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading shard %s: %w", name, err)
		}
		l.rows = append(l.rows, rows...)
	}
	return l, nil
}

// LoadFile reads a single *.parquet shard.
func LoadFile(path string) (*Loader, error) {
	rows, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	return &Loader{rows: rows}, nil
}

func loadFile(path string) ([]Row, error) {
	rdr, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer rdr.Close()

	fr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("building arrow reader for %s: %w", path, err)
	}

	tbl, err := fr.ReadTable(nil)
	if err != nil {
		return nil, fmt.Errorf("reading table from %s: %w", path, err)
	}
	defer tbl.Release()

	return rowsFromTable(tbl), nil
}

// rowsFromTable materializes every row of an Arrow table built from Schema
// into Rows. Column indices follow Schema's declared order.
func rowsFromTable(tbl arrow.Table) []Row {
	n := int(tbl.NumRows())
	rows := make([]Row, n)
	if n == 0 {
		return rows
	}

	stringCol := func(i int) []string {
		out := make([]string, 0, n)
		for _, chunk := range tbl.Column(i).Data().Chunks() {
			arr := chunk.(*array.String)
			for j := 0; j < arr.Len(); j++ {
				if arr.IsNull(j) {
					out = append(out, "")
					continue
				}
				out = append(out, arr.Value(j))
			}
		}
		return out
	}
	int32Col := func(i int) []*int32 {
		out := make([]*int32, 0, n)
		for _, chunk := range tbl.Column(i).Data().Chunks() {
			arr := chunk.(*array.Int32)
			for j := 0; j < arr.Len(); j++ {
				if arr.IsNull(j) {
					out = append(out, nil)
					continue
				}
				v := arr.Value(j)
				out = append(out, &v)
			}
		}
		return out
	}
	int8Col := func(i int) []int8 {
		out := make([]int8, 0, n)
		for _, chunk := range tbl.Column(i).Data().Chunks() {
			arr := chunk.(*array.Int8)
			for j := 0; j < arr.Len(); j++ {
				if arr.IsNull(j) {
					out = append(out, 0)
					continue
				}
				out = append(out, arr.Value(j))
			}
		}
		return out
	}
	float64Col := func(i int) []*float64 {
		out := make([]*float64, 0, n)
		for _, chunk := range tbl.Column(i).Data().Chunks() {
			arr := chunk.(*array.Float64)
			for j := 0; j < arr.Len(); j++ {
				if arr.IsNull(j) {
					out = append(out, nil)
					continue
				}
				v := arr.Value(j)
				out = append(out, &v)
			}
		}
		return out
	}
	boolCol := func(i int) []bool {
		out := make([]bool, 0, n)
		for _, chunk := range tbl.Column(i).Data().Chunks() {
			arr := chunk.(*array.Boolean)
			for j := 0; j < arr.Len(); j++ {
				out = append(out, !arr.IsNull(j) && arr.Value(j))
			}
		}
		return out
	}

	events := stringCol(0)
	sites := stringCol(1)
	utcDates := stringCol(2)
	years := int32Col(3)
	tcRaws := stringCol(4)
	tcs := stringCol(5)
	whiteElos := int32Col(6)
	blackElos := int32Col(7)
	averageElos := float64Col(8)
	resultRaws := stringCol(9)
	resultValues := int8Col(10)
	ecos := stringCol(11)
	openings := stringCol(12)
	hasEvals := boolCol(13)
	averageAccuracies := float64Col(14)
	averageAccuracyPerMoveJSONs := stringCol(15)
	avgAccuracyWhites := float64Col(16)
	avgAccuracyBlacks := float64Col(17)
	avgAccuracyPerMoveWhiteJSONs := stringCol(18)
	avgAccuracyPerMoveBlackJSONs := stringCol(19)
	movesJSONs := stringCol(20)
	pgnSources := stringCol(21)
	sourceFiles := stringCol(22)

	for i := 0; i < n; i++ {
		rows[i] = Row{
			Event:                       events[i],
			Site:                        sites[i],
			UTCDate:                     utcDates[i],
			Year:                        years[i],
			TimeControlRaw:              tcRaws[i],
			TimeControl:                 tcs[i],
			WhiteElo:                    whiteElos[i],
			BlackElo:                    blackElos[i],
			AverageElo:                  averageElos[i],
			ResultRaw:                   resultRaws[i],
			ResultValue:                 resultValues[i],
			ECO:                         ecos[i],
			Opening:                     openings[i],
			HasEval:                     hasEvals[i],
			AverageAccuracy:             averageAccuracies[i],
			AverageAccuracyPerMoveJSON:  averageAccuracyPerMoveJSONs[i],
			AvgAccuracyWhite:            avgAccuracyWhites[i],
			AvgAccuracyBlack:            avgAccuracyBlacks[i],
			AvgAccuracyPerMoveWhiteJSON: avgAccuracyPerMoveWhiteJSONs[i],
			AvgAccuracyPerMoveBlackJSON: avgAccuracyPerMoveBlackJSONs[i],
			MovesJSON:                   movesJSONs[i],
			PGNSource:                   pgnSources[i],
			SourceFile:                  sourceFiles[i],
		}
	}
	return rows
}

// Rows returns the concatenated rows loaded so far.
func (l *Loader) Rows() []Row {
	return l.rows
}

// Stats summarizes the loaded rows by time-control bucket and by year.
func (l *Loader) Stats() Stats {
	s := Stats{
		ByTimeControl: map[string]int{},
		ByYear:        map[int32]int{},
	}
	for _, r := range l.rows {
		s.TotalGames++
		s.ByTimeControl[r.TimeControl]++
		if r.Year != nil {
			s.ByYear[*r.Year]++
		}
	}
	return s
}

// ToGames rehydrates every loaded row into a ParsedGame.
func (l *Loader) ToGames() []pgn.ParsedGame {
	games := make([]pgn.ParsedGame, len(l.rows))
	for i, r := range l.rows {
		games[i] = GameFromRow(r)
	}
	return games
}
