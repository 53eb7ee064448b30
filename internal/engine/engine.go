// Package engine implements the hot path of spec.md: the per-segment
// record loop (§4.4), worker orchestration (§4.6), and the merge stage
// that reduces per-worker station tables into one sorted report (§4.7).
package engine

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/dolthub/swiss"

	"github.com/asg0451/1brc-fast/internal/partition"
	"github.com/asg0451/1brc-fast/internal/stationtable"
	"github.com/asg0451/1brc-fast/internal/swar"
	"github.com/asg0451/1brc-fast/internal/tempdecode"
)

// maxWorkers bounds worker count per spec.md §4.6.
const maxWorkers = 256

// stationCapacityHint matches spec.md's "10^4 distinct station names"
// canonical input size.
const stationCapacityHint = 10_000

// Config controls worker orchestration. The zero value selects sensible
// defaults (available parallelism, spec.md's default segment size).
type Config struct {
	NumWorkers  int // 0 selects runtime.NumCPU(), bounded by maxWorkers
	SegmentSize int // 0 selects partition.DefaultSegmentSize
	PinThreads  bool
}

// Result is the outcome of a full run: the formatted report line and a
// diagnostic row count (restored from the original Rust reference's
// "(N rows processed)" stderr line, spec.md §12).
type Result struct {
	Report   string
	RowCount uint64
}

// Run executes the full pipeline over buf: partition, parse+aggregate in
// parallel, merge, format. A worker panic aborts the whole pipeline and
// is returned as an error; no partial report is produced (spec.md §5, §7).
func Run(buf []byte, cfg Config, log *slog.Logger) (Result, error) {
	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > maxWorkers {
		numWorkers = maxWorkers
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	p := partition.New(buf, cfg.SegmentSize)

	tables := make([]*stationtable.Table, numWorkers)
	errs := make([]any, numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		workerID := w
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[workerID] = r
				}
			}()

			if cfg.PinThreads {
				pinCurrentThread(workerID, log)
			}

			tbl := stationtable.New(buf, stationCapacityHint)
			for {
				start, end, ok := p.Claim()
				if !ok {
					break
				}
				processSegment(buf, start, end, tbl)
			}
			tables[workerID] = tbl
		}()
	}
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return Result{}, fmt.Errorf("worker panicked: %v", e)
		}
	}

	merged := merge(tables)
	report, rows := formatReport(merged)

	return Result{Report: report, RowCount: rows}, nil
}

// processSegment implements spec.md §4.4's record loop over one
// newline-aligned segment [start, end) of buf, folding every record into
// tbl.
func processSegment(buf []byte, start, end int, tbl *stationtable.Table) {
	p := start
	for p < end {
		sc := swar.ScanTo(buf, p, end, ';')
		length := sc - p

		w1, w2 := stationtable.Signature(buf, p, length)
		value, consumed := decodeTempAt(buf, sc+1)

		stats := tbl.GetOrInsert(p, length, w1, w2)
		stats.Record(int16(value))

		nl := sc + 1 + consumed - 1
		p = nl + 1
	}
}

// decodeTempAt reads the temperature field starting at p, using the fast
// 8-byte load when it's safe and falling back to the zero-padded tail
// load near the end of buf (spec.md §4.4's tail-safe path, §7).
func decodeTempAt(buf []byte, p int) (tenths int32, consumed int) {
	if p+8 <= len(buf) {
		return tempdecode.Decode(swar.LoadWord(buf, p))
	}
	return tempdecode.Decode(swar.LoadWordTail(buf, p))
}

// merge reduces all per-worker tables into one map from owned station
// name to merged stats (spec.md §4.7). A swiss.Map does the O(1)-amortized
// union of up to numWorkers*10^4 entries; it's handed off to a builtin map
// immediately after so the reporter can sort with golang.org/x/exp.
func merge(tables []*stationtable.Table) map[string]*stationtable.Stats {
	sw := swiss.NewMap[string, *stationtable.Stats](stationCapacityHint)

	for _, tbl := range tables {
		for _, e := range tbl.Entries() {
			name := tbl.Name(e)
			if existing, ok := sw.Get(name); ok {
				existing.Merge(e.Stats)
				continue
			}
			s := e.Stats
			sw.Put(name, &s)
		}
	}

	out := make(map[string]*stationtable.Stats, sw.Count())
	sw.Iter(func(name string, s *stationtable.Stats) (stop bool) {
		out[name] = s
		return false
	})
	return out
}
