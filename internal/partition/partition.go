// Package partition implements the work-stealing partitioner from
// spec.md §4.5: a shared monotonic cursor that hands out newline-aligned
// byte ranges to worker goroutines.
package partition

import (
	"sync/atomic"

	"github.com/asg0451/1brc-fast/internal/swar"
)

// DefaultSegmentSize is large enough that contention on the shared
// atomic cursor stays negligible.
const DefaultSegmentSize = 2 << 20 // 2 MiB

// Partitioner hands out newline-aligned [start, end) ranges over buf to
// any number of concurrent callers. The zero value is not usable; use
// New.
type Partitioner struct {
	buf         []byte
	segmentSize int
	next        atomic.Uint64
}

// New creates a partitioner over buf. segmentSize <= 0 selects
// DefaultSegmentSize.
func New(buf []byte, segmentSize int) *Partitioner {
	if segmentSize <= 0 {
		segmentSize = DefaultSegmentSize
	}
	return &Partitioner{buf: buf, segmentSize: segmentSize}
}

// Claim atomically reserves the next segment, snapping both ends to
// newline boundaries, and reports ok=false once the file is exhausted.
// Safe for concurrent use by any number of goroutines.
func (p *Partitioner) Claim() (start, end int, ok bool) {
	l := len(p.buf)
	rawStart := int(p.next.Add(uint64(p.segmentSize))) - p.segmentSize
	if rawStart >= l {
		return 0, 0, false
	}

	rawEnd := rawStart + p.segmentSize
	if rawEnd > l {
		rawEnd = l
	}

	if rawStart == 0 {
		start = 0
	} else {
		start = swar.ScanTo(p.buf, rawStart, l, '\n') + 1
	}

	if rawEnd == l {
		end = l
	} else {
		end = swar.ScanTo(p.buf, rawEnd, l, '\n') + 1
	}

	return start, end, true
}
