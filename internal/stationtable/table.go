// Package stationtable implements the open-addressed, linear-probing hash
// table keyed by raw station-name bytes described in spec.md §4.3: a slot
// array of compact (signature, dense-index) pairs backed by a dense vector
// of entries holding the running min/max/sum/count. Keys are never copied
// out of the caller's buffer; an entry stores only (offset, length) into it.
package stationtable

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/asg0451/1brc-fast/internal/swar"
)

// MinObservable and MaxObservable seed a fresh entry so that any real
// reading immediately replaces them (spec.md §3: "no observations yet").
const (
	MinObservable = math.MaxInt16
	MaxObservable = math.MinInt16
)

// Stats holds the running aggregate for one station, in tenths.
type Stats struct {
	Min, Max int16
	Sum      int64
	Count    uint32
}

// Record folds one observation (in tenths) into the running stats.
func (s *Stats) Record(v int16) {
	if v < s.Min {
		s.Min = v
	}
	if v > s.Max {
		s.Max = v
	}
	s.Sum += int64(v)
	s.Count++
}

// Merge folds another worker's stats for the same station into s.
func (s *Stats) Merge(other Stats) {
	if other.Count == 0 {
		return
	}
	if s.Count == 0 {
		*s = other
		return
	}
	if other.Min < s.Min {
		s.Min = other.Min
	}
	if other.Max > s.Max {
		s.Max = other.Max
	}
	s.Sum += other.Sum
	s.Count += other.Count
}

// Entry is one dense-vector record: where the station name lives in the
// borrowed buffer, its 16-byte signature, and its running stats.
type Entry struct {
	Offset, Length int
	SigW1, SigW2   uint64
	Stats          Stats
}

// slot is an element of the index array: empty (idx==0) or a 1-based
// index into the dense entries vector plus a short signature that lets
// most probes resolve without touching the dense entry at all.
type slot struct {
	sig uint32
	idx uint32
}

// Table is a per-worker station hash table. It borrows buf for the
// lifetime of the processing phase; it is not safe for concurrent use.
type Table struct {
	buf     []byte
	slots   []slot
	entries []Entry
	mask    uint64
}

// minCapacity matches spec.md §3's "capacity ≥ 2 × 10^4" floor for the
// canonical ≤10^4-distinct-station input.
const minCapacity = 20_000

// New creates a table sized as a power of two with load factor ≤ 0.7 at
// capacityHint distinct keys, backed by buf for key-byte comparisons.
func New(buf []byte, capacityHint int) *Table {
	if capacityHint < minCapacity {
		capacityHint = minCapacity
	}
	size := nextPow2(uint64(float64(capacityHint) / 0.7))
	return &Table{
		buf:     buf,
		slots:   make([]slot, size),
		entries: make([]Entry, 0, capacityHint),
		mask:    size - 1,
	}
}

func nextPow2(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// probeStride is a fixed odd stride so that, combined with a power-of-two
// table size, every slot is eventually visited. Matches the original 1BRC
// reference's collision-resolution stride (thomaswue_ported.rs).
const probeStride = 31

// byteMask[n] keeps the low n bytes of a little-endian word and zeroes
// the rest, for n in [0, 8].
var byteMask = [9]uint64{
	0x0000000000000000,
	0x00000000000000FF,
	0x000000000000FFFF,
	0x0000000000FFFFFF,
	0x00000000FFFFFFFF,
	0x000000FFFFFFFFFF,
	0x0000FFFFFFFFFFFF,
	0x00FFFFFFFFFFFFFF,
	0xFFFFFFFFFFFFFFFF,
}

// Signature computes the (w1, w2) pair covering up to the first 16 bytes
// of a station name at buf[offset:offset+length], masking off anything
// beyond length (spec.md §3). Safe near the end of buf: reads are
// zero-padded rather than going out of bounds.
func Signature(buf []byte, offset, length int) (w1, w2 uint64) {
	n1 := length
	if n1 > 8 {
		n1 = 8
	}
	w1 = swar.LoadWordTail(buf, offset) & byteMask[n1]
	if length > 8 {
		n2 := length - 8
		if n2 > 8 {
			n2 = 8
		}
		w2 = swar.LoadWordTail(buf, offset+8) & byteMask[n2]
	}
	return w1, w2
}

// mix is the 64→64 avalanche function spec.md §4.3 calls for. The teacher
// hashes station names with xxhash.Sum64 directly; here that same hash
// is reused as the avalanche step over the already-combined signature
// word, which is a closer match to the spec's "mix(sig_w1 xor sig_w2 xor
// length<<48)" than an ad hoc xor-fold.
func mix(sigW1, sigW2 uint64, length int) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], sigW1^sigW2^(uint64(length)<<48))
	return xxhash.Sum64(buf[:])
}

// GetOrInsert returns a handle to the stats for the station named by
// buf[offset:offset+length], inserting a fresh entry on first sight (sum
// and count zero, min/max seeded with MinObservable/MaxObservable). sigW1/sigW2 must be Signature(buf, offset, length).
func (t *Table) GetOrInsert(offset, length int, sigW1, sigW2 uint64) *Stats {
	h := mix(sigW1, sigW2, length)
	shortSig := uint32(h >> 32)
	idx := (h ^ (h >> 33)) & t.mask

	for {
		s := &t.slots[idx]
		if s.idx == 0 {
			t.entries = append(t.entries, Entry{
				Offset: offset,
				Length: length,
				SigW1:  sigW1,
				SigW2:  sigW2,
				Stats:  Stats{Min: MinObservable, Max: MaxObservable},
			})
			s.idx = uint32(len(t.entries))
			s.sig = shortSig
			return &t.entries[len(t.entries)-1].Stats
		}

		if s.sig == shortSig {
			e := &t.entries[s.idx-1]
			if e.Length == length && e.SigW1 == sigW1 && e.SigW2 == sigW2 {
				if length <= 16 || t.tailEqual(e.Offset, offset, length) {
					return &e.Stats
				}
			}
		}

		idx = (idx + probeStride) & t.mask
	}
}

// tailEqual compares the bytes beyond the first 16 of two same-length
// candidate keys, in 8-byte chunks with a masked final chunk, per
// spec.md §4.3's slow-path equality check.
func (t *Table) tailEqual(a, b, length int) bool {
	i := 16
	for i+8 <= length {
		if swar.LoadWord(t.buf, a+i) != swar.LoadWord(t.buf, b+i) {
			return false
		}
		i += 8
	}
	remaining := length - i
	if remaining == 0 {
		return true
	}
	wa := swar.LoadWordTail(t.buf, a+i) & byteMask[remaining]
	wb := swar.LoadWordTail(t.buf, b+i) & byteMask[remaining]
	return wa == wb
}

// Entries returns the dense vector of all distinct stations observed so
// far, in first-insertion order.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Len reports the number of distinct stations observed so far.
func (t *Table) Len() int {
	return len(t.entries)
}

// Name returns the station name for e as an owned Go string, copied out
// of the borrowed buffer. Used only at merge time (spec.md §4.7), never
// on the hot path.
func (t *Table) Name(e Entry) string {
	return string(t.buf[e.Offset : e.Offset+e.Length])
}
