package engine

import (
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/asg0451/1brc-fast/internal/stationtable"
)

// formatReport renders the merged per-station stats as spec.md §4.7's
// canonical report line, sorted by raw station-name bytes (Go string
// comparison is already byte-wise, so no special collation is needed —
// the "Unicode normalization" non-goal of spec.md §1 falls out for free).
func formatReport(stats map[string]*stationtable.Stats) (report string, totalRows uint64) {
	names := maps.Keys(stats)
	slices.Sort(names)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		s := stats[name]
		totalRows += uint64(s.Count)

		sb.WriteString(name)
		sb.WriteByte('=')
		writeTenths(&sb, s.Min)
		sb.WriteByte('/')
		writeTenths(&sb, formatMean(s.Sum, s.Count))
		sb.WriteByte('/')
		writeTenths(&sb, s.Max)
	}
	sb.WriteByte('}')
	sb.WriteByte('\n')

	return sb.String(), totalRows
}

// formatMean implements the open-question resolution in SPEC_FULL.md §13:
// round the tenths-scaled mean half-away-from-zero to the nearest tenth,
// in pure integer arithmetic (no float roundoff).
func formatMean(sum int64, count uint32) int16 {
	if count == 0 {
		return 0
	}
	return int16(roundHalfAwayFromZero(sum, int64(count)))
}

func roundHalfAwayFromZero(num, den int64) int64 {
	neg := (num < 0) != (den < 0)
	if num < 0 {
		num = -num
	}
	if den < 0 {
		den = -den
	}
	q, r := num/den, num%den
	if 2*r >= den {
		q++
	}
	if neg {
		q = -q
	}
	return q
}

// writeTenths formats a fixed-point tenths value (e.g. -123 -> "-12.3")
// with exactly one fractional digit, per spec.md §4.7.
func writeTenths(sb *strings.Builder, v int16) {
	if v < 0 {
		sb.WriteByte('-')
		v = -v
	}
	sb.WriteString(strconv.Itoa(int(v / 10)))
	sb.WriteByte('.')
	sb.WriteByte(byte('0' + v%10))
}
