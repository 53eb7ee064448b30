package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/asg0451/1brc-fast/internal/naive"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func run(t *testing.T, input string, cfg Config) string {
	t.Helper()
	res, err := Run([]byte(input), cfg, discardLogger())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res.Report
}

func TestScenarios(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			"basic",
			"A;1.0\nA;3.0\nB;-2.0\n",
			"{A=1.0/2.0/3.0, B=-2.0/-2.0/-2.0}\n",
		},
		{
			"unicode name, lexicographic byte order",
			"Zürich;0.0\nZürich;0.1\nAarau;-0.1\n",
			"{Aarau=-0.1/-0.1/-0.1, Zürich=0.0/0.1/0.1}\n",
		},
		{
			"repeated single station",
			strings.Repeat("X;9.9\n", 100),
			"{X=9.9/9.9/9.9}\n",
		},
		{
			"long station name",
			"Station_with_a_fairly_long_name;12.3\nStation_with_a_fairly_long_name;-12.3\n",
			"{Station_with_a_fairly_long_name=-12.3/0.0/12.3}\n",
		},
		{
			"mean rounds half away from zero",
			"A;0.1\nB;0.2\nA;0.2\nB;0.1\n",
			"{A=0.1/0.2/0.2, B=0.1/0.2/0.2}\n",
		},
		{
			"adjacent three-letter names",
			"abc;-0.1\nabd;-0.2\n",
			"{abc=-0.1/-0.1/-0.1, abd=-0.2/-0.2/-0.2}\n",
		},
		{
			"single record",
			"X;0.0\n",
			"{X=0.0/0.0/0.0}\n",
		},
		{
			"last line one-digit negative, tail-safe path",
			"Aarau;1.0\nAarau;2.0\nX;-9.9\n",
			"{Aarau=1.0/1.5/2.0, X=-9.9/-9.9/-9.9}\n",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for _, workers := range []int{1, 2, 4} {
				for _, segSize := range []int{8, 64, 1 << 20} {
					got := run(t, c.input, Config{NumWorkers: workers, SegmentSize: segSize})
					if got != c.want {
						t.Fatalf("workers=%d segSize=%d:\n got:  %q\n want: %q", workers, segSize, got, c.want)
					}
				}
			}
		})
	}
}

func TestSixteenVsSeventeenByteNames(t *testing.T) {
	short := "Sixteen_Byte_Nam" // 16 bytes: fast path
	long := "Seventeen_Byte_Nm" // 17 bytes: forces slow compare
	input := fmt.Sprintf("%s;1.0\n%s;2.0\n%s;3.0\n", short, long, short)
	want := fmt.Sprintf("{%s=2.0/2.0/2.0, %s=1.0/2.0/3.0}\n", long, short)
	got := run(t, input, Config{NumWorkers: 2})
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDeterminismAcrossWorkersAndSegmentSizes(t *testing.T) {
	input := randomMeasurements(7, 300, 20_000)
	var first string
	for i, workers := range []int{1, 2, 3, 8, 16} {
		for _, segSize := range []int{256, 4096, 1 << 18} {
			got := run(t, input, Config{NumWorkers: workers, SegmentSize: segSize})
			if i == 0 && segSize == 256 {
				first = got
			}
			if got != first {
				t.Fatalf("workers=%d segSize=%d produced a different report:\n got:  %q\n want: %q",
					workers, segSize, got, first)
			}
		}
	}
}

func TestAgainstNaiveReference(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		input := randomMeasurements(seed, 500, 50_000)
		want := naive.Compute([]byte(input))

		res, err := Run([]byte(input), Config{NumWorkers: 4}, discardLogger())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}

		got := parseReport(t, res.Report)
		if len(got) != len(want) {
			t.Fatalf("seed %d: station count mismatch: got %d, want %d", seed, len(got), len(want))
		}
		for name, w := range want {
			g, ok := got[name]
			if !ok {
				t.Fatalf("seed %d: station %q missing from engine output", seed, name)
			}
			if g.min != w.Min || g.max != w.Max || int64(g.mean) != roundHalfAwayFromZero(w.Sum, int64(w.Count)) {
				t.Fatalf("seed %d station %q: engine min/mean/max = %d/%d/%d, want min=%d max=%d mean=%d",
					seed, name, g.min, g.mean, g.max, w.Min, w.Max, roundHalfAwayFromZero(w.Sum, int64(w.Count)))
			}
		}
	}
}

func TestConcatenationOfDisjointFilesMatchesIndependentComputation(t *testing.T) {
	fileA := "Aarau;1.0\nAarau;3.0\nAbha;0.0\n"
	fileB := "Zermatt;-5.0\nZurich;10.0\n"

	combined := run(t, fileA+fileB, Config{NumWorkers: 3})
	resA, err := Run([]byte(fileA), Config{NumWorkers: 2}, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	resB, err := Run([]byte(fileB), Config{NumWorkers: 2}, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	gotCombined := parseReport(t, combined)
	wantA := parseReport(t, resA.Report)
	wantB := parseReport(t, resB.Report)

	for name, want := range wantA {
		if got := gotCombined[name]; got != want {
			t.Fatalf("station %q from fileA: got %+v, want %+v", name, got, want)
		}
	}
	for name, want := range wantB {
		if got := gotCombined[name]; got != want {
			t.Fatalf("station %q from fileB: got %+v, want %+v", name, got, want)
		}
	}
}

func TestProcessingSameFileTwiceIsIdempotent(t *testing.T) {
	input := randomMeasurements(42, 200, 10_000)
	first := run(t, input, Config{NumWorkers: 4})
	second := run(t, input, Config{NumWorkers: 4})
	if first != second {
		t.Fatalf("running the same input twice produced different reports")
	}
}

type parsedStat struct{ min, mean, max int32 }

// parseReport parses this package's own canonical report format back into
// structured data for test assertions, independent of formatMean/writeTenths
// so a bug in either isn't masked by round-tripping through itself.
func parseReport(t *testing.T, report string) map[string]parsedStat {
	t.Helper()
	report = strings.TrimSuffix(report, "\n")
	report = strings.TrimPrefix(report, "{")
	report = strings.TrimSuffix(report, "}")
	out := map[string]parsedStat{}
	if report == "" {
		return out
	}
	for _, entry := range strings.Split(report, ", ") {
		eq := strings.LastIndex(entry, "=")
		name := entry[:eq]
		fields := strings.Split(entry[eq+1:], "/")
		if len(fields) != 3 {
			t.Fatalf("malformed report entry %q", entry)
		}
		out[name] = parsedStat{
			min:  parseFixed(t, fields[0]),
			mean: parseFixed(t, fields[1]),
			max:  parseFixed(t, fields[2]),
		}
	}
	return out
}

func parseFixed(t *testing.T, s string) int32 {
	t.Helper()
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	whole := mustAtoi(t, s[:dot])
	frac := mustAtoi(t, s[dot+1:])
	v := int32(whole*10 + frac)
	if neg {
		v = -v
	}
	return v
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			t.Fatalf("not a digit string: %q", s)
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// randomMeasurements generates a deterministic pseudo-random measurement
// file with up to stations distinct names and roughly lines rows, for the
// property tests in spec.md §8.
func randomMeasurements(seed int64, stations, lines int) string {
	r := rand.New(rand.NewSource(seed))
	names := make([]string, stations)
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_"
	for i := range names {
		n := 1 + r.Intn(20)
		var sb strings.Builder
		for j := 0; j < n; j++ {
			sb.WriteByte(letters[r.Intn(len(letters))])
		}
		names[i] = sb.String()
	}
	sort.Strings(names) // stable input order has no bearing on output; just tidy

	var sb strings.Builder
	for i := 0; i < lines; i++ {
		name := names[r.Intn(len(names))]
		whole := r.Intn(100)
		frac := r.Intn(10)
		sign := ""
		if r.Intn(2) == 0 {
			sign = "-"
		}
		fmt.Fprintf(&sb, "%s;%s%d.%d\n", name, sign, whole, frac)
	}
	return sb.String()
}
