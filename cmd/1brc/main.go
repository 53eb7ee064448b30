// Command 1brc computes per-station min/mean/max temperature statistics
// over a large measurements file and prints a single sorted report line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strconv"

	"go.coldcutz.net/go-stuff/utils"

	"github.com/asg0451/1brc-fast/internal/engine"
	"github.com/asg0451/1brc-fast/internal/mmapfile"
	"github.com/asg0451/1brc-fast/internal/swar"
)

var (
	cpuprofile   = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile   = flag.String("memprofile", "", "write memory profile to `file`")
	traceprofile = flag.String("trace", "", "write trace to `file`")
	numWorkers   = flag.Int("workers", 0, "number of worker goroutines (0 = runtime.NumCPU(), capped at 256)")
	segmentSize  = flag.Int("segment-size", 0, "partitioner segment size in bytes (0 = default)")
	pinThreads   = flag.Bool("pin-threads", false, "best-effort pin each worker to one CPU (linux only)")
	verbose      = flag.Bool("v", false, "log the total row count processed to stderr")
	isWorker     = flag.Bool("worker", false, "internal: run as the worker child process")
)

const defaultFilename = "measurements.txt"

func main() {
	flag.Parse()

	if !*isWorker {
		if err := spawnWorker(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
	}

	if *traceprofile != "" {
		f, err := os.Create(*traceprofile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := trace.Start(f); err != nil {
			panic(err)
		}
		defer trace.Stop()
	}

	_, done, log, err := utils.StdSetup()
	if err != nil {
		panic(err)
	}
	done() // use default signal stuff

	log.Info("startup", "wide_simd_available", swar.HasWideSIMD())

	if err := run(log); err != nil {
		log.Error("error", "err", err)
		os.Exit(1)
	}

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			panic(err)
		}
	}
}

func run(log *slog.Logger) error {
	m, err := mmapfile.Open(filename(), log)
	if err != nil {
		return fmt.Errorf("mapping input: %w", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Error("unmap failed", "err", err)
		}
	}()

	cfg := engine.Config{
		NumWorkers:  resolveWorkers(),
		SegmentSize: *segmentSize,
		PinThreads:  *pinThreads,
	}

	res, err := engine.Run(m.Bytes(), cfg, log)
	if err != nil {
		return fmt.Errorf("processing %s: %w", filename(), err)
	}

	fmt.Print(res.Report)
	if *verbose {
		log.Info("rows processed", "count", res.RowCount)
	}
	return nil
}

func filename() string {
	if args := flag.Args(); len(args) > 0 {
		return args[0]
	}
	return defaultFilename
}

// resolveWorkers applies the CLI flag, then the NUM_WORKERS environment
// variable (spec.md §6), then falls through to engine.Run's own
// runtime.NumCPU() default.
func resolveWorkers() int {
	if *numWorkers > 0 {
		return *numWorkers
	}
	if s := os.Getenv("NUM_WORKERS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// spawnWorker execs this same binary with --worker, streams the child's
// single report line back to our own stdout, and returns without waiting
// for the child to exit — so the parent's wall clock never pays for
// unmapping a many-gigabyte input or for the per-worker tables' garbage
// collection. Ported from the original 1BRC reference's spawn_worker /
// is_worker split (thomaswue_ported.rs); not part of the core algorithm,
// purely a teardown-latency shortcut (spec.md §9).
func spawnWorker() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("finding self: %w", err)
	}

	args := append([]string{"--worker"}, os.Args[1:]...)
	cmd := exec.Command(exe, args...)
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("piping worker stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting worker: %w", err)
	}

	line, err := bufio.NewReader(stdout).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("reading worker output: %w", err)
	}
	fmt.Print(line)

	// Deliberately not cmd.Wait(): the whole point is to let the child's
	// teardown happen after we've already returned the result.
	return nil
}
