//go:build linux

package engine

import (
	"log/slog"
	"runtime"

	"golang.org/x/sys/unix"
)

// pinCurrentThread locks the calling goroutine to its current OS thread
// and restricts that thread to a single CPU. Best-effort: acts on the
// teacher's own graveyard comment ("would be cool to lock to one cpu
// using unix.SchedSetaffinity() but it's not available on mac") on the
// one platform where it is available. Failures are logged and ignored;
// they cost throughput, never correctness.
func pinCurrentThread(cpuID int, log *slog.Logger) {
	runtime.LockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID % runtime.NumCPU())

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		log.Debug("SchedSetaffinity failed", "cpu", cpuID, "err", err)
	}
}
