//go:build !linux

package engine

import "log/slog"

// pinCurrentThread is a no-op outside Linux: CPU affinity pinning isn't
// available (or isn't worth the syscall surface) on the teacher's other
// target, macOS.
func pinCurrentThread(cpuID int, log *slog.Logger) {}
