// Package mmapfile is the boundary wiring spec.md §1 and §6 call out as
// external collaborators: opening and memory-mapping the input file and
// applying OS advice hints. None of this affects correctness; it only
// affects throughput.
package mmapfile

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"syscall"

	"golang.org/x/sys/unix"
)

// Mapping is a read-only view of a file's contents, backed by mmap.
type Mapping struct {
	data []byte
}

// Open maps path read-only and applies sequential/willneed advice hints.
// Matches the teacher's own setupMmap: a custom mmap rather than
// golang.org/x/exp/mmap, because that package's ReaderAt copies.
func Open(path string, log *slog.Logger) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("statting file: %w", err)
	}
	size := fi.Size()
	if size == 0 {
		return &Mapping{data: nil}, nil
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}

	applyAdvice(data, log)

	return &Mapping{data: data}, nil
}

// applyAdvice is a direct port of the madvise(MADV_HUGEPAGE/SEQUENTIAL/
// WILLNEED) calls in the original 1BRC reference (thomaswue_ported.rs),
// translated to golang.org/x/sys/unix. Best-effort: a failure here only
// costs throughput, so it is logged and ignored rather than propagated.
func applyAdvice(data []byte, log *slog.Logger) {
	if len(data) == 0 {
		return
	}
	if runtime.GOOS == "linux" {
		if err := unix.Madvise(data, unix.MADV_HUGEPAGE); err != nil {
			log.Debug("madvise MADV_HUGEPAGE failed", "err", err)
		}
	}
	if err := unix.Madvise(data, unix.MADV_SEQUENTIAL); err != nil {
		log.Debug("madvise MADV_SEQUENTIAL failed", "err", err)
	}
	if err := unix.Madvise(data, unix.MADV_WILLNEED); err != nil {
		log.Debug("madvise MADV_WILLNEED failed", "err", err)
	}
}

// Bytes returns the mapped, read-only file content.
func (m *Mapping) Bytes() []byte {
	return m.data
}

// Close unmaps the file. Safe to call on a Mapping with no backing bytes.
func (m *Mapping) Close() error {
	if len(m.data) == 0 {
		return nil
	}
	return syscall.Munmap(m.data)
}
