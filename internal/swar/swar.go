// Package swar implements "SIMD within a register" byte-scanning
// primitives used by the record loop: finding a target byte inside an
// 8-byte word using nothing but ordinary 64-bit arithmetic, and locating
// the first lane of a match mask.
package swar

import (
	"encoding/binary"
	"math/bits"
	"runtime"

	"golang.org/x/sys/cpu"
)

const (
	lowBits  = 0x0101010101010101
	highBits = 0x8080808080808080
)

// HasWideSIMD reports whether the running CPU exposes lane widths beyond
// the 8-byte words this package operates on (AVX2 on amd64, ASIMD on
// arm64, always false elsewhere). The scalar SWAR path below is the portable contract from
// spec.md §4.1 and is what actually runs; this is informational only, the
// hook a 32/64-byte SIMD lane implementation would key off of.
func HasWideSIMD() bool {
	switch runtime.GOARCH {
	case "amd64":
		return cpu.X86.HasAVX2
	case "arm64":
		return cpu.ARM64.HasASIMD
	default:
		return false
	}
}

// FindByte returns a mask that is non-zero iff some byte of word equals b,
// and whose lowest 0x80 lane marks the first such byte. This is the
// classic zero-byte trick: XOR the target byte into every lane, then
// detect lanes that became zero. Lanes above the first match can also be
// set by the subtraction's borrow, so only the lowest lane is exact.
func FindByte(word uint64, b byte) uint64 {
	rep := uint64(b) * lowBits
	x := word ^ rep
	return (x - lowBits) & ^x & highBits
}

// FirstIndex returns the byte index (0..7) of the lowest set lane of a
// non-zero mask produced by FindByte. Behavior is undefined for a zero
// mask.
func FirstIndex(mask uint64) int {
	return bits.TrailingZeros64(mask) >> 3
}

// LoadWord reads 8 bytes at offset p from buf as a little-endian word,
// tolerating an unaligned offset. Callers must ensure p+8 <= len(buf);
// use LoadWordTail near the end of a buffer instead.
func LoadWord(buf []byte, p int) uint64 {
	return binary.LittleEndian.Uint64(buf[p : p+8])
}

// LoadWordTail reads up to 8 bytes starting at p, zero-padding any bytes
// beyond len(buf). Used by the tail-safe path (spec.md §4.4, §7) where an
// unconditional 8-byte load could read past the mapped region.
func LoadWordTail(buf []byte, p int) uint64 {
	var tmp [8]byte
	n := copy(tmp[:], buf[p:])
	_ = n
	return binary.LittleEndian.Uint64(tmp[:])
}

// ScanTo advances from p in 8-byte strides until it finds byte b,
// returning the absolute index of the match. If no match appears before
// end, it falls back to a scalar scan of the final <8 bytes and returns
// end when b is not present. Callers that need to read 8 bytes at p must
// ensure p+8 <= len(buf); ScanTo itself never reads past end.
func ScanTo(buf []byte, p, end int, b byte) int {
	for p+8 <= end {
		word := LoadWord(buf, p)
		if mask := FindByte(word, b); mask != 0 {
			return p + FirstIndex(mask)
		}
		p += 8
	}
	for ; p < end; p++ {
		if buf[p] == b {
			return p
		}
	}
	return end
}
