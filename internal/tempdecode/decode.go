// Package tempdecode implements the branchless fixed-point temperature
// decoder from spec.md §4.2: a single unaligned 8-byte load plus bit
// tricks turns a field like "-12.3" or "7.8" into a signed integer in
// tenths, without ever branching on the field's width.
//
// Ported from the Java trick (by Quan Anh Mai) via its Rust adaptation in
// the original 1BRC reference (thomaswue_ported.rs's convert_into_number).
package tempdecode

import "math/bits"

// Decode reads the temperature field encoded in word — word must be the
// little-endian 8-byte load starting at the first byte after the ';' — and
// returns the value in tenths plus the number of bytes consumed,
// including the trailing newline.
//
// word is assumed to hold a well-formed field matching -?[0-9]{1,2}\.[0-9]
// followed by '\n'; behavior is undefined otherwise (spec.md §4.2).
//
// The reference implementation this is ported from (thomaswue_ported.rs)
// loads its word one byte earlier, at the ';' itself, and advances its
// cursor by (d>>3)+4 from there. Anchored at the first byte after ';' as
// this contract requires, that same cursor movement is (d>>3)+3.
func Decode(word uint64) (tenths int32, consumed int) {
	// Every digit byte has bit 4 (0x10) set; '.' (0x2E) does not. Bytes 1-3
	// are the only ones that can hold '.', so scanning NOT(word) & 0x1010_1000
	// for its lowest set bit finds the decimal point's bit position.
	d := bits.TrailingZeros64(^word & 0x1010_1000)
	shift := uint((28 - d) & 63)

	// byte 0 is '-' (0x2D, bit4=0) vs a digit (bit4=1); shifting NOT(word)
	// left by 59 leaves bit4 of byte 0 in the sign position of a 64-bit
	// lane, and an arithmetic right shift by 63 replicates it into an
	// all-ones (negative) or all-zeros (non-negative) mask.
	sign := int64(^word<<59) >> 63
	designMask := ^(uint64(sign) & 0xFF)

	digits := ((word & designMask) << shift) & 0x0000_0F00_0F0F00
	abs := int64((digits * 0x640A0001) >> 32 & 0x3FF)

	tenths = int32((abs ^ sign) - sign)
	consumed = (d >> 3) + 3
	return tenths, consumed
}
