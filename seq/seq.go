/*
NAME
  seq.go

DESCRIPTION
  seq.go implements the modular gap arithmetic used to detect loss in the
  frame counter (24-bit) and packet sequence id (14-bit) sequences.

AUTHOR
  groundstation/ccsds contributors
*/

// Package seq implements CCSDS sequence-continuity accounting: modular
// gap computation for frame counters and packet sequence identifiers.
package seq

import "github.com/groundstation/ccsds/errs"

const (
	packetModulus = 1 << 14
	frameModulus  = 1 << 24
)

// MissingPackets returns the number of packets missing between last and
// cur, both treated as 14-bit modular counters: (cur-last-1) mod 2^14.
// cur and last must each be representable in 16 bits (the historical API
// accepts up to 16-bit arguments even though the counter itself is
// 14-bit); larger values return ErrOverflow.
func MissingPackets(cur, last uint32) (uint32, error) {
	if cur >= 1<<16 || last >= 1<<16 {
		return 0, errs.ErrOverflow
	}
	return modGap(cur, last, packetModulus), nil
}

// MissingFrames returns the number of frames missing between last and
// cur, both treated as 24-bit modular counters: (cur-last-1) mod 2^24.
// cur and last must each be representable in 32 bits; larger values
// return ErrOverflow (32-bit arguments are accepted as uint64 so the full
// unsigned 32-bit range is representable).
func MissingFrames(cur, last uint64) (uint32, error) {
	if cur >= 1<<32 || last >= 1<<32 {
		return 0, errs.ErrOverflow
	}
	return modGap(uint32(cur), uint32(last), frameModulus), nil
}

// modGap computes (cur-last-1) mod modulus using signed 64-bit arithmetic
// to sidestep wraparound edge cases in the subtraction itself.
func modGap(cur, last uint32, modulus int64) uint32 {
	diff := int64(cur) - int64(last) - 1
	diff %= modulus
	if diff < 0 {
		diff += modulus
	}
	return uint32(diff)
}
