/*
NAME
  timecode.go

DESCRIPTION
  timecode.go decodes CCSDS time codes (CDS day-segmented and EOS CUC
  unsegmented) into UTC milliseconds since the Unix epoch.

AUTHOR
  groundstation/ccsds contributors
*/

// Package timecode decodes CCSDS time code fields into UTC milliseconds
// since the Unix epoch (1970-01-01).
package timecode

import "github.com/groundstation/ccsds/errs"

// epochOffsetDays is the number of days from the CCSDS epoch
// (1958-01-01) to the Unix epoch (1970-01-01).
const epochOffsetDays = 4383

const msPerDay = 86400000
const epochOffsetMs = int64(epochOffsetDays) * msPerDay
const epochOffsetSec = int64(epochOffsetDays) * 86400

// eosTAIMinusUTC is the fixed TAI-minus-UTC leap-second correction used by
// the EOS Aqua/Terra mission convention. The source system pins this as a
// constant rather than consulting a leap-second table; preserved here
// byte-for-byte to match that behavior.
const eosTAIMinusUTC = 32

// DecodeCDSTimecode decodes a CDS (day-segmented) time code: 2 bytes of
// days since 1958-01-01, 4 bytes of milliseconds of day, 2 bytes of
// microseconds of millisecond (ignored, since the result resolution is
// milliseconds). b must be at least 8 bytes.
func DecodeCDSTimecode(b []byte) (int64, error) {
	if len(b) < 8 {
		return 0, errs.ErrTruncated
	}
	days := int64(b[0])<<8 | int64(b[1])
	msOfDay := int64(b[2])<<24 | int64(b[3])<<16 | int64(b[4])<<8 | int64(b[5])
	return days*msPerDay + msOfDay - epochOffsetMs, nil
}

// DecodeEOSCUCTimecode decodes the EOS Aqua/Terra CUC (unsegmented) time
// code: 4 bytes of coarse seconds since 1958-01-01 TAI, 4 bytes of fine
// time in units of 2^-32 seconds. b must be at least 8 bytes.
func DecodeEOSCUCTimecode(b []byte) (int64, error) {
	if len(b) < 8 {
		return 0, errs.ErrTruncated
	}
	coarse := int64(b[0])<<24 | int64(b[1])<<16 | int64(b[2])<<8 | int64(b[3])
	fine := uint32(b[4])<<24 | uint32(b[5])<<16 | uint32(b[6])<<8 | uint32(b[7])

	utcSec := coarse - eosTAIMinusUTC
	fineMs := int64(fine) * 1000 / (1 << 32)
	return (utcSec-epochOffsetSec)*1000 + fineMs, nil
}
