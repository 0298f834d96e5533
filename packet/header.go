/*
NAME
  header.go

DESCRIPTION
  header.go parses and serializes the 6-byte CCSDS space packet primary
  header.

AUTHOR
  groundstation/ccsds contributors
*/

// Package packet implements the space packet layer: primary header
// parsing, packet reassembly from the M_PDU data field spanning multiple
// transfer frames, and per-APID sequence continuity.
package packet

import (
	"github.com/groundstation/ccsds/errs"
)

// HeaderLen is the fixed size in bytes of the CCSDS space packet primary
// header.
const HeaderLen = 6

// Sequence flag values for PrimaryHeader.SequenceFlags.
const (
	SeqContinuation uint8 = 0x0
	SeqFirst        uint8 = 0x1
	SeqLast         uint8 = 0x2
	SeqUnsegmented  uint8 = 0x3
)

// IdleAPID is the reserved APID value marking an idle packet used to pad
// frames.
const IdleAPID uint16 = 0x7ff

// PrimaryHeader is the 6-byte CCSDS space packet primary header.
//
// Wire layout (big-endian):
//
//	byte 0: vvv t s aaa     (v=version[3], t=type, s=has_secondary_header, a=apid bits 10:8)
//	byte 1: aaaaaaaa        (apid bits 7:0; apid is 11 bits total: byte0[2:0]<<8 | byte1)
//	byte 2: ff ssssss       (f=sequence_flags[2], s=sequence_id bits 13:8)
//	byte 3: ssssssss        (sequence_id bits 7:0)
//	byte 4-5: len_minus1 (16-bit big-endian)
type PrimaryHeader struct {
	Version             uint8
	TypeFlag            bool
	HasSecondaryHeader  bool
	APID                uint16
	SequenceFlags       uint8
	SequenceID          uint16
	LenMinus1           uint16
}

// DecodeHeader parses the 6-byte CCSDS primary header from b, which must
// be at least HeaderLen bytes long.
func DecodeHeader(b []byte) (PrimaryHeader, error) {
	if len(b) < HeaderLen {
		return PrimaryHeader{}, errs.ErrTruncated
	}
	apidHigh := uint16(b[0] & 0x07)
	return PrimaryHeader{
		Version:            b[0] >> 5,
		TypeFlag:           b[0]&0x10 != 0,
		HasSecondaryHeader: b[0]&0x08 != 0,
		APID:               apidHigh<<8 | uint16(b[1]),
		SequenceFlags:      b[2] >> 6,
		SequenceID:         uint16(b[2]&0x3f)<<8 | uint16(b[3]),
		LenMinus1:          uint16(b[4])<<8 | uint16(b[5]),
	}, nil
}

// Encode serializes h back into its 6-byte wire form.
func (h PrimaryHeader) Encode() [HeaderLen]byte {
	var b [HeaderLen]byte
	b[0] = (h.Version&0x07)<<5 | boolBit(h.TypeFlag)<<4 | boolBit(h.HasSecondaryHeader)<<3 | byte(h.APID>>8)&0x07
	b[1] = byte(h.APID)
	b[2] = (h.SequenceFlags&0x03)<<6 | byte(h.SequenceID>>8)&0x3f
	b[3] = byte(h.SequenceID)
	b[4] = byte(h.LenMinus1 >> 8)
	b[5] = byte(h.LenMinus1)
	return b
}

func boolBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// DataLen returns the total length in bytes of the packet this header
// introduces, header included: 6 + len_minus1 + 1.
func (h PrimaryHeader) DataLen() int {
	return HeaderLen + int(h.LenMinus1) + 1
}
