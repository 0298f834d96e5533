package cadu

// VCDUHeaderLen is the fixed size in bytes of the VCDU primary header.
const VCDUHeaderLen = 6

// VCDUHeader is the 6-byte VCDU primary header found at the start of a
// CADU body after PN derandomization and RS correction.
//
// Wire layout (big-endian bit numbering, MSB first):
//
//	byte 0: vv ssssss       (v=version[2], s=scid high 6 bits)
//	byte 1: ss vvvvvv       (s=scid low 2 bits, v=vcid[6])
//	byte 2: cccccccc        (counter bits 23:16)
//	byte 3: cccccccc        (counter bits 15:8)
//	byte 4: cccccccc        (counter bits 7:0)
//	byte 5: r y cccc zz     (r=replay, y=cycle, c=counter_cycle[4], z=spare)
type VCDUHeader struct {
	Version      uint8  // 2 bits; must be 1 for standard CCSDS V.2 transfer frames.
	SCID         uint8  // 8 bits.
	VCID         uint8  // 6 bits, in [0,63].
	Counter      uint32 // 24 bits, wraps at 2^24.
	Replay       bool
	Cycle        bool
	CounterCycle uint8 // 4 bits.
}

// DecodeVCDUHeader parses the 6-byte VCDU primary header from b, which
// must be at least VCDUHeaderLen bytes.
func DecodeVCDUHeader(b []byte) VCDUHeader {
	scidHigh := b[0] & 0x3f
	scidLow := (b[1] >> 6) & 0x03
	return VCDUHeader{
		Version:      b[0] >> 6,
		SCID:         scidHigh<<2 | scidLow,
		VCID:         b[1] & 0x3f,
		Counter:      uint32(b[2])<<16 | uint32(b[3])<<8 | uint32(b[4]),
		Replay:       b[5]&0x80 != 0,
		Cycle:        b[5]&0x40 != 0,
		CounterCycle: (b[5] >> 2) & 0x0f,
	}
}

// Encode serializes h back into its 6-byte wire form; used by tests to
// exercise the decode/encode round trip and by fixture builders.
func (h VCDUHeader) Encode() [VCDUHeaderLen]byte {
	var b [VCDUHeaderLen]byte
	scid := h.SCID
	b[0] = (h.Version&0x03)<<6 | (scid >> 2)
	b[1] = (scid&0x03)<<6 | (h.VCID & 0x3f)
	b[2] = byte(h.Counter >> 16)
	b[3] = byte(h.Counter >> 8)
	b[4] = byte(h.Counter)
	var b5 byte
	if h.Replay {
		b5 |= 0x80
	}
	if h.Cycle {
		b5 |= 0x40
	}
	b5 |= (h.CounterCycle & 0x0f) << 2
	b[5] = b5
	return b
}
