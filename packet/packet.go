package packet

import "github.com/groundstation/ccsds/errs"

// Packet is a reassembled CCSDS space packet: its primary header plus the
// full packet body, header included.
type Packet struct {
	Header PrimaryHeader
	Data   []byte
}

// DecodePacket parses a Packet from b: a primary header followed by
// len_minus1+1 bytes of packet data. len(b) must be at least
// h.DataLen(); trailing bytes beyond that are ignored (the caller is
// expected to have already sliced to a single packet when that's known,
// or to use the returned Packet.Data length to advance past it).
func DecodePacket(b []byte) (Packet, error) {
	h, err := DecodeHeader(b)
	if err != nil {
		return Packet{}, err
	}
	if len(b) < h.DataLen() {
		return Packet{}, errs.ErrTruncated
	}
	data := make([]byte, h.DataLen())
	copy(data, b[:h.DataLen()])
	return Packet{Header: h, Data: data}, nil
}

// DecodedPacket is a Packet annotated with the SCID/VCID of the
// originating transfer frame, useful when multiplexed streams share a
// source.
type DecodedPacket struct {
	Packet
	SCID uint8
	VCID uint8
}
