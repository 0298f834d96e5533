/*
NAME
  ccsds.go

DESCRIPTION
  ccsds.go wires the CADU, transfer-frame, and space-packet layers into
  the public lazy-pull iterators that consumers use to walk a telemetry
  stream, following the bufio.Scanner shape: Next() advances, an
  accessor reads the current item, Err() reports a terminal failure.

AUTHOR
  groundstation/ccsds contributors
*/

// Package ccsds decodes CCSDS telemetry streams: synchronized CADUs with
// optional Reed-Solomon correction, VCDU transfer frames, and reassembled
// space packets, exposed as lazy pull-driven iterators over an io.Reader.
package ccsds

import (
	"errors"
	"io"

	"github.com/groundstation/ccsds/cadu"
	"github.com/groundstation/ccsds/errs"
	"github.com/groundstation/ccsds/internal/rs"
	"github.com/groundstation/ccsds/packet"
)

// Re-exported types and sentinels so that callers only need to import
// this one package for the common path.
type (
	VCDUHeader    = cadu.VCDUHeader
	Frame         = cadu.Frame
	RSState       = cadu.RSState
	PrimaryHeader = packet.PrimaryHeader
	Packet        = packet.Packet
	DecodedPacket = packet.DecodedPacket
)

const (
	RSNotPerformed = cadu.RSNotPerformed
	RSOK           = cadu.RSOK
	RSCorrected    = cadu.RSCorrected
	RSUncorrected  = cadu.RSUncorrected
)

var (
	ErrTruncated    = errs.ErrTruncated
	ErrOverflow     = errs.ErrOverflow
	ErrInvalidValue = errs.ErrInvalidValue
)

// DecodePrimaryHeader parses the 6-byte CCSDS space packet primary
// header.
func DecodePrimaryHeader(b []byte) (PrimaryHeader, error) { return packet.DecodeHeader(b) }

// DecodePacket parses a full Packet (header plus body) from b.
func DecodePacket(b []byte) (Packet, error) { return packet.DecodePacket(b) }

// FrameIter lazily decodes CADUs from an underlying reader into transfer
// Frames. Use ReadFrames to construct one.
type FrameIter struct {
	dec *cadu.FrameDecoder
	cur Frame
	err error
}

// ReadFrames returns an iterator over the CADUs read from r. interleave
// is the Reed-Solomon interleave depth (4 or 5 are the CCSDS-specified
// values); interleave=0 disables RS entirely, and frameLen must then
// supply the caller-known CADU body length (frameLen is ignored when
// interleave > 0, since the body length is fixed at interleave*255).
func ReadFrames(r io.Reader, interleave, frameLen int) *FrameIter {
	bodyLen := frameLen
	if interleave > 0 {
		bodyLen = interleave * rs.CodeLen
	}
	sync, err := cadu.NewSynchronizer(r, bodyLen)
	if err != nil {
		return &FrameIter{err: err}
	}
	dec, err := cadu.NewFrameDecoder(sync, interleave)
	if err != nil {
		return &FrameIter{err: err}
	}
	return &FrameIter{dec: dec}
}

// Next advances the iterator. It returns false at end of stream or on a
// structural error; callers must check Err to distinguish the two.
func (it *FrameIter) Next() bool {
	if it.err != nil {
		return false
	}
	f, err := it.dec.Next()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			it.err = err
		}
		return false
	}
	it.cur = f
	return true
}

// Frame returns the frame decoded by the most recent call to Next.
func (it *FrameIter) Frame() Frame { return it.cur }

// Err returns the first structural error encountered, or nil if the
// iterator ran to a normal end of stream.
func (it *FrameIter) Err() error { return it.err }

// WithParallelRS enables parallel Reed-Solomon decoding across
// interleaved codewords within each CADU.
func (it *FrameIter) WithParallelRS(parallel bool) *FrameIter {
	if it.dec != nil {
		it.dec.WithParallelRS(parallel)
	}
	return it
}

// PacketIter lazily reassembles or decodes space packets. Use
// ReadPackets or ReadFramedPackets to construct one.
type PacketIter struct {
	// unframed mode.
	r io.Reader

	// framed mode.
	frames *FrameIter
	reasm  *packet.Reassembler
	queue  []packet.Packet

	cur Packet
	err error
}

// ReadPackets returns an iterator over packets read directly from r,
// assuming byte-aligned contiguous packets with no transfer-frame
// framing.
func ReadPackets(r io.Reader) *PacketIter {
	return &PacketIter{r: r}
}

func (it *PacketIter) Next() bool {
	if it.err != nil {
		return false
	}
	if it.frames != nil {
		return it.nextFramed()
	}
	return it.nextUnframed()
}

// readErrIsFatal reports whether err represents a structural I/O failure
// rather than ordinary truncation at the end of the stream. Per the
// error taxonomy, truncation at stream end is normal termination for a
// stream decoder, not a raised error.
func readErrIsFatal(err error) bool {
	return err != nil && !errors.Is(err, io.EOF) && err != io.ErrUnexpectedEOF
}

func (it *PacketIter) nextUnframed() bool {
	hdr := make([]byte, packet.HeaderLen)
	if _, err := io.ReadFull(it.r, hdr); err != nil {
		if readErrIsFatal(err) {
			it.err = &errs.IOError{Err: err}
		}
		return false
	}
	h, err := packet.DecodeHeader(hdr)
	if err != nil {
		it.err = err
		return false
	}
	body := make([]byte, h.DataLen())
	copy(body, hdr)
	if _, err := io.ReadFull(it.r, body[packet.HeaderLen:]); err != nil {
		if readErrIsFatal(err) {
			it.err = &errs.IOError{Err: err}
		}
		return false
	}
	it.cur = Packet{Header: h, Data: body}
	return true
}

func (it *PacketIter) nextFramed() bool {
	for len(it.queue) == 0 {
		if !it.frames.Next() {
			it.err = it.frames.Err()
			return false
		}
		it.queue = it.reasm.Feed(it.frames.Frame())
	}
	it.cur = it.queue[0]
	it.queue = it.queue[1:]
	return true
}

// Packet returns the packet decoded by the most recent call to Next.
func (it *PacketIter) Packet() Packet { return it.cur }

func (it *PacketIter) Err() error { return it.err }

// ReadFramedPackets returns an iterator that reassembles space packets
// from the M_PDU data field of CADUs read from r, dropping frames whose
// SCID does not match scid.
func ReadFramedPackets(r io.Reader, scid uint8, interleave, frameLen, izoneLen, trailerLen int) *PacketIter {
	frames := ReadFrames(r, interleave, frameLen)
	reasm := packet.NewReassembler(izoneLen, trailerLen, packet.WithSCIDFilter(scid))
	return &PacketIter{frames: frames, reasm: reasm}
}

// DecodedPacketIter is ReadFramedPackets' SCID/VCID-annotated sibling.
type DecodedPacketIter struct {
	frames *FrameIter
	reasm  *packet.Reassembler
	queue []DecodedPacket
	cur   DecodedPacket
	err   error
}

// ReadDecodedPackets is like ReadFramedPackets but annotates each emitted
// packet with the SCID/VCID of its originating transfer frame.
func ReadDecodedPackets(r io.Reader, scid uint8, interleave, frameLen, izoneLen, trailerLen int) *DecodedPacketIter {
	frames := ReadFrames(r, interleave, frameLen)
	reasm := packet.NewReassembler(izoneLen, trailerLen, packet.WithSCIDFilter(scid))
	return &DecodedPacketIter{frames: frames, reasm: reasm}
}

func (it *DecodedPacketIter) Next() bool {
	if it.err != nil {
		return false
	}
	for len(it.queue) == 0 {
		if !it.frames.Next() {
			it.err = it.frames.Err()
			return false
		}
		f := it.frames.Frame()
		for _, p := range it.reasm.Feed(f) {
			it.queue = append(it.queue, DecodedPacket{Packet: p, SCID: f.Header.SCID, VCID: f.Header.VCID})
		}
	}
	it.cur = it.queue[0]
	it.queue = it.queue[1:]
	return true
}

func (it *DecodedPacketIter) Packet() DecodedPacket { return it.cur }
func (it *DecodedPacketIter) Err() error            { return it.err }

// FilterIdleIter wraps a PacketIter, skipping packets whose APID is the
// reserved idle value (0x7FF). This resolves spec.md's "should idle
// packets be suppressed" open question by leaving the core emitting them
// and offering this opt-in wrapper rather than forcing every caller to
// hand-write the filter.
type FilterIdleIter struct {
	inner *PacketIter
}

// FilterIdle wraps inner so that Next skips idle-APID (0x7FF) packets.
func FilterIdle(inner *PacketIter) *FilterIdleIter {
	return &FilterIdleIter{inner: inner}
}

func (it *FilterIdleIter) Next() bool {
	for it.inner.Next() {
		if it.inner.Packet().Header.APID != packet.IdleAPID {
			return true
		}
	}
	return false
}

func (it *FilterIdleIter) Packet() Packet { return it.inner.Packet() }
func (it *FilterIdleIter) Err() error     { return it.inner.Err() }
