/*
NAME
  reassembler.go

DESCRIPTION
  reassembler.go reassembles variable-length CCSDS space packets from the
  M_PDU data field of a stream of transfer frames, one state machine per
  (scid, vcid).

AUTHOR
  groundstation/ccsds contributors
*/

package packet

import (
	"encoding/binary"

	"github.com/groundstation/ccsds/cadu"
	"github.com/groundstation/ccsds/seq"
)

// fhpIdle marks a frame carrying no packet data.
const fhpIdle = 0x7fe

// fhpContinuation marks a frame that continues a previously started
// packet; no new packet begins in it.
const fhpContinuation = 0x7ff

// Stats accumulates counters a caller can use to monitor stream health
// without the core raising a fatal error for ordinary data loss.
type Stats struct {
	FrameGaps     int // frames observed with a non-zero counter gap.
	MissingFrames int // sum of all counter gaps observed.
	Resyncs       int // times a VCID's in-flight packet was discarded and tracking restarted.
}

// vcidKey identifies one reassembly state by its originating spacecraft
// and virtual channel.
type vcidKey struct {
	scid, vcid uint8
}

// vcidState is the per-(scid,vcid) reassembly state described in spec.md
// §3: a partial-packet buffer (non-empty iff Tracking) and the last
// observed VCDU counter for gap detection.
type vcidState struct {
	buf         []byte
	lastCounter uint32
	haveLast    bool
}

func (s *vcidState) tracking() bool { return len(s.buf) > 0 }

// Reassembler consumes cadu.Frame values and emits Packets, maintaining
// independent state per (scid, vcid). Construct with NewReassembler.
type Reassembler struct {
	izoneLen              int
	trailerLen            int
	scidFilter            *uint8
	treatUncorrectedAsGap bool

	states map[vcidKey]*vcidState
	Stats  Stats
}

// Option configures a Reassembler.
type Option func(*Reassembler)

// WithSCIDFilter drops frames whose header SCID does not match scid.
func WithSCIDFilter(scid uint8) Option {
	return func(r *Reassembler) { r.scidFilter = &scid }
}

// WithUncorrectedAsGap controls whether a frame with RSState ==
// Uncorrected is treated as a counter gap (discarding any in-flight
// packet for that VCID). Default true, per spec.md §4.4.
func WithUncorrectedAsGap(v bool) Option {
	return func(r *Reassembler) { r.treatUncorrectedAsGap = v }
}

// NewReassembler returns a Reassembler expecting izoneLen bytes of
// optional insert zone and trailerLen bytes of optional trailer around
// each frame's M_PDU.
func NewReassembler(izoneLen, trailerLen int, opts ...Option) *Reassembler {
	r := &Reassembler{
		izoneLen:              izoneLen,
		trailerLen:            trailerLen,
		treatUncorrectedAsGap: true,
		states:                make(map[vcidKey]*vcidState),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Feed processes one transfer frame and returns the Packets it completed,
// if any. It never returns an error: malformed or out-of-sequence frames
// cause a resync (recorded in Stats) rather than a fatal condition, per
// spec.md §7.
func (r *Reassembler) Feed(f cadu.Frame) []Packet {
	if r.scidFilter != nil && f.Header.SCID != *r.scidFilter {
		return nil
	}

	key := vcidKey{f.Header.SCID, f.Header.VCID}
	st, ok := r.states[key]
	if !ok {
		st = &vcidState{}
		r.states[key] = st
	}

	if st.haveLast {
		gap, err := seq.MissingFrames(uint64(f.Header.Counter), uint64(st.lastCounter))
		if err == nil && gap > 0 {
			r.Stats.FrameGaps++
			r.Stats.MissingFrames += int(gap)
			if st.tracking() {
				st.buf = nil
				r.Stats.Resyncs++
			}
		}
	}
	if f.RSState == cadu.RSUncorrected && r.treatUncorrectedAsGap && st.tracking() {
		st.buf = nil
		r.Stats.Resyncs++
	}
	st.lastCounter = f.Header.Counter
	st.haveLast = true

	mpdu, ok := r.extractMPDU(f.Data)
	if !ok {
		// Too short to even carry an M_PDU header; nothing recoverable.
		return nil
	}

	fhp := binary.BigEndian.Uint16(mpdu[:2]) & 0x7ff
	content := mpdu[2:]

	switch fhp {
	case fhpIdle:
		// No packet data in this frame; tracking state is untouched.
		return nil
	case fhpContinuation:
		return r.continuePacket(st, content)
	default:
		return r.startAtOffset(st, content, int(fhp))
	}
}

// extractMPDU strips the insert zone and trailer from a frame's data
// field, returning the M_PDU (header + data field) if long enough.
func (r *Reassembler) extractMPDU(data []byte) ([]byte, bool) {
	if len(data) < r.izoneLen+2+r.trailerLen {
		return nil, false
	}
	return data[r.izoneLen : len(data)-r.trailerLen], true
}

// continuePacket handles fhp == 0x7FF: the entire content extends the
// in-progress packet (Tracking) or is discarded (Searching).
func (r *Reassembler) continuePacket(st *vcidState, content []byte) []Packet {
	if !st.tracking() {
		return nil
	}
	st.buf = append(st.buf, content...)

	h, err := DecodeHeader(st.buf)
	if err != nil {
		return nil // fewer than 6 bytes buffered yet; keep accumulating.
	}
	want := h.DataLen()
	switch {
	case len(st.buf) == want:
		pkt := Packet{Header: h, Data: append([]byte(nil), st.buf...)}
		st.buf = nil
		return []Packet{pkt}
	case len(st.buf) > want:
		// Inconsistent with the header length: the buffer has collected
		// more than this packet should need. Discard and resync.
		st.buf = nil
		r.Stats.Resyncs++
		return nil
	default:
		return nil // still short; keep tracking.
	}
}

// startAtOffset handles fhp values other than idle/continuation: bytes
// [0,fhp) complete any in-progress packet, and parsing resumes at fhp for
// as many contiguous packets as fit in the remaining content.
func (r *Reassembler) startAtOffset(st *vcidState, content []byte, fhp int) []Packet {
	if fhp > len(content) {
		// Malformed pointer; nothing safe to do but resync.
		st.buf = nil
		r.Stats.Resyncs++
		return nil
	}

	var out []Packet
	if st.tracking() {
		st.buf = append(st.buf, content[:fhp]...)
		h, err := DecodeHeader(st.buf)
		if err == nil && len(st.buf) == h.DataLen() {
			out = append(out, Packet{Header: h, Data: append([]byte(nil), st.buf...)})
		} else {
			// Either too short to have a header at all (tracking can begin
			// with fewer than HeaderLen bytes buffered when a header
			// straddles two frames) or the accumulated length doesn't match
			// what the header promised: resync rather than emit a corrupt
			// packet.
			r.Stats.Resyncs++
		}
		st.buf = nil
	}
	// Bytes before fhp while Searching belong to a packet we can never
	// recover; they are simply dropped.

	pos := fhp
	for pos < len(content) {
		remaining := content[pos:]
		if len(remaining) < HeaderLen {
			st.buf = append([]byte(nil), remaining...)
			return out
		}
		h, _ := DecodeHeader(remaining) // always succeeds: len >= HeaderLen.
		if h.Version != 0 {
			st.buf = nil
			r.Stats.Resyncs++
			return out
		}
		need := h.DataLen()
		if pos+need <= len(content) {
			out = append(out, Packet{Header: h, Data: append([]byte(nil), remaining[:need]...)})
			pos += need
			continue
		}
		st.buf = append([]byte(nil), remaining...)
		return out
	}
	return out
}
