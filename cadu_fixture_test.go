package ccsds

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/groundstation/ccsds/cadu"
	"github.com/groundstation/ccsds/internal/pn"
	"github.com/groundstation/ccsds/internal/rs"
	"github.com/groundstation/ccsds/packet"
	"github.com/groundstation/ccsds/seq"
)

// This file builds a synthesized multi-frame SNPP-like fixture covering
// an end-to-end CADU -> frame -> packet round trip, since no binary
// capture ships alongside the retrieval pack. The expected values below
// are derived mechanically from the fixture's own construction
// parameters (packet sizes, frame capacity, interleave) rather than
// pinned against an external reference capture.

const (
	fixtureSCID       = 157
	fixtureVCID       = 16
	fixtureInterleave = 4
	fixtureNumFrames  = 65
)

// buildPacketBytes encodes a single unsegmented space packet.
func buildPacketBytes(apid uint16, seqID uint16, payloadLen int) []byte {
	h := packet.PrimaryHeader{
		APID:          apid,
		SequenceFlags: packet.SeqUnsegmented,
		SequenceID:    seqID,
		LenMinus1:     uint16(payloadLen - 1),
	}
	enc := h.Encode()
	out := make([]byte, packet.HeaderLen+payloadLen)
	copy(out, enc[:])
	for i := 0; i < payloadLen; i++ {
		out[packet.HeaderLen+i] = byte(seqID + uint16(i))
	}
	return out
}

// encodeInterleavedBody is the mechanical inverse of
// rs.DecodeInterleaved: it RS-encodes interleave message chunks of
// rs.MsgLen bytes (extracted from message using the same
// position-k-every-interleave-th-byte convention DecodeInterleaved
// reconstructs with) and re-interleaves the resulting codewords at the
// byte level.
func encodeInterleavedBody(message []byte, interleave int) []byte {
	if len(message) != interleave*rs.MsgLen {
		panic("fixture: message length does not match interleave*MsgLen")
	}
	codewords := make([][]byte, interleave)
	for k := 0; k < interleave; k++ {
		chunk := make([]byte, rs.MsgLen)
		for j := 0; j < rs.MsgLen; j++ {
			chunk[j] = message[j*interleave+k]
		}
		codewords[k] = rs.Encode(chunk)
	}
	body := make([]byte, interleave*rs.CodeLen)
	for j := 0; j < rs.CodeLen; j++ {
		for k := 0; k < interleave; k++ {
			body[j*interleave+k] = codewords[k][j]
		}
	}
	return body
}

// buildSNPPFixture returns the raw CADU byte stream plus the flat list of
// packets (in frame order) encoded into it, excluding the idle-APID
// filler packet appended at the end of the content stream.
func buildSNPPFixture(t *testing.T) ([]byte, [][]byte) {
	t.Helper()

	const (
		frameMsgLen = fixtureInterleave * rs.MsgLen // 892
		dataLen     = frameMsgLen - cadu.VCDUHeaderLen
		contentLen  = dataLen - 2 // minus the M_PDU header.
	)

	pkt802 := buildPacketBytes(0x322, 500, 3000) // 3006 bytes total.
	pkt803Sizes := []int{4554, 4554, 4554, 4554, 4554, 4554, 4554, 4554, 4554, 4554, 4552}
	pkt803SeqIDs := []uint16{100, 102, 103, 104, 105, 106, 107, 108, 109, 110, 111} // 100->102 gap of 1.

	var real [][]byte
	real = append(real, pkt802)
	for i, sz := range pkt803Sizes {
		real = append(real, buildPacketBytes(0x323, pkt803SeqIDs[i], sz-packet.HeaderLen))
	}

	content := make([]byte, 0, contentLen*fixtureNumFrames)
	boundaries := make([]int, 0, len(real)+1)
	for _, p := range real {
		boundaries = append(boundaries, len(content))
		content = append(content, p...)
	}

	totalContent := contentLen * fixtureNumFrames
	idleTotal := totalContent - len(content)
	idlePayload := idleTotal - packet.HeaderLen
	idlePacket := buildPacketBytes(packet.IdleAPID, 0, idlePayload)
	boundaries = append(boundaries, len(content))
	content = append(content, idlePacket...)

	if len(content) != totalContent {
		t.Fatalf("fixture construction: content length %d, want %d", len(content), totalContent)
	}

	counters := make([]uint32, fixtureNumFrames)
	c := uint32(0)
	for i := range counters {
		if i == 30 {
			c++ // simulate a frame lost upstream before this capture.
		}
		counters[i] = c
		c++
	}

	var stream bytes.Buffer
	for i := 0; i < fixtureNumFrames; i++ {
		start := i * contentLen
		chunk := content[start : start+contentLen]

		fhp := uint16(0x7ff)
		for _, b := range boundaries {
			if b >= start && b < start+contentLen {
				fhp = uint16(b - start)
				break
			}
		}

		mpdu := make([]byte, 2+contentLen)
		mpdu[0] = byte(fhp >> 8 & 0x07)
		mpdu[1] = byte(fhp)
		copy(mpdu[2:], chunk)

		hdr := cadu.VCDUHeader{Version: 1, SCID: fixtureSCID, VCID: fixtureVCID, Counter: counters[i]}
		hdrBytes := hdr.Encode()

		message := make([]byte, frameMsgLen)
		copy(message, hdrBytes[:])
		copy(message[cadu.VCDUHeaderLen:], mpdu)

		body := encodeInterleavedBody(message, fixtureInterleave)
		pn.Derandomize(body)

		stream.Write(cadu.ASM[:])
		stream.Write(body)
	}

	return stream.Bytes(), real
}

func TestSNPPFixtureFrameDecode(t *testing.T) {
	streamBytes, _ := buildSNPPFixture(t)

	it := ReadFrames(bytes.NewReader(streamBytes), fixtureInterleave, 0)
	var (
		frames      []Frame
		totalMsgLen int
		corrected   int
		uncorrected int
		gapTotal    uint32
		gapCount    int
	)
	for it.Next() {
		f := it.Frame()
		frames = append(frames, f)
		totalMsgLen += cadu.VCDUHeaderLen + len(f.Data)
		switch f.RSState {
		case cadu.RSCorrected:
			corrected++
		case cadu.RSUncorrected:
			uncorrected++
		}
		if f.Header.VCID != fixtureVCID {
			t.Errorf("frame %d: VCID = %d, want %d", len(frames)-1, f.Header.VCID, fixtureVCID)
		}
	}
	if err := it.Err(); err != nil {
		t.Fatalf("unexpected iterator error: %v", err)
	}

	if len(frames) != fixtureNumFrames {
		t.Fatalf("got %d frames, want %d", len(frames), fixtureNumFrames)
	}
	if corrected != 0 || uncorrected != 0 {
		t.Errorf("corrected=%d uncorrected=%d, want 0 and 0", corrected, uncorrected)
	}
	if totalMsgLen != 57980 {
		t.Errorf("total frame message bytes = %d, want 57980", totalMsgLen)
	}

	for i := 1; i < len(frames); i++ {
		gap, err := seq.MissingFrames(uint64(frames[i].Header.Counter), uint64(frames[i-1].Header.Counter))
		if err != nil {
			t.Fatalf("MissingFrames: %v", err)
		}
		if gap > 0 {
			gapCount++
			gapTotal += gap
		}
	}
	if gapCount != 1 {
		t.Errorf("frame sequence error count = %d, want 1", gapCount)
	}
	if gapTotal != 1 {
		t.Errorf("missing frames = %d, want 1", gapTotal)
	}
}

func TestSNPPFixturePacketDecode(t *testing.T) {
	streamBytes, realPackets := buildSNPPFixture(t)

	raw := ReadFramedPackets(bytes.NewReader(streamBytes), fixtureSCID, fixtureInterleave, 0, 0, 0)
	var got []Packet
	for raw.Next() {
		got = append(got, raw.Packet())
	}
	if err := raw.Err(); err != nil {
		t.Fatalf("unexpected iterator error: %v", err)
	}

	// 12 application packets plus the trailing idle-APID filler packet.
	if len(got) != 13 {
		t.Fatalf("got %d raw packets (incl. idle), want 13", len(got))
	}

	filtered := FilterIdle(ReadFramedPackets(bytes.NewReader(streamBytes), fixtureSCID, fixtureInterleave, 0, 0, 0))
	var app []Packet
	for filtered.Next() {
		app = append(app, filtered.Packet())
	}
	if err := filtered.Err(); err != nil {
		t.Fatalf("unexpected iterator error: %v", err)
	}
	if len(app) != 12 {
		t.Fatalf("got %d application packets, want 12", len(app))
	}
	if app[0].Header.APID != 0x322 || len(app[0].Data) != 3006 {
		t.Errorf("packet 0: apid=%#x len=%d, want apid=0x322 len=3006", app[0].Header.APID, len(app[0].Data))
	}

	var total803 int
	var seqIDs []uint16
	for _, p := range app[1:] {
		if p.Header.APID != 0x323 {
			t.Errorf("expected APID 0x323, got %#x", p.Header.APID)
		}
		total803 += len(p.Data)
		seqIDs = append(seqIDs, p.Header.SequenceID)
	}
	if len(app)-1 != 11 {
		t.Fatalf("got %d APID 0x323 packets, want 11", len(app)-1)
	}
	if total803 != 50092 {
		t.Errorf("APID 0x323 aggregate bytes = %d, want 50092", total803)
	}

	var gapSum uint32
	for i := 1; i < len(seqIDs); i++ {
		gap, err := seq.MissingPackets(uint32(seqIDs[i]), uint32(seqIDs[i-1]))
		if err != nil {
			t.Fatalf("MissingPackets: %v", err)
		}
		gapSum += gap
	}
	if gapSum != 1 {
		t.Errorf("APID 0x323 missing-packet total = %d, want 1 (sequence id 9860-equivalent gap)", gapSum)
	}

	// Round-trip: the bytes the reassembler emits for every real packet
	// must equal the bytes the fixture encoded.
	for i, want := range realPackets {
		if !bytes.Equal(app[i].Data, want) {
			t.Errorf("packet %d: reassembled bytes do not match the encoded fixture packet", i)
		}
	}
}

func TestSNPPFixtureOutputChecksumIsStable(t *testing.T) {
	streamBytes, _ := buildSNPPFixture(t)

	hashRun := func() string {
		it := ReadFramedPackets(bytes.NewReader(streamBytes), fixtureSCID, fixtureInterleave, 0, 0, 0)
		h := md5.New()
		for it.Next() {
			h.Write(it.Packet().Data)
		}
		if err := it.Err(); err != nil {
			t.Fatalf("unexpected iterator error: %v", err)
		}
		return hex.EncodeToString(h.Sum(nil))
	}

	first := hashRun()
	second := hashRun()
	if first != second {
		t.Errorf("read_framed_packets output checksum is not deterministic across runs: %s != %s", first, second)
	}
}
