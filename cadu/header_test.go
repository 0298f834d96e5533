package cadu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVCDUHeaderRoundTrip(t *testing.T) {
	cases := []VCDUHeader{
		{Version: 1, SCID: 157, VCID: 16, Counter: 0x010203, Replay: false, Cycle: true, CounterCycle: 5},
		{Version: 1, SCID: 0, VCID: 63, Counter: 0xffffff, Replay: true, Cycle: false, CounterCycle: 0},
		{Version: 2, SCID: 255, VCID: 0, Counter: 0, Replay: true, Cycle: true, CounterCycle: 0xf},
	}
	for _, h := range cases {
		enc := h.Encode()
		got := DecodeVCDUHeader(enc[:])
		if diff := cmp.Diff(h, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}
