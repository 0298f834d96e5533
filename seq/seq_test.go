package seq

import (
	"errors"
	"testing"

	"github.com/groundstation/ccsds/errs"
)

func TestMissingPacketsWraparound(t *testing.T) {
	cases := []struct {
		cur, last uint32
		want      uint32
	}{
		{0, 16383, 0},
		{5, 3, 1},
		{3, 5, 16381},
		{7, 7, (1 << 14) - 1},
	}
	for _, c := range cases {
		got, err := MissingPackets(c.cur, c.last)
		if err != nil {
			t.Fatalf("MissingPackets(%d,%d): unexpected error %v", c.cur, c.last, err)
		}
		if got != c.want {
			t.Errorf("MissingPackets(%d,%d) = %d, want %d", c.cur, c.last, got, c.want)
		}
	}
}

func TestMissingPacketsOverflow(t *testing.T) {
	if _, err := MissingPackets(1<<16, 0); !errors.Is(err, errs.ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestMissingFramesWraparound(t *testing.T) {
	cases := []struct {
		cur, last uint64
		want      uint32
	}{
		{0, (1 << 24) - 1, 0},
		{101, 100, 0},
		{103, 101, 1}, // one frame missing (102).
		{50, 50, (1 << 24) - 1},
	}
	for _, c := range cases {
		got, err := MissingFrames(c.cur, c.last)
		if err != nil {
			t.Fatalf("MissingFrames(%d,%d): unexpected error %v", c.cur, c.last, err)
		}
		if got != c.want {
			t.Errorf("MissingFrames(%d,%d) = %d, want %d", c.cur, c.last, got, c.want)
		}
	}
}

func TestMissingFramesOverflow(t *testing.T) {
	if _, err := MissingFrames(1<<32, 0); !errors.Is(err, errs.ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}
