package timecode

import "testing"

// TestDecodeCDSTimecodePinned implements scenario C: the byte-for-byte
// input [0x5E, 0x1D, 0x03, 0x4F, 0x1A, 0x00, 0x00, 0x00] decodes to
// 24093 days (0x5E1D) plus 55,515,648 ms of day (0x034F1A00), less the
// fixed 4383-day CCSDS-to-Unix epoch delta.
func TestDecodeCDSTimecodePinned(t *testing.T) {
	b := []byte{0x5E, 0x1D, 0x03, 0x4F, 0x1A, 0x00, 0x00, 0x00}
	got, err := DecodeCDSTimecode(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const want = 1702999515648
	if got != want {
		t.Errorf("DecodeCDSTimecode(%v) = %d, want %d", b, got, want)
	}
}

func TestDecodeCDSTimecodeTruncated(t *testing.T) {
	if _, err := DecodeCDSTimecode(make([]byte, 7)); err == nil {
		t.Fatal("expected an error for a 7-byte input")
	}
}

func TestDecodeCDSTimecodeIgnoresMicroseconds(t *testing.T) {
	a := []byte{0x5E, 0x1D, 0x03, 0x4F, 0x1A, 0x00, 0x00, 0x00}
	b := []byte{0x5E, 0x1D, 0x03, 0x4F, 0x1A, 0x00, 0xFF, 0xFF}
	got1, _ := DecodeCDSTimecode(a)
	got2, _ := DecodeCDSTimecode(b)
	if got1 != got2 {
		t.Errorf("microsecond field changed millisecond-resolution output: %d != %d", got1, got2)
	}
}

func TestDecodeEOSCUCTimecodePinned(t *testing.T) {
	// coarse = 400,000,000 seconds since 1958-01-01 TAI, fine = 0.
	b := []byte{0x17, 0xD7, 0x84, 0x00, 0x00, 0x00, 0x00, 0x00}
	got, err := DecodeEOSCUCTimecode(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const want = 21308768000
	if got != want {
		t.Errorf("DecodeEOSCUCTimecode(%v) = %d, want %d", b, got, want)
	}
}

func TestDecodeEOSCUCTimecodeTruncated(t *testing.T) {
	if _, err := DecodeEOSCUCTimecode(make([]byte, 3)); err == nil {
		t.Fatal("expected an error for a 3-byte input")
	}
}
