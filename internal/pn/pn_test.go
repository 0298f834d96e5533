package pn

import "testing"

func TestDerandomizeIsInvolution(t *testing.T) {
	orig := make([]byte, 600)
	for i := range orig {
		orig[i] = byte(i * 37)
	}
	got := make([]byte, len(orig))
	copy(got, orig)

	Derandomize(got)
	if string(got) == string(orig) {
		t.Fatalf("Derandomize did not change the input")
	}
	Derandomize(got)
	for i := range orig {
		if got[i] != orig[i] {
			t.Fatalf("Derandomize twice did not restore byte %d: got %#x, want %#x", i, got[i], orig[i])
		}
	}
}

func TestTableLength(t *testing.T) {
	tbl := Table()
	if len(tbl) != Len {
		t.Fatalf("Table length = %d, want %d", len(tbl), Len)
	}
}
