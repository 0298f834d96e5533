/*
NAME
  gf.go

DESCRIPTION
  gf.go implements GF(2^8) arithmetic for the RS(255,223) codec: log/antilog
  tables built from the CCSDS-specified primitive polynomial, and the small
  set of field operations the decoder needs.

AUTHOR
  groundstation/ccsds contributors
*/

// Package rs implements the CCSDS (255,223) Reed-Solomon codec used by the
// CADU layer: conventional GF(2^8) arithmetic, syndrome computation,
// Berlekamp-Massey error location, Chien search and Forney error
// correction. The field is built over x^8 + x^4 + x^3 + x^2 + 1 (0x11d)
// with primitive element alpha = 2, and the generator has roots
// alpha^0 .. alpha^31. This is not the CCSDS field polynomial
// (x^8 + x^7 + x^2 + x + 1, 0x187) or its alpha^11 generator, and no
// dual-basis conversion is applied: convToDual / dualToConv are identity
// functions that the encoder and decoder do not call. Codewords encoded
// by Encode round-trip through Decode; codewords from a CCSDS
// dual-basis encoder are not decoded to their CCSDS-corrected bytes.
package rs

// primitivePoly is the primitive polynomial used for GF(2^8):
// x^8 + x^4 + x^3 + x^2 + 1 (not the CCSDS x^8 + x^7 + x^2 + x + 1).
const primitivePoly = 0x11d

// fieldSize is the number of non-zero elements of GF(2^8).
const fieldSize = 255

var expTable [2*fieldSize + 1]byte
var logTable [256]byte

func init() {
	x := byte(1)
	for i := 0; i < fieldSize; i++ {
		expTable[i] = x
		logTable[x] = byte(i)
		hi := x & 0x80
		x <<= 1
		if hi != 0 {
			x ^= byte(primitivePoly & 0xff)
		}
	}
	// Extend the exp table past 255 so additions of two log values never
	// need an explicit modulo.
	for i := fieldSize; i < len(expTable); i++ {
		expTable[i] = expTable[i-fieldSize]
	}
}

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}

func gfDiv(a, b byte) byte {
	if a == 0 {
		return 0
	}
	// b == 0 is a caller error (division by the zero element); the decoder
	// never calls gfDiv with a zero divisor because Lambda-prime at a
	// simple root is always non-zero.
	return expTable[int(logTable[a])+fieldSize-int(logTable[b])]
}

func gfInverse(a byte) byte {
	return expTable[fieldSize-int(logTable[a])]
}

// gfPow raises the primitive element alpha to the given exponent, which may
// be negative; exponents are reduced modulo fieldSize.
func gfPow(alphaExp int) byte {
	e := alphaExp % fieldSize
	if e < 0 {
		e += fieldSize
	}
	return expTable[e]
}

func dualToConv(b byte) byte { return b }
func convToDual(b byte) byte { return b }
