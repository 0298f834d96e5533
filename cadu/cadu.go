/*
NAME
  cadu.go

DESCRIPTION
  cadu.go implements CADU frame synchronization against the CCSDS
  Attached Sync Marker, and the fixed-length candidate emission the
  synchronizer performs while searching or locked onto the sync word.

AUTHOR
  groundstation/ccsds contributors
*/

// Package cadu implements the CADU (Channel Access Data Unit) layer: ASM
// frame synchronization, PN derandomization, Reed-Solomon correction, and
// VCDU primary header parsing. It is the bottom of the three-layer
// pipeline; see package packet for the layer built on top of it.
package cadu

import (
	"bytes"
	"io"

	"github.com/groundstation/ccsds/errs"
)

// ASMLen is the length in bytes of the Attached Sync Marker.
const ASMLen = 4

// ASM is the fixed CCSDS Attached Sync Marker.
var ASM = [ASMLen]byte{0x1a, 0xcf, 0xfc, 0x1d}

// ErrInvalidValue is returned at construction time for contradictory or
// nonsensical configuration, per spec's InvalidValue error kind.
var ErrInvalidValue = errs.ErrInvalidValue

// Synchronizer scans a byte stream for the ASM and emits fixed-length
// CADU candidates. It implements the two-state (searching/locked)
// algorithm: while searching it scans byte-by-byte for the marker; once
// locked it reads whole CADUs and only drops back to searching if a read
// CADU's leading bytes fail to match the marker (rather than discarding
// the block, since a single bit-flip in the ASM should not lose a
// frame's worth of already-read data).
type Synchronizer struct {
	r       io.Reader
	caduLen int // asm_len + body_len
	locked  bool

	// buf holds bytes read one at a time while searching for the ASM; it
	// is reused across calls to avoid per-byte allocation.
	buf [ASMLen]byte
}

// NewSynchronizer returns a Synchronizer reading CADUs of length
// ASMLen+bodyLen from r. bodyLen must be positive.
func NewSynchronizer(r io.Reader, bodyLen int) (*Synchronizer, error) {
	if bodyLen <= 0 {
		return nil, ErrInvalidValue
	}
	return &Synchronizer{r: r, caduLen: ASMLen + bodyLen}, nil
}

// Next returns the next CADU candidate (ASM included), or io.EOF when the
// stream is exhausted. A candidate returned while locked may not actually
// begin with the ASM (see Synchronizer); callers inspect the leading
// four bytes themselves if they need to know.
func (s *Synchronizer) Next() ([]byte, error) {
	var lead [ASMLen]byte
	if !s.locked {
		if err := s.search(); err != nil {
			return nil, err
		}
		lead = s.buf
	} else {
		// Locked: read the next CADU's leading bytes fresh rather than
		// scanning for them.
		if _, err := io.ReadFull(s.r, lead[:]); err != nil {
			return nil, normalizeEOF(err)
		}
	}

	out := make([]byte, s.caduLen)
	copy(out, lead[:])
	if _, err := io.ReadFull(s.r, out[ASMLen:]); err != nil {
		return nil, normalizeEOF(err)
	}

	if bytes.Equal(out[:ASMLen], ASM[:]) {
		s.locked = true
	} else {
		// Emit the block anyway; RS may still recover it, but we've lost
		// sync and must re-scan for the marker on the next call.
		s.locked = false
	}
	return out, nil
}

// search scans byte-by-byte for the next four-byte window equal to the
// ASM, leaving s.buf holding the matched window.
func (s *Synchronizer) search() error {
	var window [ASMLen]byte
	if _, err := io.ReadFull(s.r, window[:]); err != nil {
		return normalizeEOF(err)
	}
	one := make([]byte, 1)
	for !bytes.Equal(window[:], ASM[:]) {
		if _, err := io.ReadFull(s.r, one); err != nil {
			return normalizeEOF(err)
		}
		copy(window[:], window[1:])
		window[ASMLen-1] = one[0]
	}
	s.buf = window
	s.locked = true
	return nil
}

// normalizeEOF maps a partial final read (io.ErrUnexpectedEOF) to io.EOF,
// per spec: fewer than cadu_len bytes remaining after the last ASM match
// are discarded silently, i.e. treated as a normal end of stream rather
// than an IoError. Any other read failure is structural and is wrapped
// in errs.IOError so callers can distinguish it from a normal end of
// stream with errors.As.
func normalizeEOF(err error) error {
	switch err {
	case io.ErrUnexpectedEOF, io.EOF:
		return io.EOF
	default:
		return &errs.IOError{Err: err}
	}
}
