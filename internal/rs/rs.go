package rs

import "errors"

// MsgLen and ParityLen are the CCSDS (255,223) parameters: 223 message
// symbols, 32 parity symbols, correcting up to 16 symbol errors per
// codeword.
const (
	MsgLen    = 223
	ParityLen = 32
	CodeLen   = MsgLen + ParityLen
	MaxErrors = ParityLen / 2
)

// ErrTooManyErrors describes a codeword with more than MaxErrors symbol
// errors, which cannot be reliably corrected. Decode does not return it;
// it reports such codewords as OutcomeUncorrectable.
var ErrTooManyErrors = errors.New("rs: too many errors to correct")

// generator is the degree-32 generator polynomial (descending order,
// monic) with roots alpha^0 .. alpha^31, i.e. first-consecutive-root 0.
var generator = newGenerator()

func newGenerator() []byte {
	g := []byte{1}
	for i := 0; i < ParityLen; i++ {
		g = polyMulDesc(g, []byte{1, gfPow(i)})
	}
	return g
}

// Encode computes the 32 parity bytes for a 223-byte message and returns
// the full 255-byte systematic codeword (message followed by parity). It
// exists to build self-consistent test fixtures for the CADU layer; the
// public decode pipeline never calls it.
func Encode(msg []byte) []byte {
	if len(msg) != MsgLen {
		panic("rs: Encode requires a 223-byte message")
	}
	padded := make([]byte, CodeLen)
	copy(padded, msg)
	remainder := polyDivRemainder(padded, generator)
	out := make([]byte, CodeLen)
	copy(out, msg)
	copy(out[MsgLen:], remainder)
	return out
}

// polyDivRemainder divides dividend (descending order, already padded with
// len(divisor)-1 trailing zeros) by divisor and returns the remainder,
// which has length len(divisor)-1.
func polyDivRemainder(dividend, divisor []byte) []byte {
	out := make([]byte, len(dividend))
	copy(out, dividend)
	for i := 0; i < len(dividend)-len(divisor)+1; i++ {
		coef := out[i]
		if coef == 0 {
			continue
		}
		for j, d := range divisor {
			if d != 0 {
				out[i+j] ^= gfMul(d, coef)
			}
		}
	}
	return out[len(dividend)-len(divisor)+1:]
}

// Outcome classifies the result of decoding a single 255-byte codeword.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeCorrected
	OutcomeUncorrectable
)

// Decode corrects a copy of a single 255-byte codeword where possible
// (the caller's slice is left unchanged) and returns the 223-byte message
// portion plus the outcome. When the outcome
// is OutcomeUncorrectable, the returned message is the best-effort
// (partially or incorrectly "corrected") symbols per spec.md's
// instruction that upper layers decide whether to use an uncorrectable
// frame.
func Decode(codeword []byte) ([]byte, Outcome) {
	if len(codeword) != CodeLen {
		panic("rs: Decode requires a 255-byte codeword")
	}
	cw := make([]byte, CodeLen)
	copy(cw, codeword)

	synd := syndromes(cw)
	if allZero(synd) {
		return cw[:MsgLen], OutcomeOK
	}

	lambda, ok := berlekampMassey(synd)
	if !ok {
		return cw[:MsgLen], OutcomeUncorrectable
	}

	positions, ok := chienSearch(lambda, len(cw))
	if !ok || len(positions) != len(lambda)-1 {
		return cw[:MsgLen], OutcomeUncorrectable
	}

	omega := errorEvaluator(synd, lambda)
	lambdaPrime := formalDerivative(lambda)

	for _, p := range positions {
		e := len(cw) - 1 - p
		xinv := gfPow(-e)
		x := gfPow(e)
		denom := polyEvalAsc(lambdaPrime, xinv)
		if denom == 0 {
			return cw[:MsgLen], OutcomeUncorrectable
		}
		mag := gfDiv(gfMul(x, polyEvalAsc(omega, xinv)), denom)
		cw[p] ^= mag
	}

	if !allZero(syndromes(cw)) {
		return cw[:MsgLen], OutcomeUncorrectable
	}
	return cw[:MsgLen], OutcomeCorrected
}

// syndromes computes S_0..S_31 = C(alpha^i) for i = 0..31 (first
// consecutive root 0), returned in ascending order (S[0] = S_0).
func syndromes(cw []byte) []byte {
	s := make([]byte, ParityLen)
	for i := 0; i < ParityLen; i++ {
		s[i] = polyEvalDesc(cw, gfPow(i))
	}
	return s
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// berlekampMassey finds the shortest LFSR (error locator polynomial,
// ascending order, constant term 1) generating the syndrome sequence. The
// second return value is false when the implied error count exceeds
// MaxErrors.
func berlekampMassey(synd []byte) ([]byte, bool) {
	c := []byte{1}
	b := []byte{1}
	l := 0
	m := 1
	bCoef := byte(1)

	for n := 0; n < len(synd); n++ {
		delta := synd[n]
		for i := 1; i <= l; i++ {
			if i < len(c) {
				delta ^= gfMul(c[i], synd[n-i])
			}
		}
		if delta == 0 {
			m++
			continue
		}
		t := make([]byte, len(c))
		copy(t, c)
		coef := gfDiv(delta, bCoef)
		c = polyAdd(c, polyScale(shiftUp(b, m), coef))
		if 2*l <= n {
			l = n + 1 - l
			b = t
			bCoef = delta
			m = 1
		} else {
			m++
		}
	}
	if l > MaxErrors {
		return nil, false
	}
	return c, true
}

// chienSearch finds the roots of the error locator polynomial by brute
// force, returning codeword array positions (descending convention: 0 is
// the first transmitted byte).
func chienSearch(lambda []byte, n int) ([]int, bool) {
	var positions []int
	for p := 0; p < n; p++ {
		e := n - 1 - p
		xinv := gfPow(-e)
		if polyEvalAsc(lambda, xinv) == 0 {
			positions = append(positions, p)
		}
	}
	return positions, true
}

// errorEvaluator computes Omega(x) = S(x)*Lambda(x) mod x^ParityLen,
// ascending order.
func errorEvaluator(synd, lambda []byte) []byte {
	full := polyMulAsc(synd, lambda)
	if len(full) > ParityLen {
		full = full[:ParityLen]
	}
	return full
}

// formalDerivative computes Lambda'(x) over GF(2^8): since char 2 kills
// even-power terms, Lambda'[i] = Lambda[i+1] when i+1 is odd, else 0.
func formalDerivative(lambda []byte) []byte {
	if len(lambda) <= 1 {
		return []byte{0}
	}
	out := make([]byte, len(lambda)-1)
	for i := range out {
		if (i+1)%2 == 1 {
			out[i] = lambda[i+1]
		}
	}
	return out
}
