package rs

// The codeword itself is represented "descending": element 0 is the first
// byte transmitted, mapped to the highest polynomial degree (n-1). This
// matches the on-wire byte order and is the convention used by polyEvalDesc
// and the systematic encoder/division routines below.
//
// Syndromes, the error locator and the error evaluator are instead kept
// "ascending" (element 0 is the x^0 coefficient), which is the natural
// convention for Berlekamp-Massey and the Forney formulas. The two
// conventions never mix within a single slice.

// polyEvalDesc evaluates a descending-order polynomial p at x using
// Horner's method.
func polyEvalDesc(p []byte, x byte) byte {
	y := p[0]
	for i := 1; i < len(p); i++ {
		y = gfMul(y, x) ^ p[i]
	}
	return y
}

// polyMulDesc convolves two descending-order polynomials.
func polyMulDesc(a, b []byte) []byte {
	out := make([]byte, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			out[i+j] ^= gfMul(av, bv)
		}
	}
	return out
}

// polyEvalAsc evaluates an ascending-order polynomial p at x.
func polyEvalAsc(p []byte, x byte) byte {
	var y byte
	xp := byte(1)
	for _, c := range p {
		y ^= gfMul(c, xp)
		xp = gfMul(xp, x)
	}
	return y
}

// polyMulAsc convolves two ascending-order polynomials.
func polyMulAsc(a, b []byte) []byte {
	out := make([]byte, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			out[i+j] ^= gfMul(av, bv)
		}
	}
	return out
}

// polyAdd XORs two same-or-different length polynomials (either
// convention, as XOR is convention-agnostic position by position once
// aligned); the shorter polynomial is treated as zero-extended at the
// high-index end.
func polyAdd(a, b []byte) []byte {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, n)
	copy(out, a)
	for i, v := range b {
		out[i] ^= v
	}
	return out
}

func polyScale(p []byte, k byte) []byte {
	out := make([]byte, len(p))
	for i, c := range p {
		out[i] = gfMul(c, k)
	}
	return out
}

// shiftUp prepends m zero coefficients to an ascending-order polynomial,
// i.e. multiplies it by x^m.
func shiftUp(p []byte, m int) []byte {
	out := make([]byte, len(p)+m)
	copy(out[m:], p)
	return out
}
