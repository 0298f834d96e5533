package rs

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result aggregates the per-codeword outcomes of decoding an interleaved
// CADU body into the single rsstate the frame layer exposes.
type Result struct {
	Message  []byte
	Outcome  Outcome
	Errors   []Outcome // one entry per codeword, in codeword order.
}

// DecodeInterleaved de-interleaves body into `interleave` codewords of
// CodeLen bytes each (codeword k occupies positions k, k+interleave,
// k+2*interleave, ...), decodes each independently, and re-interleaves the
// corrected message symbols back into a single buffer of
// interleave*MsgLen bytes. When parallel is true the codewords are decoded
// concurrently via an errgroup, since they are independent by
// construction; output ordering is unaffected either way.
func DecodeInterleaved(ctx context.Context, body []byte, interleave int, parallel bool) (Result, error) {
	if interleave <= 0 {
		panic("rs: DecodeInterleaved requires interleave > 0")
	}
	if len(body) != interleave*CodeLen {
		panic("rs: DecodeInterleaved body length mismatch")
	}

	codewords := deinterleave(body, interleave)
	messages := make([][]byte, interleave)
	outcomes := make([]Outcome, interleave)

	decodeOne := func(k int) {
		msg, outcome := Decode(codewords[k])
		messages[k] = msg
		outcomes[k] = outcome
	}

	if parallel {
		g, _ := errgroup.WithContext(ctx)
		for k := 0; k < interleave; k++ {
			k := k
			g.Go(func() error {
				decodeOne(k)
				return nil
			})
		}
		// decodeOne never returns an error; Wait only synchronizes.
		_ = g.Wait()
	} else {
		for k := 0; k < interleave; k++ {
			decodeOne(k)
		}
	}

	agg := aggregate(outcomes)
	return Result{
		Message: interleaveMessages(messages, interleave),
		Outcome: agg,
		Errors:  outcomes,
	}, nil
}

func aggregate(outcomes []Outcome) Outcome {
	agg := OutcomeOK
	for _, o := range outcomes {
		switch o {
		case OutcomeUncorrectable:
			return OutcomeUncorrectable
		case OutcomeCorrected:
			agg = OutcomeCorrected
		}
	}
	return agg
}

// deinterleave splits body into `interleave` codewords of CodeLen bytes.
func deinterleave(body []byte, interleave int) [][]byte {
	codewords := make([][]byte, interleave)
	for k := range codewords {
		codewords[k] = make([]byte, CodeLen)
	}
	for j := 0; j < CodeLen; j++ {
		for k := 0; k < interleave; k++ {
			codewords[k][j] = body[j*interleave+k]
		}
	}
	return codewords
}

// interleaveMessages re-interleaves the corrected message symbols
// (MsgLen bytes per codeword) into a single buffer.
func interleaveMessages(messages [][]byte, interleave int) []byte {
	out := make([]byte, interleave*MsgLen)
	for j := 0; j < MsgLen; j++ {
		for k := 0; k < interleave; k++ {
			out[j*interleave+k] = messages[k][j]
		}
	}
	return out
}
