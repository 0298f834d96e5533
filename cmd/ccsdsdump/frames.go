package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/groundstation/ccsds"
)

var framesCmd = &cobra.Command{
	Use:   "frames <path>",
	Short: "Decode CADUs into transfer frames and report their headers and RS outcomes.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		defer f.Close()

		it := ccsds.ReadFrames(f, interleave, frameLen)
		var count, corrected, uncorrected int
		for it.Next() {
			fr := it.Frame()
			count++
			switch fr.RSState {
			case ccsds.RSCorrected:
				corrected++
			case ccsds.RSUncorrected:
				uncorrected++
			}
			log.Debug().
				Uint8("scid", fr.Header.SCID).
				Uint8("vcid", fr.Header.VCID).
				Uint32("counter", fr.Header.Counter).
				Str("rsstate", fr.RSState.String()).
				Int("data_len", len(fr.Data)).
				Msg("frame")
		}
		if err := it.Err(); err != nil {
			return errors.Wrap(err, "decode frames")
		}
		log.Info().Int("frames", count).Int("corrected", corrected).Int("uncorrected", uncorrected).Msg("done")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(framesCmd)
	addFrameFlags(framesCmd)
}
