package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/groundstation/ccsds"
)

var dropIdle bool

var packetsCmd = &cobra.Command{
	Use:   "packets <path>",
	Short: "Reassemble space packets from a framed CADU stream.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		defer f.Close()

		raw := ccsds.ReadFramedPackets(f, scid, interleave, frameLen, izoneLen, trailerLen)
		var it interface {
			Next() bool
			Packet() ccsds.Packet
			Err() error
		}
		if dropIdle {
			it = ccsds.FilterIdle(raw)
		} else {
			it = raw
		}

		var count int
		for it.Next() {
			p := it.Packet()
			count++
			log.Debug().
				Uint16("apid", p.Header.APID).
				Uint16("seq_id", p.Header.SequenceID).
				Int("len", len(p.Data)).
				Msg("packet")
		}
		if err := it.Err(); err != nil {
			return errors.Wrap(err, "decode packets")
		}
		log.Info().Int("packets", count).Msg("done")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(packetsCmd)
	addFramedPacketFlags(packetsCmd)
	packetsCmd.Flags().BoolVar(&dropIdle, "drop-idle", false, "suppress idle-APID (0x7FF) packets")
}
