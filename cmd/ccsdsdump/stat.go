package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/groundstation/ccsds"
)

var statCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Summarize a framed CADU stream: total packet count and per-APID packet and byte counts.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		defer f.Close()

		it := ccsds.ReadDecodedPackets(f, scid, interleave, frameLen, izoneLen, trailerLen)
		byAPID := map[uint16]struct {
			count int
			bytes int
		}{}
		var total int
		for it.Next() {
			p := it.Packet()
			total++
			entry := byAPID[p.Header.APID]
			entry.count++
			entry.bytes += len(p.Data)
			byAPID[p.Header.APID] = entry
		}
		if err := it.Err(); err != nil {
			return errors.Wrap(err, "decode packets")
		}

		log.Info().Int("total_packets", total).Msg("summary")
		for apid, e := range byAPID {
			log.Info().Uint16("apid", apid).Int("packets", e.count).Int("bytes", e.bytes).Msg("apid")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statCmd)
	addFramedPacketFlags(statCmd)
}
