package main

import (
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ccsdsdump",
	Short: "Decode CCSDS telemetry captures: CADUs, transfer frames, and space packets.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(logLevel, logJSON)
	},
	Version:          "v1.0.0",
	TraverseChildren: true,
	SilenceUsage:     true,
}

var (
	logLevel   string
	logJSON    bool
	scid       uint8
	interleave int
	frameLen   int
	izoneLen   int
	trailerLen int
)

// Execute registers the persistent flags on the root command and runs it
// (child commands attach themselves in their init functions). It is
// called once by main.main and returns the process exit code.
func Execute() int {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "INFO", "set log level")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log in JSON instead of colorized console output")

	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func initLogger(logLevel string, logJSON bool) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var writer io.Writer = os.Stderr
	if !logJSON {
		noColor := runtime.GOOS == "windows"
		writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339, NoColor: noColor}
	}
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()

	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "WARN":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "ERROR":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// addFrameFlags registers the flags shared by every subcommand that reads
// a CADU stream.
func addFrameFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&interleave, "interleave", "i", 4, "Reed-Solomon interleave depth (0 disables RS)")
	cmd.Flags().IntVar(&frameLen, "frame-len", 0, "CADU body length when interleave=0")
}

// addFramedPacketFlags registers the additional flags needed to reassemble
// packets from a framed CADU stream.
func addFramedPacketFlags(cmd *cobra.Command) {
	addFrameFlags(cmd)
	cmd.Flags().Uint8Var(&scid, "scid", 0, "spacecraft identifier to keep; frames from other SCIDs are dropped")
	cmd.Flags().IntVar(&izoneLen, "izone-len", 0, "insert zone length in bytes")
	cmd.Flags().IntVar(&trailerLen, "trailer-len", 0, "trailer length in bytes")
	cmd.MarkFlagRequired("scid")
}
