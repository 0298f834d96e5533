/*
NAME
  main.go

DESCRIPTION
  ccsdsdump is a CLI host wrapping the ccsds decoding library: it exposes
  the frames/packets/stat operations as cobra subcommands, logging via
  zerolog.

AUTHOR
  groundstation/ccsds contributors
*/

package main

import (
	"os"
	"runtime"

	"github.com/rs/zerolog/log"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			log.Error().Str("stack", string(buf)).Interface("error", err).Msg("panic recover")
			os.Exit(1)
		}
	}()
	os.Exit(Execute())
}
