package main

/*------------------------------------------------------------------
 *
 * Purpose:	Generate a MIDI 1.0 byte stream from a YAML session
 *		script of messages, and write it to stdout.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/apvanzanten/c-midi-sub000/internal/midilog"
	"github.com/apvanzanten/c-midi-sub000/midi"
	"github.com/apvanzanten/c-midi-sub000/midi/script"
)

func main() {
	var scriptPath = pflag.StringP("script", "s", "", "YAML session script of messages to encode. Required.")
	var verbosity = pflag.StringP("verbosity", "v", "info", "Log level: debug, info, warn, error.")
	var priority = pflag.StringP("priority", "p", "realtime-first", "Priority mode: fifo or realtime-first.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "midigen - encode a YAML session script of MIDI messages to stdout.\n")
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: midigen -s script.yaml > bytes\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(1)
	}

	logger := midilog.New("midigen", midilog.ParseLevel(*verbosity))

	if *scriptPath == "" {
		logger.Fatal("--script is required")
	}

	mode := midi.RealtimeFirst
	if *priority == "fifo" {
		mode = midi.Fifo
	}

	s, err := script.Load(*scriptPath)
	if err != nil {
		logger.Fatal("loading script", "err", err)
	}

	e := midi.NewEncoder(mode)
	bytes, err := s.ApplyToEncoder(e)
	if err != nil {
		logger.Fatal("applying script", "err", err)
	}

	if _, err := os.Stdout.Write(bytes); err != nil {
		logger.Fatal("writing stdout", "err", err)
	}
	logger.Info("wrote bytes", "count", len(bytes))
}
