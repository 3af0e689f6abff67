package main

/*------------------------------------------------------------------
 *
 * Purpose:	Decode a MIDI 1.0 byte stream and print the messages.
 *
 * Description:	Reads bytes either from stdin or, with --script, from a
 *		YAML session script (see midi/script), pushes them
 *		through a Decoder one at a time, and logs each resulting
 *		message. With --trace-dir set, every message is also
 *		appended to a daily-rotating CSV trace file.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/apvanzanten/c-midi-sub000/internal/midilog"
	"github.com/apvanzanten/c-midi-sub000/internal/tracelog"
	"github.com/apvanzanten/c-midi-sub000/midi"
	"github.com/apvanzanten/c-midi-sub000/midi/script"
)

func main() {
	var scriptPath = pflag.StringP("script", "s", "", "YAML session script to read bytes from, instead of stdin.")
	var traceDir = pflag.StringP("trace-dir", "t", "", "Directory for a daily-rotating CSV trace of decoded messages.")
	var verbosity = pflag.StringP("verbosity", "v", "info", "Log level: debug, info, warn, error.")
	var priority = pflag.StringP("priority", "p", "realtime-first", "Priority mode: fifo or realtime-first.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "mididump - decode a MIDI 1.0 byte stream and print the messages.\n")
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: mididump [options] < bytes\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(1)
	}

	logger := midilog.New("mididump", midilog.ParseLevel(*verbosity))

	mode := midi.RealtimeFirst
	if *priority == "fifo" {
		mode = midi.Fifo
	}

	var trace *tracelog.Trace
	if *traceDir != "" {
		t, err := tracelog.Open(*traceDir, tracelog.DefaultPattern)
		if err != nil {
			logger.Fatal("opening trace dir", "err", err)
		}
		trace = t
		defer trace.Close()
	}

	var bytes []byte
	if *scriptPath != "" {
		s, err := script.Load(*scriptPath)
		if err != nil {
			logger.Fatal("loading script", "err", err)
		}
		bytes = s.Bytes()
	} else {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Fatal("reading stdin", "err", err)
		}
		bytes = b
	}

	d := midi.NewDecoder(mode)
	for _, b := range bytes {
		for !d.IsReady() {
			if m, ok := d.PopMessage(); ok {
				report(logger, trace, "in", m)
			}
		}
		if err := d.PushByte(b); err != nil {
			logger.Error("push byte rejected", "byte", fmt.Sprintf("0x%02X", b), "err", err)
		}
	}
	for d.HasOutput() {
		m, ok := d.PopMessage()
		if !ok {
			break
		}
		report(logger, trace, "in", m)
	}
}

func report(logger *log.Logger, trace *tracelog.Trace, direction string, m midi.Message) {
	if m.Type.IsChannelVoice() {
		logger.Info(m.Type.String(), "channel", m.Channel)
	} else {
		logger.Info(m.Type.String())
	}
	if trace == nil {
		return
	}
	if err := trace.Write(time.Now(), direction, m); err != nil {
		logger.Error("writing trace", "err", err)
	}
}
