// Package midilog wires up github.com/charmbracelet/log for the cmd/
// binaries. The midi package itself never imports this: the codec
// stays log-free so it can run in contexts that care about its
// allocation-free guarantee.
package midilog

import (
	"os"

	"github.com/charmbracelet/log"
)

// New builds a logger writing to stderr at the given level, with the
// command name as a static prefix, matching the teacher's convention
// of tagging every diagnostic line with the tool that produced it.
func New(prefix string, level log.Level) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	l.SetLevel(level)
	return l
}

// ParseLevel maps a --verbosity style string to a log.Level, defaulting
// to Info on an empty or unrecognized string rather than failing, so a
// bad flag value degrades gracefully instead of aborting startup.
func ParseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
