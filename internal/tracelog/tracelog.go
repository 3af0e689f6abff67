// Package tracelog saves decoded/encoded MIDI traffic to a daily CSV
// file, the same shape as the teacher's log_init/log_write: a
// strftime-patterned directory of daily files, one row per message,
// opened for append and rolled over when the pattern's filename
// changes.
package tracelog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/apvanzanten/c-midi-sub000/midi"
)

// DefaultPattern produces one file per UTC day, mirroring log.go's
// "2006-01-02.log" daily name scheme.
const DefaultPattern = "%Y-%m-%d.csv"

// Trace writes one CSV row per message to a daily-rotating file under
// dir. Not safe for concurrent use; the codec itself is single-
// threaded and this exists only to observe its output.
type Trace struct {
	dir     string
	pattern string

	openName string
	file     *os.File
	writer   *csv.Writer
}

// Open prepares a Trace writing under dir, creating dir if it does
// not already exist. No file is opened until the first Write call, so
// a Trace that never logs anything leaves no file behind in dir.
func Open(dir, pattern string) (*Trace, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := strftime.Format(pattern, time.Now()); err != nil {
		return nil, fmt.Errorf("tracelog: bad pattern %q: %w", pattern, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("tracelog: creating dir %q: %w", dir, err)
	}
	return &Trace{dir: dir, pattern: pattern}, nil
}

// Write appends one row describing m, rolling over to a new file if
// the current UTC time now maps to a different filename than the
// currently open one.
func (t *Trace) Write(now time.Time, direction string, m midi.Message) error {
	name, err := strftime.Format(t.pattern, now.UTC())
	if err != nil {
		return fmt.Errorf("tracelog: formatting name: %w", err)
	}
	if t.file != nil && name != t.openName {
		t.Close()
	}

	if t.file == nil {
		full := filepath.Join(t.dir, name)
		_, statErr := os.Stat(full)
		alreadyThere := statErr == nil

		f, err := os.OpenFile(full, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			return fmt.Errorf("tracelog: opening %q: %w", full, err)
		}
		t.file = f
		t.openName = name
		t.writer = csv.NewWriter(f)

		if !alreadyThere {
			if err := t.writer.Write([]string{"utime", "isotime", "direction", "type", "channel", "detail"}); err != nil {
				return err
			}
		}
	}

	row := []string{
		fmt.Sprintf("%d", now.Unix()),
		now.UTC().Format(time.RFC3339),
		direction,
		m.Type.String(),
		fmt.Sprintf("%d", m.Channel),
		detail(m),
	}
	if err := t.writer.Write(row); err != nil {
		return err
	}
	t.writer.Flush()
	return t.writer.Error()
}

// Close flushes and closes the currently open file, if any.
func (t *Trace) Close() error {
	if t.file == nil {
		return nil
	}
	t.writer.Flush()
	err := t.file.Close()
	t.file = nil
	t.writer = nil
	t.openName = ""
	return err
}

func detail(m midi.Message) string {
	switch m.Type {
	case midi.NoteOn:
		return fmt.Sprintf("note=%d velocity=%d", m.NoteOn.Note, m.NoteOn.Velocity)
	case midi.NoteOff:
		return fmt.Sprintf("note=%d velocity=%d", m.NoteOff.Note, m.NoteOff.Velocity)
	case midi.ControlChange:
		return fmt.Sprintf("control=%d value=%d", m.ControlChange.Control, m.ControlChange.Value)
	case midi.PitchBend:
		return fmt.Sprintf("value=%d", m.PitchBend.Value)
	case midi.SysexByte:
		return fmt.Sprintf("seq=%d byte=0x%02X", m.SysexByte.SequenceNumber, m.SysexByte.Byte)
	case midi.SysexStop:
		return fmt.Sprintf("length=%d overflowed=%t", m.SysexStop.SequenceLength, m.SysexStop.IsLengthOverflowed)
	default:
		return ""
	}
}
