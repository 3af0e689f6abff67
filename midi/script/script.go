// Package script loads a YAML description of a sequence of MIDI
// messages or raw bytes and applies it against an Encoder or Decoder.
// It exists for test fixtures and the cmd/ tools, never the core codec.
package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/apvanzanten/c-midi-sub000/midi"
)

// Step is one entry of a session script. Exactly one of Bytes or
// Message should be set; Message is only valid for a script that will
// be fed to an Encoder.
type Step struct {
	Bytes   []byte       `yaml:"bytes,omitempty"`
	Message *MessageStep `yaml:"message,omitempty"`
}

// MessageStep mirrors midi.Message's exported fields in a YAML-
// friendly shape; unused payload fields are simply omitted.
type MessageStep struct {
	Type    string `yaml:"type"`
	Channel uint8  `yaml:"channel,omitempty"`

	Note     uint8 `yaml:"note,omitempty"`
	Velocity uint8 `yaml:"velocity,omitempty"`
	Value    int   `yaml:"value,omitempty"`
	Control  uint8 `yaml:"control,omitempty"`

	FrameType uint8 `yaml:"frame_type,omitempty"`

	SequenceNumber uint32 `yaml:"sequence_number,omitempty"`
	Byte           uint8  `yaml:"byte,omitempty"`
}

// Script is an ordered list of steps, loaded from YAML.
type Script struct {
	Steps []Step `yaml:"steps"`
}

func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %q: %w", path, err)
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing script %q: %w", path, err)
	}
	return &s, nil
}

// Bytes flattens every raw-byte step in the script, in order. Message
// steps are skipped; use ApplyToEncoder to turn those into bytes.
func (s *Script) Bytes() []byte {
	var out []byte
	for _, step := range s.Steps {
		out = append(out, step.Bytes...)
	}
	return out
}

// ApplyToEncoder pushes every message step through e and returns the
// bytes it produced, draining the encoder's queues after each push so
// a short-capacity Encoder never blocks the script.
func (s *Script) ApplyToEncoder(e *midi.Encoder) ([]byte, error) {
	var out []byte
	for i, step := range s.Steps {
		if step.Message == nil {
			out = append(out, step.Bytes...)
			continue
		}
		m, err := step.Message.toMessage()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		if err := e.PushMessage(m); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		for e.HasOutput() {
			b, ok := e.PopByte()
			if !ok {
				break
			}
			out = append(out, b)
		}
	}
	return out, nil
}

func (ms *MessageStep) toMessage() (midi.Message, error) {
	t, ok := messageTypeByName[ms.Type]
	if !ok {
		return midi.Message{}, fmt.Errorf("unknown message type %q", ms.Type)
	}

	m := midi.Message{Type: t, Channel: ms.Channel}
	switch t {
	case midi.NoteOff:
		m.NoteOff = midi.NoteOffPayload{Note: ms.Note, Velocity: ms.Velocity}
	case midi.NoteOn:
		m.NoteOn = midi.NoteOnPayload{Note: ms.Note, Velocity: ms.Velocity}
	case midi.AftertouchPoly:
		m.AftertouchPoly = midi.AftertouchPolyPayload{Note: ms.Note, Value: uint8(ms.Value)}
	case midi.ControlChange:
		m.ControlChange = midi.ControlChangePayload{Control: ms.Control, Value: uint8(ms.Value)}
	case midi.ProgramChange:
		m.ProgramChange = midi.ProgramChangePayload{ProgramID: uint8(ms.Value)}
	case midi.AftertouchMono:
		m.AftertouchMono = midi.AftertouchMonoPayload{Value: uint8(ms.Value)}
	case midi.PitchBend:
		m.PitchBend = midi.PitchBendPayload{Value: int16(ms.Value)}
	case midi.MtcQuarterFrame:
		m.MtcQuarterFrame = midi.MtcQuarterFramePayload{FrameType: ms.FrameType, Value: uint8(ms.Value)}
	case midi.SongPositionPointer:
		m.SongPositionPointer = midi.SongPositionPointerPayload{Value: uint16(ms.Value)}
	case midi.SongSelect:
		m.SongSelect = midi.SongSelectPayload{Value: uint8(ms.Value)}
	case midi.SysexByte:
		m.SysexByte = midi.SysexBytePayload{SequenceNumber: ms.SequenceNumber, Byte: ms.Byte}
	}
	return m, nil
}

var messageTypeByName = map[string]midi.MessageType{
	"note_off":             midi.NoteOff,
	"note_on":              midi.NoteOn,
	"aftertouch_poly":      midi.AftertouchPoly,
	"control_change":       midi.ControlChange,
	"program_change":       midi.ProgramChange,
	"aftertouch_mono":      midi.AftertouchMono,
	"pitch_bend":           midi.PitchBend,
	"sysex_start":          midi.SysexStart,
	"mtc_quarter_frame":    midi.MtcQuarterFrame,
	"song_position_pointer": midi.SongPositionPointer,
	"song_select":          midi.SongSelect,
	"tune_request":         midi.TuneRequest,
	"sysex_stop":           midi.SysexStop,
	"timing_clock":         midi.TimingClock,
	"start":                midi.Start,
	"continue":             midi.Continue,
	"stop":                 midi.Stop,
	"active_sensing":       midi.ActiveSensing,
	"system_reset":         midi.SystemReset,
	"sysex_byte":           midi.SysexByte,
}
