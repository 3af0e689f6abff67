// Package midi is a bidirectional streaming codec for the MIDI 1.0
// wire protocol: a Decoder (bytes to messages) and an Encoder
// (messages to bytes) sharing a common message model, built around
// fixed-capacity ring buffers so both run allocation-free after
// construction. Pretty-printing, note-name tables, and any physical
// transport are deliberately out of scope; this package only knows
// about bytes and messages.
package midi

/*------------------------------------------------------------------
 *
 * Purpose:	The message model: a closed, tagged union over every MIDI
 *		1.0 message kind the codec understands, plus the two
 *		synthetic kinds the decoder alone emits (SysexByte,
 *		SysexStop). Modeled as a flat value type with one field per
 *		payload kind rather than an interface, so a Message can sit
 *		in a ring buffer slot with no heap allocation and supports
 *		plain == comparison.
 *
 *------------------------------------------------------------------*/

// MessageType is the tag of the Message sum type.
type MessageType uint8

const (
	// Channel-voice kinds. Each carries a Channel in [1,16].
	NoteOff MessageType = iota
	NoteOn
	AftertouchPoly
	ControlChange
	ProgramChange
	AftertouchMono
	PitchBend

	// System-common kinds.
	SysexStart
	MtcQuarterFrame
	SongPositionPointer
	SongSelect
	TuneRequest
	SysexStop

	// System real-time kinds. No channel, no payload.
	TimingClock
	Start
	Continue
	Stop
	ActiveSensing
	SystemReset

	// Non-standard synthetic kind, emitted only by the Decoder for
	// each data byte inside an open sysex sequence.
	SysexByte
)

func (t MessageType) String() string {
	switch t {
	case NoteOff:
		return "NoteOff"
	case NoteOn:
		return "NoteOn"
	case AftertouchPoly:
		return "AftertouchPoly"
	case ControlChange:
		return "ControlChange"
	case ProgramChange:
		return "ProgramChange"
	case AftertouchMono:
		return "AftertouchMono"
	case PitchBend:
		return "PitchBend"
	case SysexStart:
		return "SysexStart"
	case MtcQuarterFrame:
		return "MtcQuarterFrame"
	case SongPositionPointer:
		return "SongPositionPointer"
	case SongSelect:
		return "SongSelect"
	case TuneRequest:
		return "TuneRequest"
	case SysexStop:
		return "SysexStop"
	case TimingClock:
		return "TimingClock"
	case Start:
		return "Start"
	case Continue:
		return "Continue"
	case Stop:
		return "Stop"
	case ActiveSensing:
		return "ActiveSensing"
	case SystemReset:
		return "SystemReset"
	case SysexByte:
		return "SysexByte"
	default:
		return "Unknown"
	}
}

// IsChannelVoice reports whether t carries a Channel.
func (t MessageType) IsChannelVoice() bool {
	return t <= PitchBend
}

// IsRealTime reports whether t is a single-byte system real-time kind.
func (t MessageType) IsRealTime() bool {
	switch t {
	case TimingClock, Start, Continue, Stop, ActiveSensing, SystemReset:
		return true
	default:
		return false
	}
}

// Payload types. Every field is in the data-byte domain [0,127] unless
// noted otherwise.

type NoteOffPayload struct {
	Note     uint8
	Velocity uint8
}

type NoteOnPayload struct {
	Note     uint8
	Velocity uint8
}

type AftertouchPolyPayload struct {
	Note  uint8
	Value uint8
}

type ControlChangePayload struct {
	Control uint8
	Value   uint8
}

type ProgramChangePayload struct {
	ProgramID uint8
}

type AftertouchMonoPayload struct {
	Value uint8
}

// PitchBendPayload's Value is zero-centered, in [-8192, 8191].
type PitchBendPayload struct {
	Value int16
}

// MtcQuarterFramePayload's FrameType is in [0,7], Value in [0,15].
type MtcQuarterFramePayload struct {
	FrameType uint8
	Value     uint8
}

// SongPositionPointerPayload's Value is a 14-bit position.
type SongPositionPointerPayload struct {
	Value uint16
}

type SongSelectPayload struct {
	Value uint8
}

// SysexBytePayload is synthetic: one data byte of an open sysex
// sequence, with the decoder's monotonically increasing sequence number.
type SysexBytePayload struct {
	SequenceNumber uint32
	Byte           uint8
}

// SysexStopPayload is synthetic: emitted when a sysex stop byte closes
// a sequence. SequenceLength saturates at 0x7FFF with IsLengthOverflowed
// set when the true count exceeded it.
type SysexStopPayload struct {
	SequenceLength     uint16
	IsLengthOverflowed bool
}

// Message is a value type: constructed by the Decoder or by the
// producer, copied into ring buffers, consumed by value. There is no
// shared ownership and no reference crosses the codec boundary.
type Message struct {
	Type    MessageType
	Channel uint8 // 1..16, meaningful only when Type.IsChannelVoice()

	NoteOff             NoteOffPayload
	NoteOn              NoteOnPayload
	AftertouchPoly      AftertouchPolyPayload
	ControlChange       ControlChangePayload
	ProgramChange       ProgramChangePayload
	AftertouchMono      AftertouchMonoPayload
	PitchBend           PitchBendPayload
	MtcQuarterFrame     MtcQuarterFramePayload
	SongPositionPointer SongPositionPointerPayload
	SongSelect          SongSelectPayload
	SysexByte           SysexBytePayload
	SysexStop           SysexStopPayload
}

// Equal performs a full structural comparison. Since Message carries no
// slices or pointers, this is exactly what == would do; Equal exists so
// callers don't need to know that.
func (m Message) Equal(other Message) bool {
	return m == other
}

func channelVoiceMessage(t MessageType, channel uint8) Message {
	return Message{Type: t, Channel: channel}
}
