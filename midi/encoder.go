package midi

/*------------------------------------------------------------------
 *
 * Purpose:	Message to byte-stream state machine: the mirror image of
 *		Decoder. Compresses consecutive same-type, same-channel
 *		channel-voice messages with running status, and routes
 *		real-time messages to a separate priority byte queue so
 *		they can reach the wire ahead of whatever is still queued
 *		in the main byte queue.
 *
 *------------------------------------------------------------------*/

type encoderState int

const (
	encIdle encoderState = iota
	encRunningStatus
)

// MaxGeneratedPerMessage is the most bytes a single PushMessage call
// can enqueue to the main queue: a channel-voice status byte plus two
// data bytes.
const MaxGeneratedPerMessage = 3

// Encoder turns Messages into MIDI 1.0 bytes. Like Decoder, it
// allocates only at construction.
type Encoder struct {
	prioMode PriorityMode

	main *ByteRing
	prio *ByteRing

	state          encoderState
	runningType    MessageType
	runningChannel uint8

	inSysex bool
}

func NewEncoder(prioMode PriorityMode) *Encoder {
	e := &Encoder{
		main: NewByteRing(DefaultRingCapacity),
		prio: NewByteRing(DefaultRingCapacity),
	}
	e.Init()
	e.prioMode = prioMode
	return e
}

func (e *Encoder) Init() {
	e.main = NewByteRing(DefaultRingCapacity)
	e.prio = NewByteRing(DefaultRingCapacity)
	e.state = encIdle
	e.runningType = 0
	e.runningChannel = 0
	e.inSysex = false
}

func (e *Encoder) SetPriorityMode(mode PriorityMode) {
	e.prioMode = mode
}

func (e *Encoder) IsReady() bool {
	return e.main.SpaceAvailable() >= MaxGeneratedPerMessage && !e.prio.IsFull()
}

func (e *Encoder) HasOutput() bool {
	return !e.prio.IsEmpty() || !e.main.IsEmpty()
}

func (e *Encoder) PeekByte() (byte, bool) {
	if !e.prio.IsEmpty() {
		return e.prio.Peek()
	}
	return e.main.Peek()
}

func (e *Encoder) PopByte() (byte, bool) {
	if !e.prio.IsEmpty() {
		return e.prio.Pop()
	}
	return e.main.Pop()
}

// PushMessage validates m, then enqueues its wire encoding. Real-time
// messages always go to the priority queue; everything else goes to
// the main queue. Returns InvalidArgument if m is structurally
// malformed, or NotReady if the caller ignored IsReady.
func (e *Encoder) PushMessage(m Message) error {
	if err := validateMessage(m); err != nil {
		return err
	}
	if !e.IsReady() {
		return newErr(NotReady, "encoder output queues have insufficient room")
	}

	if m.Type.IsRealTime() {
		e.pushRealTime(m)
		return nil
	}

	if m.Type.IsChannelVoice() {
		e.pushChannelVoice(m)
		return nil
	}

	return e.pushSystemOrSysex(m)
}

// pushRealTime routes a real-time message to the priority queue.
// SystemReset additionally resets running status and the encoder's
// primary state: a receiver that sees SystemReset resets its own
// parser and would otherwise mis-parse subsequent running-status data
// bytes.
func (e *Encoder) pushRealTime(m Message) {
	if m.Type == SystemReset {
		e.state = encIdle
		e.runningType = 0
		e.runningChannel = 0
	}
	e.prio.Push(statusByteForSystem(m.Type))
}

func (e *Encoder) pushChannelVoice(m Message) {
	sameRunningStatus := e.state == encRunningStatus && e.runningType == m.Type && e.runningChannel == m.Channel
	if !sameRunningStatus {
		e.main.Push(statusByteForChannelVoice(m.Type, m.Channel))
		e.state = encRunningStatus
		e.runningType = m.Type
		e.runningChannel = m.Channel
	}
	e.pushChannelVoiceDataBytes(m)
}

func (e *Encoder) pushChannelVoiceDataBytes(m Message) {
	switch m.Type {
	case NoteOff:
		e.main.Push(m.NoteOff.Note)
		e.main.Push(m.NoteOff.Velocity)
	case NoteOn:
		e.main.Push(m.NoteOn.Note)
		e.main.Push(m.NoteOn.Velocity)
	case AftertouchPoly:
		e.main.Push(m.AftertouchPoly.Note)
		e.main.Push(m.AftertouchPoly.Value)
	case ControlChange:
		e.main.Push(m.ControlChange.Control)
		e.main.Push(m.ControlChange.Value)
	case ProgramChange:
		e.main.Push(m.ProgramChange.ProgramID)
	case AftertouchMono:
		e.main.Push(m.AftertouchMono.Value)
	case PitchBend:
		lsb, msb := pitchBendToWire(m.PitchBend.Value)
		e.main.Push(lsb)
		e.main.Push(msb)
	}
}

// pushSystemOrSysex handles system-common messages and the sysex
// trio (SysexStart/SysexByte/SysexStop). Any of these terminates
// running status; sysex payload bytes carry no status byte of their
// own and don't touch the running-status state.
func (e *Encoder) pushSystemOrSysex(m Message) error {
	switch m.Type {
	case SysexStart:
		e.main.Push(statusByteForSystem(SysexStart))
		e.inSysex = true
		e.state = encIdle
	case SysexStop:
		e.main.Push(statusByteForSystem(SysexStop))
		e.inSysex = false
		e.state = encIdle
	case SysexByte:
		// A SysexByte pushed outside a started sequence still emits
		// its raw byte, but does not itself open a sysex sequence.
		e.main.Push(m.SysexByte.Byte)
	case MtcQuarterFrame:
		e.main.Push(statusByteForSystem(MtcQuarterFrame))
		e.main.Push(mtcQuarterFrameToWire(m.MtcQuarterFrame.FrameType, m.MtcQuarterFrame.Value))
		e.state = encIdle
	case SongPositionPointer:
		e.main.Push(statusByteForSystem(SongPositionPointer))
		lsb, msb := songPositionToWire(m.SongPositionPointer.Value)
		e.main.Push(lsb)
		e.main.Push(msb)
		e.state = encIdle
	case SongSelect:
		e.main.Push(statusByteForSystem(SongSelect))
		e.main.Push(m.SongSelect.Value)
		e.state = encIdle
	case TuneRequest:
		e.main.Push(statusByteForSystem(TuneRequest))
		e.state = encIdle
	default:
		return newErr(InvalidArgument, "unknown message type")
	}
	return nil
}

func validateMessage(m Message) error {
	if m.Type.IsChannelVoice() {
		return validateChannelVoice(m)
	}
	return validateSystemOrSysex(m)
}

func validateChannelVoice(m Message) error {
	if !isValidChannel(int(m.Channel)) {
		return newErr(InvalidArgument, "channel out of range [1,16]")
	}
	var ok bool
	switch m.Type {
	case NoteOff:
		ok = isValidU7(m.NoteOff.Note) && isValidU7(m.NoteOff.Velocity)
	case NoteOn:
		ok = isValidU7(m.NoteOn.Note) && isValidU7(m.NoteOn.Velocity)
	case AftertouchPoly:
		ok = isValidU7(m.AftertouchPoly.Note) && isValidU7(m.AftertouchPoly.Value)
	case ControlChange:
		ok = isValidU7(m.ControlChange.Control) && isValidU7(m.ControlChange.Value)
	case ProgramChange:
		ok = isValidU7(m.ProgramChange.ProgramID)
	case AftertouchMono:
		ok = isValidU7(m.AftertouchMono.Value)
	case PitchBend:
		ok = isValidPitchBend(m.PitchBend.Value)
	}
	if !ok {
		return newErr(InvalidArgument, "data byte out of range [0,127]")
	}
	return nil
}

func validateSystemOrSysex(m Message) error {
	switch m.Type {
	case SysexStart, TuneRequest, SysexStop, TimingClock, Start, Continue, Stop, ActiveSensing, SystemReset:
		return nil
	case MtcQuarterFrame:
		if m.MtcQuarterFrame.FrameType > frameTypeMax || m.MtcQuarterFrame.Value > frameValueMax {
			return newErr(InvalidArgument, "MtcQuarterFrame field out of range")
		}
	case SongPositionPointer:
		if !isValidSongPosition(m.SongPositionPointer.Value) {
			return newErr(InvalidArgument, "SongPositionPointer value out of range [0,0x3FFF]")
		}
	case SongSelect:
		if !isValidU7(m.SongSelect.Value) {
			return newErr(InvalidArgument, "SongSelect value out of range [0,127]")
		}
	case SysexByte:
		if !isValidU7(m.SysexByte.Byte) {
			return newErr(InvalidArgument, "SysexByte value out of range [0,127]")
		}
	default:
		return newErr(InvalidArgument, "unknown message type")
	}
	return nil
}
