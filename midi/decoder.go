package midi

/*------------------------------------------------------------------
 *
 * Purpose:	Byte-stream to message state machine.
 *
 * Description:	Tracks two mostly-independent pieces of state: the
 *		"primary" state (idle, or awaiting the first/second data
 *		byte of a channel-voice or system-common message under
 *		running status) and a boolean sysex flag with its own byte
 *		counter. Real-time status bytes are recognized and emitted
 *		from any primary state without disturbing either one,
 *		except SystemReset which also resets running status and
 *		the primary state.
 *
 *		A single incoming byte can produce up to two messages: if
 *		a non-real-time, non-stop status byte arrives while a
 *		sysex sequence is open, the open sequence is first closed
 *		with a synthetic SysexStop, and then the byte is processed
 *		from the idle state. Re-dispatching a status byte that
 *		aborted an in-progress message is modeled as an explicit
 *		loop with a reprocess flag, not recursion.
 *
 *------------------------------------------------------------------*/

type decoderPrimaryState int

const (
	decIdle decoderPrimaryState = iota
	decExpectData1              // channel voice, running status in runningType/runningChannel
	decExpectData2              // channel voice, data1 already captured
	decExpectData1SPP
	decExpectData2SPP
	decExpectData1MTC
	decExpectData1SongSelect
)

// MaxGeneratedPerByte is the most messages a single PushByte call can
// enqueue: the sysex-truncation case emits a synthetic SysexStop and
// then the reprocessed byte's own message.
const MaxGeneratedPerByte = 2

// Decoder turns a MIDI 1.0 byte stream into Messages. It allocates
// only at construction; PushByte and the consumer-side operations are
// O(1) and allocation-free.
type Decoder struct {
	prioMode PriorityMode

	main *MessageRing
	prio *MessageRing

	state          decoderPrimaryState
	runningType    MessageType
	runningChannel uint8
	data1          byte

	inSysex      bool
	sysexCounter uint32
}

// NewDecoder constructs a Decoder with the default ring capacity.
func NewDecoder(prioMode PriorityMode) *Decoder {
	d := &Decoder{
		main: NewMessageRing(DefaultRingCapacity),
		prio: NewMessageRing(DefaultRingCapacity),
	}
	d.Init(prioMode)
	return d
}

// Init resets all state, as if the Decoder were newly constructed.
func (d *Decoder) Init(prioMode PriorityMode) {
	d.prioMode = prioMode
	d.main = NewMessageRing(DefaultRingCapacity)
	d.prio = NewMessageRing(DefaultRingCapacity)
	d.resetParseState()
}

func (d *Decoder) resetParseState() {
	d.state = decIdle
	d.runningType = 0
	d.runningChannel = 0
	d.data1 = 0
	d.inSysex = false
	d.sysexCounter = 0
}

func (d *Decoder) SetPriorityMode(mode PriorityMode) {
	d.prioMode = mode
}

// IsReady reports whether a byte may safely be pushed: the main queue
// must have room for MaxGeneratedPerByte messages and the priority
// queue must not be full.
func (d *Decoder) IsReady() bool {
	return d.main.SpaceAvailable() >= MaxGeneratedPerByte && !d.prio.IsFull()
}

func (d *Decoder) HasOutput() bool {
	return !d.prio.IsEmpty() || !d.main.IsEmpty()
}

// PeekMessage returns the next message that PopMessage would return,
// without removing it. The priority queue always drains first when
// non-empty (spec.md §4.3/§9: the two PriorityMode values differ only
// in name).
func (d *Decoder) PeekMessage() (Message, bool) {
	if !d.prio.IsEmpty() {
		return d.prio.Peek()
	}
	return d.main.Peek()
}

func (d *Decoder) PopMessage() (Message, bool) {
	if !d.prio.IsEmpty() {
		return d.prio.Pop()
	}
	return d.main.Pop()
}

// PushByte feeds one byte into the decoder. It may enqueue zero, one,
// or two messages. It fails only on the NotReady precondition; no byte
// content ever produces an error (spec.md §7).
func (d *Decoder) PushByte(b byte) error {
	if !d.IsReady() {
		return newErr(NotReady, "decoder output queues have insufficient room")
	}

	if isStatus(b) {
		if st, ok := systemStatusKindOf(b); ok && st.isRealTime {
			d.handleRealTime(st.msgType)
			return nil
		}
	}

	reprocess := true
	for reprocess {
		reprocess = d.step(b)
	}
	return nil
}

// handleRealTime emits a real-time message to the priority queue
// without disturbing primary/sysex state, except SystemReset which
// also clears running status and the primary state.
func (d *Decoder) handleRealTime(t MessageType) {
	if t == SystemReset {
		d.state = decIdle
		d.runningType = 0
		d.runningChannel = 0
	}
	d.prio.Push(Message{Type: t})
}

// step advances the primary state machine by one byte. If the byte is a
// non-stop status byte and a sysex sequence is open, the sequence is
// closed first and the byte is then dispatched in the same call. It
// returns true when the byte must be reprocessed against the just-reset
// idle state because an in-progress message was aborted by a new
// status byte.
func (d *Decoder) step(b byte) bool {
	if isStatus(b) && d.inSysex && !isSysexStopByte(b) {
		d.emitSyntheticSysexStop()
	}

	switch d.state {
	case decIdle:
		d.stepIdle(b)
		return false
	case decExpectData1:
		return d.stepExpectData1(b)
	case decExpectData2:
		return d.stepExpectData2(b)
	case decExpectData1SPP:
		return d.stepExpectData1SPP(b)
	case decExpectData2SPP:
		return d.stepExpectData2SPP(b)
	case decExpectData1MTC:
		return d.stepExpectData1MTC(b)
	case decExpectData1SongSelect:
		return d.stepExpectData1SongSelect(b)
	default:
		d.state = decIdle
		return false
	}
}

func (d *Decoder) stepIdle(b byte) {
	if isDataByte(b) {
		if d.inSysex {
			d.emitSysexByte(b)
		}
		// Stray data byte outside a sysex sequence and without running
		// status: nothing to attach it to, ignore.
		return
	}

	if cv, ok := channelVoiceStatusKind(b); ok {
		d.runningType = cv.msgType
		d.runningChannel = cv.channel
		d.state = decExpectData1
		return
	}

	st, ok := systemStatusKindOf(b)
	if !ok {
		return // reserved/undefined subtype: ignore
	}

	switch st.msgType {
	case SongPositionPointer:
		d.state = decExpectData1SPP
	case MtcQuarterFrame:
		d.state = decExpectData1MTC
	case SongSelect:
		d.state = decExpectData1SongSelect
	case TuneRequest:
		d.main.Push(Message{Type: TuneRequest})
	case SysexStart:
		d.main.Push(Message{Type: SysexStart})
		d.inSysex = true
		d.sysexCounter = 0
	case SysexStop:
		if d.inSysex {
			d.emitSyntheticSysexStop()
		}
		// Sysex stop with no open sequence: ignore (spec.md open question).
	default:
		// Real-time bytes are intercepted in PushByte before reaching
		// here; anything else is not a status byte we recognize.
	}
}

func (d *Decoder) stepExpectData1(b byte) (reprocess bool) {
	if !isDataByte(b) {
		d.state = decIdle
		return true
	}

	if channelVoiceTypeNeedsTwoDataBytes(d.runningType) {
		d.data1 = b
		d.state = decExpectData2
		return false
	}

	d.main.Push(d.completeOneByteChannelMessage(b))
	d.state = decExpectData1 // running status: ready for another
	return false
}

func (d *Decoder) stepExpectData2(b byte) (reprocess bool) {
	if !isDataByte(b) {
		d.state = decIdle
		return true
	}

	d.main.Push(d.completeTwoByteChannelMessage(d.data1, b))
	d.state = decExpectData1
	return false
}

func (d *Decoder) stepExpectData1SPP(b byte) (reprocess bool) {
	if !isDataByte(b) {
		d.state = decIdle
		return true
	}
	d.data1 = b
	d.state = decExpectData2SPP
	return false
}

func (d *Decoder) stepExpectData2SPP(b byte) (reprocess bool) {
	if !isDataByte(b) {
		d.state = decIdle
		return true
	}
	d.main.Push(Message{
		Type:                SongPositionPointer,
		SongPositionPointer: SongPositionPointerPayload{Value: songPositionFromWire(d.data1, b)},
	})
	d.state = decIdle
	return false
}

func (d *Decoder) stepExpectData1MTC(b byte) (reprocess bool) {
	if !isDataByte(b) {
		d.state = decIdle
		return true
	}
	frameType, value := mtcQuarterFrameFromWire(b)
	d.main.Push(Message{
		Type:            MtcQuarterFrame,
		MtcQuarterFrame: MtcQuarterFramePayload{FrameType: frameType, Value: value},
	})
	d.state = decIdle
	return false
}

func (d *Decoder) stepExpectData1SongSelect(b byte) (reprocess bool) {
	if !isDataByte(b) {
		d.state = decIdle
		return true
	}
	d.main.Push(Message{Type: SongSelect, SongSelect: SongSelectPayload{Value: b}})
	d.state = decIdle
	return false
}

func (d *Decoder) completeOneByteChannelMessage(b byte) Message {
	m := channelVoiceMessage(d.runningType, d.runningChannel)
	switch d.runningType {
	case ProgramChange:
		m.ProgramChange = ProgramChangePayload{ProgramID: b}
	case AftertouchMono:
		m.AftertouchMono = AftertouchMonoPayload{Value: b}
	}
	return m
}

func (d *Decoder) completeTwoByteChannelMessage(data1, data2 byte) Message {
	m := channelVoiceMessage(d.runningType, d.runningChannel)
	switch d.runningType {
	case NoteOff:
		m.NoteOff = NoteOffPayload{Note: data1, Velocity: data2}
	case NoteOn:
		m.NoteOn = NoteOnPayload{Note: data1, Velocity: data2}
	case AftertouchPoly:
		m.AftertouchPoly = AftertouchPolyPayload{Note: data1, Value: data2}
	case ControlChange:
		m.ControlChange = ControlChangePayload{Control: data1, Value: data2}
	case PitchBend:
		m.PitchBend = PitchBendPayload{Value: pitchBendFromWire(data1, data2)}
	}
	return m
}

func (d *Decoder) emitSysexByte(b byte) {
	d.main.Push(Message{
		Type:      SysexByte,
		SysexByte: SysexBytePayload{SequenceNumber: d.sysexCounter, Byte: b},
	})
	d.sysexCounter++
}

func (d *Decoder) emitSyntheticSysexStop() {
	length, overflowed := saturateSysexLength(d.sysexCounter)
	d.main.Push(Message{
		Type:      SysexStop,
		SysexStop: SysexStopPayload{SequenceLength: length, IsLengthOverflowed: overflowed},
	})
	d.inSysex = false
}

func channelVoiceTypeNeedsTwoDataBytes(t MessageType) bool {
	switch t {
	case NoteOff, NoteOn, AftertouchPoly, ControlChange, PitchBend:
		return true
	default:
		return false
	}
}
