package midi

/*------------------------------------------------------------------
 *
 * Purpose:	Bit-exact MIDI 1.0 status byte layout (spec.md §6), shared
 *		by the Decoder and Encoder so the wire format is defined
 *		in exactly one place.
 *
 *------------------------------------------------------------------*/

const statusBit = 0x80

func isStatus(b byte) bool {
	return b&statusBit != 0
}

// channelVoiceKind describes a recognized "1ttt cccc" status byte.
type channelVoiceKind struct {
	msgType MessageType
	channel uint8
}

var channelVoiceTypeByTTT = [7]MessageType{
	NoteOff, NoteOn, AftertouchPoly, ControlChange, ProgramChange, AftertouchMono, PitchBend,
}

func channelVoiceStatusKind(b byte) (channelVoiceKind, bool) {
	if !isStatus(b) {
		return channelVoiceKind{}, false
	}
	ttt := (b >> 4) & 0x7
	if ttt == 0x7 {
		return channelVoiceKind{}, false // system message, not channel voice
	}
	return channelVoiceKind{
		msgType: channelVoiceTypeByTTT[ttt],
		channel: (b & 0xF) + 1,
	}, true
}

// statusByteForChannelVoice builds the "1ttt cccc" status byte for a
// channel-voice message type and channel in [1,16].
func statusByteForChannelVoice(t MessageType, channel uint8) byte {
	var ttt byte
	switch t {
	case NoteOff:
		ttt = 0
	case NoteOn:
		ttt = 1
	case AftertouchPoly:
		ttt = 2
	case ControlChange:
		ttt = 3
	case ProgramChange:
		ttt = 4
	case AftertouchMono:
		ttt = 5
	case PitchBend:
		ttt = 6
	}
	return statusBit | (ttt << 4) | ((channel - 1) & 0xF)
}

// systemStatusKind describes a recognized "1111 ssss" status byte.
type systemStatusKind struct {
	msgType    MessageType
	isRealTime bool
}

func systemStatusKindOf(b byte) (kind systemStatusKind, ok bool) {
	if !isStatus(b) {
		return systemStatusKind{}, false
	}
	if (b>>4)&0x7 != 0x7 {
		return systemStatusKind{}, false // channel voice, not system
	}
	switch b & 0xF {
	case 0x0:
		return systemStatusKind{msgType: SysexStart}, true
	case 0x1:
		return systemStatusKind{msgType: MtcQuarterFrame}, true
	case 0x2:
		return systemStatusKind{msgType: SongPositionPointer}, true
	case 0x3:
		return systemStatusKind{msgType: SongSelect}, true
	case 0x6:
		return systemStatusKind{msgType: TuneRequest}, true
	case 0x7:
		return systemStatusKind{msgType: SysexStop}, true
	case 0x8:
		return systemStatusKind{msgType: TimingClock, isRealTime: true}, true
	case 0x9:
		return systemStatusKind{msgType: Start, isRealTime: true}, true
	case 0xA:
		return systemStatusKind{msgType: Continue, isRealTime: true}, true
	case 0xB:
		return systemStatusKind{msgType: Stop, isRealTime: true}, true
	case 0xE:
		return systemStatusKind{msgType: ActiveSensing, isRealTime: true}, true
	case 0xF:
		return systemStatusKind{msgType: SystemReset, isRealTime: true}, true
	default:
		// 0x4, 0x5, 0xC, 0xD: reserved, undefined by MIDI 1.0. Ignored
		// per spec.md's open question, never synthesized.
		return systemStatusKind{}, false
	}
}

func isSysexStopByte(b byte) bool {
	k, ok := systemStatusKindOf(b)
	return ok && k.msgType == SysexStop
}

// statusByteForSystem builds the "1111 ssss" status byte for a
// system-common or real-time message type.
func statusByteForSystem(t MessageType) byte {
	var ssss byte
	switch t {
	case SysexStart:
		ssss = 0x0
	case MtcQuarterFrame:
		ssss = 0x1
	case SongPositionPointer:
		ssss = 0x2
	case SongSelect:
		ssss = 0x3
	case TuneRequest:
		ssss = 0x6
	case SysexStop:
		ssss = 0x7
	case TimingClock:
		ssss = 0x8
	case Start:
		ssss = 0x9
	case Continue:
		ssss = 0xA
	case Stop:
		ssss = 0xB
	case ActiveSensing:
		ssss = 0xE
	case SystemReset:
		ssss = 0xF
	}
	return statusBit | 0x70 | ssss
}
