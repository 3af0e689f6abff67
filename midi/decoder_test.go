package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func pushAll(t *testing.T, d *Decoder, bytes []byte) {
	t.Helper()
	for _, b := range bytes {
		require.True(t, d.IsReady(), "decoder should be ready before push_byte(0x%02X)", b)
		require.NoError(t, d.PushByte(b))
	}
}

func drainAll(d *Decoder) []Message {
	var out []Message
	for d.HasOutput() {
		m, ok := d.PopMessage()
		if !ok {
			break
		}
		out = append(out, m)
	}
	return out
}

func TestDecoder_NoteOnChannel2(t *testing.T) {
	d := NewDecoder(RealtimeFirst)
	pushAll(t, d, []byte{0x91, 60, 100})

	got := drainAll(d)
	require.Len(t, got, 1)
	assert.Equal(t, Message{Type: NoteOn, Channel: 2, NoteOn: NoteOnPayload{Note: 60, Velocity: 100}}, got[0])
}

func TestDecoder_RunningStatus(t *testing.T) {
	d := NewDecoder(RealtimeFirst)
	pushAll(t, d, []byte{0x91, 60, 100, 62, 90, 64, 0})

	got := drainAll(d)
	require.Len(t, got, 3)
	assert.Equal(t, NoteOnPayload{Note: 60, Velocity: 100}, got[0].NoteOn)
	assert.Equal(t, NoteOnPayload{Note: 62, Velocity: 90}, got[1].NoteOn)
	assert.Equal(t, NoteOnPayload{Note: 64, Velocity: 0}, got[2].NoteOn)
	for _, m := range got {
		assert.Equal(t, NoteOn, m.Type)
		assert.Equal(t, uint8(2), m.Channel)
	}
}

func TestDecoder_RealTimeMidMessage(t *testing.T) {
	d := NewDecoder(RealtimeFirst)
	pushAll(t, d, []byte{0x91, 60, 0xF8, 100})

	got := drainAll(d)
	require.Len(t, got, 2)
	// RealtimeFirst priority mode: the real-time message was queued to
	// the priority queue and is popped ahead of the main-queue NoteOn,
	// even though its wire byte arrived in the middle of NoteOn's bytes.
	assert.Equal(t, TimingClock, got[0].Type)
	assert.Equal(t, NoteOn, got[1].Type)
	assert.Equal(t, NoteOnPayload{Note: 60, Velocity: 100}, got[1].NoteOn)
}

func TestDecoder_PitchBendSigned(t *testing.T) {
	cases := []struct {
		bytes []byte
		want  int16
	}{
		{[]byte{0xE0, 0x00, 0x00}, -8192},
		{[]byte{0xE0, 0x00, 0x40}, 0},
		{[]byte{0xE0, 0x7F, 0x7F}, 8191},
	}
	for _, c := range cases {
		d := NewDecoder(RealtimeFirst)
		pushAll(t, d, c.bytes)
		got := drainAll(d)
		require.Len(t, got, 1)
		assert.Equal(t, PitchBend, got[0].Type)
		assert.Equal(t, uint8(1), got[0].Channel)
		assert.Equal(t, c.want, got[0].PitchBend.Value)
	}
}

func TestDecoder_SysexWithRealtimeInterruption(t *testing.T) {
	d := NewDecoder(RealtimeFirst)
	pushAll(t, d, []byte{0xF0, 0x08, 0x19, 0xF8, 0x2A, 0xF7})

	// The sysex bytes all land in the main queue in arrival order; the
	// TimingClock real-time byte lands in the priority queue, which
	// drains first under RealtimeFirst, so it is popped ahead of the
	// sysex content it was embedded in (same rule as scenario 3).
	got := drainAll(d)
	require.Len(t, got, 6)
	assert.Equal(t, TimingClock, got[0].Type)
	assert.Equal(t, SysexStart, got[1].Type)
	assert.Equal(t, SysexByte, got[2].Type)
	assert.Equal(t, SysexBytePayload{SequenceNumber: 0, Byte: 0x08}, got[2].SysexByte)
	assert.Equal(t, SysexByte, got[3].Type)
	assert.Equal(t, SysexBytePayload{SequenceNumber: 1, Byte: 0x19}, got[3].SysexByte)
	assert.Equal(t, SysexByte, got[4].Type)
	assert.Equal(t, SysexBytePayload{SequenceNumber: 2, Byte: 0x2A}, got[4].SysexByte)
	assert.Equal(t, SysexStop, got[5].Type)
	assert.Equal(t, SysexStopPayload{SequenceLength: 3, IsLengthOverflowed: false}, got[5].SysexStop)
}

func TestDecoder_SysexTruncatedByNonRealtimeStatus(t *testing.T) {
	d := NewDecoder(RealtimeFirst)
	// Open a sysex sequence, emit 2 bytes, then interrupt with a
	// NoteOn status byte instead of a proper SysexStop.
	pushAll(t, d, []byte{0xF0, 0x01, 0x02, 0x91, 60, 100})

	got := drainAll(d)
	require.Len(t, got, 5)
	assert.Equal(t, SysexStart, got[0].Type)
	assert.Equal(t, SysexByte, got[1].Type)
	assert.Equal(t, SysexByte, got[2].Type)
	assert.Equal(t, SysexStop, got[3].Type)
	assert.Equal(t, SysexStopPayload{SequenceLength: 2, IsLengthOverflowed: false}, got[3].SysexStop)
	assert.Equal(t, NoteOn, got[4].Type)
	assert.Equal(t, NoteOnPayload{Note: 60, Velocity: 100}, got[4].NoteOn)
}

func TestDecoder_RepeatedSysexStopIsIgnored(t *testing.T) {
	d := NewDecoder(RealtimeFirst)
	pushAll(t, d, []byte{0xF0, 0x01, 0xF7, 0xF7})

	got := drainAll(d)
	require.Len(t, got, 3) // Start, 1 byte, Stop -- the second Stop is a no-op.
	assert.Equal(t, SysexStop, got[2].Type)
}

func TestDecoder_ReservedSystemSubtypesAreIgnored(t *testing.T) {
	d := NewDecoder(RealtimeFirst)
	for _, reserved := range []byte{0xF4, 0xF5, 0xFC, 0xFD} {
		pushAll(t, d, []byte{reserved})
	}
	assert.False(t, d.HasOutput())
}

func TestDecoder_SystemResetClearsRunningStatus(t *testing.T) {
	d := NewDecoder(RealtimeFirst)
	pushAll(t, d, []byte{0x91, 60, 100, 0xFF, 62, 90})

	got := drainAll(d)
	// After SystemReset (0xFF), running status is cleared, so the
	// trailing data bytes 62, 90 are unparsable and dropped. SystemReset
	// itself went to the priority queue, which drains before the main
	// queue's already-completed NoteOn.
	require.Len(t, got, 2)
	assert.Equal(t, SystemReset, got[0].Type)
	assert.Equal(t, NoteOn, got[1].Type)
}

func TestDecoder_MtcQuarterFrame(t *testing.T) {
	d := NewDecoder(RealtimeFirst)
	pushAll(t, d, []byte{0xF1, 0b0011_1010})

	got := drainAll(d)
	require.Len(t, got, 1)
	assert.Equal(t, MtcQuarterFrame, got[0].Type)
	assert.Equal(t, MtcQuarterFramePayload{FrameType: 3, Value: 10}, got[0].MtcQuarterFrame)
}

func TestDecoder_SongPositionPointer(t *testing.T) {
	d := NewDecoder(RealtimeFirst)
	pushAll(t, d, []byte{0xF2, 0x7F, 0x01})

	got := drainAll(d)
	require.Len(t, got, 1)
	assert.Equal(t, SongPositionPointer, got[0].Type)
	assert.Equal(t, uint16(0x7F|(0x01<<7)), got[0].SongPositionPointer.Value)
}

func TestDecoder_NotReadyWhenOutputQueuesAreTight(t *testing.T) {
	d := NewDecoder(RealtimeFirst)
	for i := 0; i < DefaultRingCapacity; i++ {
		require.NoError(t, d.PushByte(0xF8)) // TimingClock, fills priority queue
	}
	assert.False(t, d.IsReady())
	err := d.PushByte(0xF8)
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, NotReady, kind)
}

// Property P5: for any sequence of arbitrary bytes fed while respecting
// readiness between pushes, every PushByte succeeds and HasOutput/
// PopMessage never panics.
func TestDecoder_RobustAgainstArbitraryBytes(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := NewDecoder(RealtimeFirst)
		bytes := rapid.SliceOf(rapid.Byte()).Draw(t, "bytes")

		for _, b := range bytes {
			for !d.IsReady() {
				_, ok := d.PopMessage()
				if !ok {
					break
				}
			}
			require.NoError(t, d.PushByte(b))
		}

		for d.HasOutput() {
			_, ok := d.PopMessage()
			require.True(t, ok)
		}
	})
}

// Property P3/P4: within one sysex sequence, SysexByte sequence
// numbers start at 0 and increase by exactly 1, and the closing
// SysexStop's length matches the count. Payloads here stay far below
// the 0x7FFF saturation point, so the overflow flag must stay clear.
// Messages popped to restore readiness are kept and checked too.
func TestDecoder_SysexSequenceNumbersAndLength(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(t, "n")
		payload := rapid.SliceOfN(rapid.Byte(), n, n).Draw(t, "payload")

		d := NewDecoder(RealtimeFirst)
		var got []Message
		require.NoError(t, d.PushByte(0xF0))
		for _, b := range payload {
			dataByte := b & 0x7F // keep it a data byte
			for !d.IsReady() {
				m, _ := d.PopMessage()
				got = append(got, m)
			}
			require.NoError(t, d.PushByte(dataByte))
		}
		for !d.IsReady() {
			m, _ := d.PopMessage()
			got = append(got, m)
		}
		require.NoError(t, d.PushByte(0xF7))

		got = append(got, drainAll(d)...)
		require.Len(t, got, n+2)
		assert.Equal(t, SysexStart, got[0].Type)
		for i := 0; i < n; i++ {
			require.Equal(t, SysexByte, got[i+1].Type)
			assert.Equal(t, uint32(i), got[i+1].SysexByte.SequenceNumber)
		}
		stop := got[n+1]
		assert.Equal(t, SysexStop, stop.Type)
		assert.Equal(t, uint16(n), stop.SysexStop.SequenceLength)
		assert.False(t, stop.SysexStop.IsLengthOverflowed)
	})
}
