package midi

/*------------------------------------------------------------------
 *
 * Purpose:	Fixed-capacity single-producer/single-consumer ring
 *		buffers with the overflow policy spec.md §3 defines: Push
 *		on a full buffer silently drops the oldest element (pops
 *		one, then pushes). Correct callers avoid this by honoring
 *		IsReady before submitting input; it exists so the codec
 *		never has to allocate or fail on a full queue.
 *
 *------------------------------------------------------------------*/

// DefaultRingCapacity is the slot count both ring kinds use unless a
// caller constructs one with an explicit capacity.
const DefaultRingCapacity = 32

// ByteRing is a fixed-capacity ring buffer of bytes, used for the
// Encoder's two output queues.
type ByteRing struct {
	data     []byte
	beginIdx int
	endIdx   int
	full     bool
}

// NewByteRing allocates a ByteRing with the given capacity. Allocation
// happens once, at construction; Push/Pop/Peek never allocate.
func NewByteRing(capacity int) *ByteRing {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	return &ByteRing{data: make([]byte, capacity)}
}

func (r *ByteRing) IsEmpty() bool {
	return r.beginIdx == r.endIdx && !r.full
}

func (r *ByteRing) IsFull() bool {
	return r.full
}

func (r *ByteRing) Size() int {
	if r.IsEmpty() {
		return 0
	}
	if r.full {
		return len(r.data)
	}
	n := r.endIdx - r.beginIdx
	if n < 0 {
		n += len(r.data)
	}
	return n
}

func (r *ByteRing) SpaceAvailable() int {
	return len(r.data) - r.Size()
}

// Push appends b. If the ring is full, the oldest element is dropped
// first (spec.md §3 overflow policy).
func (r *ByteRing) Push(b byte) {
	if r.full {
		r.Pop()
	}
	r.data[r.endIdx] = b
	r.endIdx++
	if r.endIdx == len(r.data) {
		r.endIdx = 0
	}
	if r.endIdx == r.beginIdx {
		r.full = true
	}
}

// Pop removes and returns the oldest element. The ok result is false
// when the ring was empty, in which case the returned byte is zero.
func (r *ByteRing) Pop() (b byte, ok bool) {
	if r.IsEmpty() {
		return 0, false
	}
	b = r.data[r.beginIdx]
	r.beginIdx++
	if r.beginIdx == len(r.data) {
		r.beginIdx = 0
	}
	r.full = false
	return b, true
}

// Peek returns the oldest element without removing it.
func (r *ByteRing) Peek() (b byte, ok bool) {
	if r.IsEmpty() {
		return 0, false
	}
	return r.data[r.beginIdx], true
}

// MessageRing is a fixed-capacity ring buffer of Message values, used
// for the Decoder's two output queues.
type MessageRing struct {
	data     []Message
	beginIdx int
	endIdx   int
	full     bool
}

func NewMessageRing(capacity int) *MessageRing {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	return &MessageRing{data: make([]Message, capacity)}
}

func (r *MessageRing) IsEmpty() bool {
	return r.beginIdx == r.endIdx && !r.full
}

func (r *MessageRing) IsFull() bool {
	return r.full
}

func (r *MessageRing) Size() int {
	if r.IsEmpty() {
		return 0
	}
	if r.full {
		return len(r.data)
	}
	n := r.endIdx - r.beginIdx
	if n < 0 {
		n += len(r.data)
	}
	return n
}

func (r *MessageRing) SpaceAvailable() int {
	return len(r.data) - r.Size()
}

// Push appends m. If the ring is full, the oldest element is dropped
// first (spec.md §3 overflow policy).
func (r *MessageRing) Push(m Message) {
	if r.full {
		r.Pop()
	}
	r.data[r.endIdx] = m
	r.endIdx++
	if r.endIdx == len(r.data) {
		r.endIdx = 0
	}
	if r.endIdx == r.beginIdx {
		r.full = true
	}
}

func (r *MessageRing) Pop() (m Message, ok bool) {
	if r.IsEmpty() {
		return Message{}, false
	}
	m = r.data[r.beginIdx]
	r.beginIdx++
	if r.beginIdx == len(r.data) {
		r.beginIdx = 0
	}
	r.full = false
	return m, true
}

func (r *MessageRing) Peek() (m Message, ok bool) {
	if r.IsEmpty() {
		return Message{}, false
	}
	return r.data[r.beginIdx], true
}
