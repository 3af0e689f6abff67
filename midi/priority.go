package midi

/*------------------------------------------------------------------
 *
 * Purpose:	The mode selector for the two-queue priority arbitration
 *		that Decoder and Encoder each implement: a main queue for
 *		ordinary traffic and a priority queue that real-time events
 *		bypass it through. This file holds only the enum; the
 *		draining logic is in decoder.go and encoder.go. spec.md §9
 *		notes the two PriorityMode values are cosmetic: both drain
 *		the priority queue first. The enum is kept anyway for API
 *		compatibility with callers that select a mode explicitly.
 *
 *------------------------------------------------------------------*/

// PriorityMode selects how the priority and main queues are drained.
// Per spec.md §4.3/§9 both values behave identically: the priority
// queue always drains first when non-empty.
type PriorityMode int

const (
	Fifo PriorityMode = iota
	RealtimeFirst
)

func (m PriorityMode) String() string {
	switch m {
	case Fifo:
		return "Fifo"
	case RealtimeFirst:
		return "RealtimeFirst"
	default:
		return "UnknownPriorityMode"
	}
}
