package zoom

// Arbiter states
const (
	// No gesture has committed in this touch sequence yet.
	ArbiterOpen ArbiterState = iota
	// A double tap won. Pan and pinch are ignored until the next sequence.
	ArbiterTapCommitted
	// Pan or pinch won. They run together and taps are ignored.
	ArbiterContinuousCommitted
)

type ArbiterState int

func (s ArbiterState) String() string {
	switch s {
	case ArbiterTapCommitted:
		return "tap"
	case ArbiterContinuousCommitted:
		return "continuous"
	}
	return "open"
}

// Arbiter resolves the race between a double tap and the simultaneous pair
// of pan and pinch. The first to commit in a touch sequence wins it.
type Arbiter struct {
	state   ArbiterState
	dropped uint
}

// Begin opens a new touch sequence.
func (arbiter *Arbiter) Begin() {
	arbiter.state = ArbiterOpen
}

func (arbiter *Arbiter) State() ArbiterState {
	return arbiter.state
}

// Dropped counts events refused since the arbiter was created.
func (arbiter *Arbiter) Dropped() uint {
	return arbiter.dropped
}

// Commit claims the sequence for kind and reports whether kind may act.
func (arbiter *Arbiter) Commit(kind GestureKind) bool {
	var want ArbiterState
	switch kind {
	case GestureTap:
		want = ArbiterTapCommitted
	case GesturePan, GesturePinch:
		want = ArbiterContinuousCommitted
	default:
		return true
	}

	if arbiter.state == ArbiterOpen {
		arbiter.state = want
	}
	if arbiter.state != want {
		arbiter.dropped++
		return false
	}
	return true
}
