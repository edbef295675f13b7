package zoom

import "fmt"

type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureTap
	GesturePan
	GesturePinch
)

func (k GestureKind) String() string {
	switch k {
	case GestureTap:
		return "tap"
	case GesturePan:
		return "pan"
	case GesturePinch:
		return "pinch"
	}
	return "none"
}

// GesturePhase is the lifecycle position of a continuous gesture event.
type GesturePhase int

const (
	GestureBegan GesturePhase = iota
	GestureChanged
	GestureEnded
)

func (p GesturePhase) String() string {
	switch p {
	case GestureBegan:
		return "began"
	case GestureChanged:
		return "changed"
	case GestureEnded:
		return "ended"
	}
	return fmt.Sprintf("GesturePhase(%d)", int(p))
}

// Event is delivered by a gesture recognizer to a Handler.
type Event interface {
	Kind() GestureKind
}

// SequenceBegin marks the first pointer down of a touch sequence.
type SequenceBegin struct{}

func (SequenceBegin) Kind() GestureKind { return GestureNone }

// PinchEvent carries the span ratio since the pinch began.
type PinchEvent struct {
	Phase GesturePhase
	Scale float64
	Focal Vector
}

func (PinchEvent) Kind() GestureKind { return GesturePinch }

// PanEvent carries the translation since the pan began and, on end, the
// release velocity in units per second.
type PanEvent struct {
	Phase       GesturePhase
	Translation Vector
	Velocity    Vector
}

func (PanEvent) Kind() GestureKind { return GesturePan }

// TapEvent is a recognized multi-tap at Position, in container coordinates.
type TapEvent struct {
	Count    int
	Position Vector
}

func (TapEvent) Kind() GestureKind { return GestureTap }

type Handler interface {
	Handle(Event)
}

type HandlerFunc func(Event)

func (f HandlerFunc) Handle(e Event) {
	f(e)
}
