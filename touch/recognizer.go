// Package touch recognizes pinch, pan and double-tap gestures from raw
// pointer samples and delivers them as zoom events.
//
// Three recognizers run over the same samples. A tap fails as soon as a
// pointer strays more than TapSlop from where it went down, a second pointer
// lands, or the press lasts too long. Pan activates once the centroid of all
// pointers moves more than PanSlop. Pinch activates once the span between
// the first two pointers changes by more than PinchSlop, and its scale is
// measured from the span where it crossed that slop. Which of the
// resulting events takes effect is decided by the zoom.Arbiter of the
// receiving controller.
package touch

import (
	"math"
	"time"

	"github.com/jakecoffman/zoom"
)

// ID identifies one pointer for the duration of its contact.
type ID int64

type Config struct {
	TapSlop        float64
	MaxTapDuration time.Duration
	MaxTapDelay    time.Duration
	PanSlop        float64
	PinchSlop      float64
	VelocityWindow time.Duration
}

func DefaultConfig() Config {
	return Config{
		TapSlop:        10,
		MaxTapDuration: 500 * time.Millisecond,
		MaxTapDelay:    500 * time.Millisecond,
		PanSlop:        10,
		PinchSlop:      10,
		VelocityWindow: 100 * time.Millisecond,
	}
}

type pointer struct {
	id    ID
	start zoom.Vector
	pos   zoom.Vector
}

type tapState struct {
	count    int
	origin   zoom.Vector // where the first tap of the series went down
	downAt   time.Time
	lastUpAt time.Time
	failed   bool
}

type panState struct {
	active bool
	origin zoom.Vector // centroid the current leg is measured from
	offset zoom.Vector // translation carried over from earlier legs
	last   zoom.Vector
}

type pinchState struct {
	tracking    bool
	active      bool
	a, b        ID // the two pointers whose span is measured
	initialSpan float64
	scale       float64
}

// Recognizer is not safe for concurrent use. Feed it from the goroutine that
// owns the receiving handler.
type Recognizer struct {
	config  Config
	handler zoom.Handler

	// Origin is subtracted from every position, mapping window coordinates to
	// container coordinates.
	Origin zoom.Vector

	pointers []*pointer
	tap      tapState
	pan      panState
	pinch    pinchState
	velocity VelocityTracker
}

func New(handler zoom.Handler, config Config) *Recognizer {
	return &Recognizer{
		config:   config,
		handler:  handler,
		pointers: []*pointer{},
		velocity: VelocityTracker{Window: config.VelocityWindow},
	}
}

// Pointers is the number of pointers currently down.
func (r *Recognizer) Pointers() int {
	return len(r.pointers)
}

func (r *Recognizer) Down(id ID, p zoom.Vector, at time.Time) {
	p = p.Sub(r.Origin)
	if r.find(id) != nil {
		return
	}

	if len(r.pointers) == 0 {
		r.handler.Handle(zoom.SequenceBegin{})
		r.beginTap(p, at)
	} else {
		r.failTap()
	}

	r.pointers = append(r.pointers, &pointer{id: id, start: p, pos: p})
	r.rebasePan()
	r.trackPinch()
}

func (r *Recognizer) Move(id ID, p zoom.Vector, at time.Time) {
	p = p.Sub(r.Origin)
	ptr := r.find(id)
	if ptr == nil {
		return
	}
	ptr.pos = p

	if !ptr.start.Near(p, r.config.TapSlop) {
		r.failTap()
	}
	r.updatePinch()
	r.updatePan(at)
}

func (r *Recognizer) Up(id ID, p zoom.Vector, at time.Time) {
	p = p.Sub(r.Origin)
	ptr := r.find(id)
	if ptr == nil {
		return
	}
	ptr.pos = p
	if !ptr.start.Near(p, r.config.TapSlop) {
		r.failTap()
	}
	r.updatePinch()
	r.updatePan(at)

	r.remove(id)
	r.trackPinch()

	if len(r.pointers) == 0 {
		if r.pan.active {
			r.handler.Handle(zoom.PanEvent{
				Phase:       zoom.GestureEnded,
				Translation: r.pan.last,
				Velocity:    r.velocity.Velocity(at),
			})
		}
		r.endTap(p, at)
		r.pan = panState{}
		r.pinch = pinchState{}
		r.velocity.Reset()
		return
	}
	r.rebasePan()
}

// Cancel lifts every pointer without producing a tap or a fling.
func (r *Recognizer) Cancel() {
	if r.pinch.active {
		r.handler.Handle(zoom.PinchEvent{Phase: zoom.GestureEnded, Scale: r.pinch.scale, Focal: r.centroid()})
	}
	if r.pan.active {
		r.handler.Handle(zoom.PanEvent{Phase: zoom.GestureEnded, Translation: r.pan.last})
	}
	r.pointers = r.pointers[:0]
	r.tap = tapState{}
	r.pan = panState{}
	r.pinch = pinchState{}
	r.velocity.Reset()
}

func (r *Recognizer) beginTap(p zoom.Vector, at time.Time) {
	t := &r.tap
	if t.count > 0 && (at.Sub(t.lastUpAt) > r.config.MaxTapDelay || !t.origin.Near(p, r.config.TapSlop)) {
		t.count = 0
	}
	if t.count == 0 {
		t.origin = p
	}
	t.downAt = at
	t.failed = false
}

func (r *Recognizer) failTap() {
	r.tap.failed = true
	r.tap.count = 0
}

func (r *Recognizer) endTap(p zoom.Vector, at time.Time) {
	t := &r.tap
	if t.failed || at.Sub(t.downAt) > r.config.MaxTapDuration {
		t.count = 0
		return
	}
	t.count++
	t.lastUpAt = at
	if t.count == 2 {
		r.handler.Handle(zoom.TapEvent{Count: 2, Position: p})
		t.count = 0
	}
}

func (r *Recognizer) centroid() zoom.Vector {
	points := make([]zoom.Vector, len(r.pointers))
	for i, ptr := range r.pointers {
		points[i] = ptr.pos
	}
	return zoom.Centroid(points...)
}

// rebasePan starts a new leg of the pan from the current centroid, so adding
// or lifting a finger does not make the translation jump.
func (r *Recognizer) rebasePan() {
	r.pan.offset = r.pan.last
	r.pan.origin = r.centroid()
}

func (r *Recognizer) updatePan(at time.Time) {
	translation := r.pan.offset.Add(r.centroid().Sub(r.pan.origin))
	r.pan.last = translation

	if !r.pan.active {
		if translation.Near(zoom.Vector{}, r.config.PanSlop) {
			return
		}
		r.pan.active = true
		r.failTap()
		r.handler.Handle(zoom.PanEvent{Phase: zoom.GestureBegan})
	}
	r.velocity.Add(at, translation)
	r.handler.Handle(zoom.PanEvent{Phase: zoom.GestureChanged, Translation: translation})
}

func (r *Recognizer) span() float64 {
	return r.pointers[0].pos.Distance(r.pointers[1].pos)
}

// trackPinch follows the first two pointers down. When that pair changes the
// running pinch ends and a new one is tracked from the new pair's span.
func (r *Recognizer) trackPinch() {
	if len(r.pointers) >= 2 {
		a, b := r.pointers[0].id, r.pointers[1].id
		if r.pinch.tracking && r.pinch.a == a && r.pinch.b == b {
			return
		}
	}
	if r.pinch.active {
		r.handler.Handle(zoom.PinchEvent{Phase: zoom.GestureEnded, Scale: r.pinch.scale, Focal: r.centroid()})
	}
	r.pinch = pinchState{}
	if len(r.pointers) >= 2 {
		r.pinch = pinchState{
			tracking:    true,
			a:           r.pointers[0].id,
			b:           r.pointers[1].id,
			initialSpan: r.span(),
			scale:       1,
		}
	}
}

func (r *Recognizer) updatePinch() {
	if !r.pinch.tracking {
		return
	}
	span := r.span()
	if !r.pinch.active {
		if math.Abs(span-r.pinch.initialSpan) <= r.config.PinchSlop {
			return
		}
		// measure from the edge of the slop so the first change is small
		r.pinch.initialSpan += math.Copysign(r.config.PinchSlop, span-r.pinch.initialSpan)
		r.pinch.active = true
		r.handler.Handle(zoom.PinchEvent{Phase: zoom.GestureBegan, Scale: 1, Focal: r.centroid()})
	}
	if r.pinch.initialSpan > 0 {
		r.pinch.scale = span / r.pinch.initialSpan
	}
	r.handler.Handle(zoom.PinchEvent{Phase: zoom.GestureChanged, Scale: r.pinch.scale, Focal: r.centroid()})
}

func (r *Recognizer) find(id ID) *pointer {
	for _, ptr := range r.pointers {
		if ptr.id == id {
			return ptr
		}
	}
	return nil
}

func (r *Recognizer) remove(id ID) {
	for i, ptr := range r.pointers {
		if ptr.id == id {
			copy(r.pointers[i:], r.pointers[i+1:])
			r.pointers[len(r.pointers)-1] = nil
			r.pointers = r.pointers[:len(r.pointers)-1]
			return
		}
	}
}
