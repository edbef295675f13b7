package touch

import (
	"time"

	mtouch "golang.org/x/mobile/event/touch"

	"github.com/jakecoffman/zoom"
)

// Mobile feeds a golang.org/x/mobile touch event. x/mobile does not stamp its
// events, so the caller supplies the time it received e.
func (r *Recognizer) Mobile(e mtouch.Event, at time.Time) {
	id := ID(e.Sequence)
	p := zoom.Vector{X: float64(e.X), Y: float64(e.Y)}
	switch e.Type {
	case mtouch.TypeBegin:
		r.Down(id, p, at)
	case mtouch.TypeMove:
		r.Move(id, p, at)
	case mtouch.TypeEnd:
		r.Up(id, p, at)
	}
}
