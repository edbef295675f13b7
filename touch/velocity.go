package touch

import (
	"time"

	"github.com/jakecoffman/zoom"
)

type sample struct {
	at time.Time
	p  zoom.Vector
}

// VelocityTracker estimates release velocity from the positions seen over the
// trailing Window.
type VelocityTracker struct {
	Window time.Duration

	samples []sample
}

func (vt *VelocityTracker) Add(at time.Time, p zoom.Vector) {
	vt.samples = append(vt.samples, sample{at, p})
	vt.trim(at)
}

func (vt *VelocityTracker) Reset() {
	vt.samples = vt.samples[:0]
}

// Velocity is the average velocity, in units per second, across the samples
// no older than Window at now. A pointer held still before lifting has no
// velocity.
func (vt *VelocityTracker) Velocity(now time.Time) zoom.Vector {
	vt.trim(now)
	if len(vt.samples) < 2 {
		return zoom.Vector{}
	}
	first, last := vt.samples[0], vt.samples[len(vt.samples)-1]
	dt := last.at.Sub(first.at).Seconds()
	if dt <= 0 {
		return zoom.Vector{}
	}
	return last.p.Sub(first.p).Mult(1 / dt)
}

func (vt *VelocityTracker) trim(now time.Time) {
	cutoff := now.Add(-vt.Window)
	i := 0
	for i < len(vt.samples) && vt.samples[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		vt.samples = append(vt.samples[:0], vt.samples[i:]...)
	}
}
