package zoom

import "fmt"

// Value is an animated scalar cell. It is written directly by gesture
// reducers and progressively by an Animation stepped by its Engine.
//
// Values are not safe for concurrent use. Reads always observe the
// instantaneous position, never the target of a running animation.
type Value struct {
	name string

	// position and velocity (units per second)
	x, v float64

	anim   Animation
	engine *Engine
}

func (v Value) String() string {
	return fmt.Sprintf("%s=%g", v.name, v.x)
}

func (v *Value) Name() string {
	return v.name
}

// Get returns the current instantaneous value.
func (v *Value) Get() float64 {
	return v.x
}

func (v *Value) Velocity() float64 {
	return v.v
}

// Set cancels any running animation and moves the value to x.
func (v *Value) Set(x float64) {
	assert(isFinite(x), "non-finite value for ", v.name)
	v.anim = nil
	v.x = x
	v.v = 0
}

// Cancel freezes the value where it currently is. It takes effect before the
// next read.
func (v *Value) Cancel() {
	v.anim = nil
	v.v = 0
}

func (v *Value) Animating() bool {
	return v.anim != nil
}

// Animation returns the running animation or nil.
func (v *Value) Animation() Animation {
	return v.anim
}

func (v *Value) step(dt float64) {
	if v.anim == nil {
		return
	}
	if v.anim.Step(v, dt) {
		v.anim = nil
	}
	assert(isFinite(v.x), "animation produced non-finite value for ", v.name)
}
