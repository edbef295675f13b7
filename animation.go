package zoom

// Animation moves a Value over successive engine steps.
type Animation interface {
	// Step advances v by dt seconds. It returns true once the animation has
	// come to rest, after leaving v at its final position.
	Step(v *Value, dt float64) bool
}

// AnimationFunc adapts a plain function to Animation.
type AnimationFunc func(v *Value, dt float64) bool

func (f AnimationFunc) Step(v *Value, dt float64) bool {
	return f(v, dt)
}
