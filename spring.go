package zoom

import "math"

const (
	springRestDisplacement = 0.01
	springRestSpeed        = 2.0
)

type SpringConfig struct {
	Damping   float64 `toml:"damping"`
	Stiffness float64 `toml:"stiffness"`
	Mass      float64 `toml:"mass"`
}

// DampingRatio is ζ; below 1 the spring overshoots its target.
func (c SpringConfig) DampingRatio() float64 {
	return c.Damping / (2 * math.Sqrt(c.Stiffness*c.Mass))
}

// NaturalFrequency is ω0 in radians per second.
func (c SpringConfig) NaturalFrequency() float64 {
	return math.Sqrt(c.Stiffness / c.Mass)
}

// Spring is a damped harmonic oscillator pulling a value toward Target. It is
// evaluated in closed form from the position and velocity it started with,
// so the result does not depend on the step size.
type Spring struct {
	SpringConfig
	Target float64

	x0, v0  float64 // initial displacement from target and velocity
	elapsed float64
}

func NewSpring(from, velocity, target float64, config SpringConfig) *Spring {
	return &Spring{
		SpringConfig: config,
		Target:       target,
		x0:           from - target,
		v0:           velocity,
	}
}

func (spring *Spring) Step(v *Value, dt float64) bool {
	spring.elapsed += dt
	x, vel := spring.At(spring.elapsed)
	if math.Abs(x-spring.Target) < springRestDisplacement && math.Abs(vel) < springRestSpeed {
		v.x = spring.Target
		v.v = 0
		return true
	}
	v.x = x
	v.v = vel
	return false
}

// At returns position and velocity t seconds after the spring started.
func (spring *Spring) At(t float64) (x, v float64) {
	w0 := spring.NaturalFrequency()
	zeta := spring.DampingRatio()
	x0, v0 := spring.x0, spring.v0

	var d, dv float64
	switch {
	case math.Abs(zeta-1) < 1e-9:
		// critically damped
		c := v0 + w0*x0
		env := math.Exp(-w0 * t)
		d = env * (x0 + c*t)
		dv = env * (c - w0*(x0+c*t))
	case zeta < 1:
		w1 := w0 * math.Sqrt(1-zeta*zeta)
		env := math.Exp(-zeta * w0 * t)
		a := x0
		b := (v0 + zeta*w0*x0) / w1
		sin, cos := math.Sincos(w1 * t)
		d = env * (a*cos + b*sin)
		dv = -zeta*w0*d + env*(-a*w1*sin+b*w1*cos)
	default:
		wd := w0 * math.Sqrt(zeta*zeta-1)
		r1 := -zeta*w0 + wd
		r2 := -zeta*w0 - wd
		c1 := (v0 - r2*x0) / (r1 - r2)
		c2 := x0 - c1
		e1, e2 := math.Exp(r1*t), math.Exp(r2*t)
		d = c1*e1 + c2*e2
		dv = r1*c1*e1 + r2*c2*e2
	}
	return spring.Target + d, dv
}
