package zoom

import "math"

const (
	// ReboundRate scales BoundaryElasticity into the pull, per second, applied
	// to a decaying value for each unit it lies past its clamp.
	ReboundRate = 30.0

	decayMaxStep     = 0.064
	decayRestSpeed   = 1.0
	decayOvershootEp = 0.1
)

type DecayConfig struct {
	Velocity           float64
	ClampMin, ClampMax float64
	BoundaryElasticity float64
	// DecelerationRate is the velocity retained per millisecond.
	DecelerationRate float64
}

// Decay is an inertial fling. Velocity falls off exponentially. Past the
// clamp an elastic pull brings the value back, and it comes to rest inside
// [ClampMin, ClampMax].
type Decay struct {
	DecayConfig

	elapsed  float64
	overshot bool
}

func NewDecay(config DecayConfig) *Decay {
	return &Decay{DecayConfig: config}
}

func (decay *Decay) Step(v *Value, dt float64) bool {
	dt = math.Min(dt, decayMaxStep)
	decay.elapsed += dt

	decayed := decay.Velocity * math.Pow(decay.DecelerationRate, decay.elapsed*1000)

	if decay.BoundaryElasticity <= 0 {
		x := Clamp(v.x+decayed*dt, decay.ClampMin, decay.ClampMax)
		hit := x != v.x+decayed*dt
		v.x = x
		if hit || math.Abs(decayed) < decayRestSpeed {
			v.v = 0
			return true
		}
		v.v = decayed
		return false
	}

	boundary := Clamp(v.x, decay.ClampMin, decay.ClampMax)
	excess := v.x - boundary
	vel := decayed - excess*decay.BoundaryElasticity*ReboundRate

	if math.Abs(excess) > decayOvershootEp {
		decay.overshot = true
	} else if decay.overshot {
		v.x = boundary
		v.v = 0
		return true
	} else if math.Abs(vel) < decayRestSpeed {
		v.x = boundary
		v.v = 0
		return true
	}

	v.x += vel * dt
	v.v = vel
	return false
}
