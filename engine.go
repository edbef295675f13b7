package zoom

import (
	"math"
	"time"
)

// DefaultTick is the fixed step used by Engine.Advance.
const DefaultTick = 1.0 / 120.0

// Engine owns a set of Values and advances their animations. It is driven by
// the host's frame loop and must only be used from that goroutine.
type Engine struct {
	// Tick is the fixed step in seconds used by Advance. Must be positive.
	Tick float64

	values      []*Value
	accumulator float64
	stamp       uint
}

func NewEngine() *Engine {
	return &Engine{
		Tick:   DefaultTick,
		values: []*Value{},
	}
}

// NewValue creates a Value stepped by this engine.
func (engine *Engine) NewValue(name string, x float64) *Value {
	assert(isFinite(x), "non-finite initial value for ", name)
	v := &Value{name: name, x: x, engine: engine}
	engine.values = append(engine.values, v)
	return v
}

// Values lists the engine's values in creation order.
func (engine *Engine) Values() []*Value {
	return engine.values
}

// Animate replaces any animation running on v.
func (engine *Engine) Animate(v *Value, anim Animation) {
	assert(v.engine == engine, "value ", v.name, " belongs to another engine")
	v.anim = anim
}

// SpringTo springs v from where it is now, keeping its current velocity, to
// target.
func (engine *Engine) SpringTo(v *Value, target float64, config SpringConfig) {
	engine.Animate(v, NewSpring(v.x, v.v, target, config))
}

// Decay flings v with config.Velocity, coming to rest inside the clamp.
func (engine *Engine) Decay(v *Value, config DecayConfig) {
	v.v = config.Velocity
	engine.Animate(v, NewDecay(config))
}

func (engine *Engine) Cancel(v *Value) {
	v.Cancel()
}

// Idle reports whether no value is animating.
func (engine *Engine) Idle() bool {
	for _, v := range engine.values {
		if v.anim != nil {
			return false
		}
	}
	return true
}

// Stamp counts the steps taken so far.
func (engine *Engine) Stamp() uint {
	return engine.stamp
}

// Step advances every running animation by dt seconds.
func (engine *Engine) Step(dt float64) {
	if dt <= 0 {
		return
	}
	engine.stamp++
	for _, v := range engine.values {
		v.step(dt)
	}
}

// Advance runs as many fixed Tick steps as fit in elapsed, carrying the
// remainder to the next call. It returns the number of steps taken.
func (engine *Engine) Advance(elapsed time.Duration) int {
	assert(engine.Tick > 0, "engine tick must be positive")
	engine.accumulator += elapsed.Seconds()
	n := int(math.Floor(engine.accumulator / engine.Tick))
	for i := 0; i < n; i++ {
		engine.Step(engine.Tick)
	}
	engine.accumulator -= float64(n) * engine.Tick
	return n
}

// Settle steps until every animation has come to rest or limit has elapsed.
// It returns the simulated time taken.
func (engine *Engine) Settle(limit time.Duration) time.Duration {
	var t float64
	for !engine.Idle() && t < limit.Seconds() {
		engine.Step(engine.Tick)
		t += engine.Tick
	}
	return time.Duration(t * float64(time.Second))
}
