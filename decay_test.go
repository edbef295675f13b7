package zoom

import (
	"math"
	"testing"
	"time"
)

func decayConfig(velocity, lo, hi float64) DecayConfig {
	return DecayConfig{
		Velocity:           velocity,
		ClampMin:           lo,
		ClampMax:           hi,
		BoundaryElasticity: DecayRubberBandFactor,
		DecelerationRate:   DefaultConfig().DecelerationRate,
	}
}

func TestDecay_ComesToRestInside(t *testing.T) {
	tests := []struct {
		name     string
		from     float64
		velocity float64
	}{
		{"gentle inside", 0, 300},
		{"fling past max", 0, 4000},
		{"fling past min", 50, -6000},
		{"released while stretched", 180, 0},
		{"stretched and flung outward", -150, -1500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine()
			v := engine.NewValue("x", tt.from)
			engine.Decay(v, decayConfig(tt.velocity, -100, 100))

			engine.Settle(20 * time.Second)
			if !engine.Idle() {
				t.Fatalf("decay still running at %v", v)
			}
			if v.Get() < -100 || v.Get() > 100 {
				t.Errorf("came to rest outside clamp at %g", v.Get())
			}
		})
	}
}

func TestDecay_Overshoots(t *testing.T) {
	engine := NewEngine()
	v := engine.NewValue("x", 90)
	engine.Decay(v, decayConfig(3000, -100, 100))

	peak := v.Get()
	for i := 0; i < 240; i++ {
		engine.Step(engine.Tick)
		peak = math.Max(peak, v.Get())
	}
	if peak <= 100 {
		t.Errorf("fling into the boundary should stretch past it, peak %g", peak)
	}
	engine.Settle(20 * time.Second)
	if v.Get() != 100 {
		t.Errorf("expected to snap to boundary 100, got %g", v.Get())
	}
}

func TestDecay_HardClamp(t *testing.T) {
	engine := NewEngine()
	v := engine.NewValue("x", 0)
	config := decayConfig(5000, -100, 100)
	config.BoundaryElasticity = 0
	engine.Decay(v, config)

	for i := 0; i < 600 && v.Animating(); i++ {
		engine.Step(engine.Tick)
		if v.Get() > 100 {
			t.Fatalf("hard clamp exceeded at %g", v.Get())
		}
	}
	if v.Animating() || v.Get() != 100 {
		t.Errorf("expected stop at boundary, got %v animating=%v", v, v.Animating())
	}
}

func TestDecay_Slows(t *testing.T) {
	engine := NewEngine()
	v := engine.NewValue("x", 0)
	engine.Decay(v, decayConfig(1000, -1e6, 1e6))

	engine.Step(0.016)
	first := v.Velocity()
	for i := 0; i < 30; i++ {
		engine.Step(0.016)
	}
	if !(v.Velocity() < first && v.Velocity() > 0) {
		t.Errorf("expected decaying positive velocity, %g then %g", first, v.Velocity())
	}
}
