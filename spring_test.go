package zoom

import (
	"math"
	"testing"
	"time"
)

func TestSpring_SettlesExactly(t *testing.T) {
	configs := map[string]SpringConfig{
		"default":     DefaultConfig().Spring,
		"underdamped": {Damping: 4, Stiffness: 230, Mass: 0.3},
		"critical":    {Damping: 2 * math.Sqrt(230*0.3), Stiffness: 230, Mass: 0.3},
	}
	for name, config := range configs {
		t.Run(name, func(t *testing.T) {
			engine := NewEngine()
			v := engine.NewValue("x", 5)
			engine.SpringTo(v, 1, config)

			took := engine.Settle(10 * time.Second)
			if !engine.Idle() {
				t.Fatalf("spring still running after %v at %v", took, v)
			}
			if v.Get() != 1 || v.Velocity() != 0 {
				t.Errorf("Expected exact rest at 1, got %g moving %g", v.Get(), v.Velocity())
			}
		})
	}
}

func TestSpring_Overshoot(t *testing.T) {
	under := SpringConfig{Damping: 4, Stiffness: 230, Mass: 0.3}
	if under.DampingRatio() >= 1 {
		t.Fatalf("expected underdamped config, ratio %g", under.DampingRatio())
	}
	s := NewSpring(0, 0, 1, under)
	peak := 0.0
	for t := 0.0; t < 1; t += 0.001 {
		x, _ := s.At(t)
		peak = math.Max(peak, x)
	}
	if peak <= 1 {
		t.Errorf("underdamped spring should overshoot, peak %g", peak)
	}

	over := DefaultConfig().Spring
	s = NewSpring(0, 0, 1, over)
	for tm := 0.0; tm < 1; tm += 0.001 {
		if x, _ := s.At(tm); x > 1+1e-9 {
			t.Fatalf("default spring overshot to %g", x)
		}
	}
}

func TestSpring_StepSizeIndependent(t *testing.T) {
	config := DefaultConfig().Spring
	coarse := NewSpring(3, 0, 1, config)
	fine := NewSpring(3, 0, 1, config)

	a := &Value{name: "a", x: 3}
	b := &Value{name: "b", x: 3}
	for i := 0; i < 6; i++ {
		coarse.Step(a, 1.0/60)
	}
	for i := 0; i < 12; i++ {
		fine.Step(b, 1.0/120)
	}
	if math.Abs(a.Get()-b.Get()) > 1e-9 {
		t.Errorf("step size changed result: %g vs %g", a.Get(), b.Get())
	}
}

func TestSpring_KeepsVelocityOnRetarget(t *testing.T) {
	engine := NewEngine()
	v := engine.NewValue("x", 0)
	engine.SpringTo(v, 100, DefaultConfig().Spring)
	for i := 0; i < 5; i++ {
		engine.Step(engine.Tick)
	}
	before := v.Velocity()
	if before <= 0 {
		t.Fatalf("expected positive velocity, got %g", before)
	}
	engine.SpringTo(v, 0, DefaultConfig().Spring)
	_, vel := v.Animation().(*Spring).At(0)
	if math.Abs(vel-before) > 1e-6*math.Abs(before) {
		t.Errorf("retargeted spring should start at velocity %g, got %g", before, vel)
	}
}
