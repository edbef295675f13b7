package zoom

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
)

var ErrInvariant = errors.New("zoom: transform outside resting bounds")

// invariantEpsilon absorbs float rounding when checking the resting bounds.
const invariantEpsilon = 1e-6

// State is the phase of a gesture reducer.
type State int

const (
	StateIdle State = iota
	StateActive
	StateSettling
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateSettling:
		return "settling"
	}
	return "idle"
}

// Snapshot is the transform at one frame.
type Snapshot struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

func (s Snapshot) Translate() Vector {
	return Vector{s.TranslateX, s.TranslateY}
}

// Transform maps image pixels to container coordinates.
func (s Snapshot) Transform(g Geometry) Transform {
	return g.ImageToContainer(s.Scale, s.Translate())
}

// Baseline is what the next incremental gesture update is measured from.
type Baseline struct {
	Scale     float64
	Translate Vector
}

// Controller turns pinch, pan and double-tap gestures into an animated
// transform for one image in one container. Build a new Controller for each
// image; it is never reset in place.
//
// A Controller is not safe for concurrent use. Gesture events and engine
// steps must come from the same goroutine.
type Controller struct {
	Geometry Geometry

	config Config
	log    *log.Logger
	engine *Engine

	scale, translateX, translateY *Value

	pinchSavedScale float64
	panSaved        Vector

	pinching bool
	panning  bool

	arbiter Arbiter
}

func NewController(image, container Size, config Config) (*Controller, error) {
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	g, err := ResolveGeometry(image, container)
	if err != nil {
		return nil, err
	}

	engine := NewEngine()
	c := &Controller{
		Geometry:        g,
		config:          config,
		log:             config.Logger,
		engine:          engine,
		scale:           engine.NewValue("scale", MinScale),
		translateX:      engine.NewValue("translateX", 0),
		translateY:      engine.NewValue("translateY", g.InitialTranslateY),
		pinchSavedScale: MinScale,
		panSaved:        g.InitialTranslate(),
	}
	c.log.Debug("controller mounted",
		"image", image, "container", container,
		"display", Size{g.DisplayWidth, g.DisplayHeight},
		"initialTranslateY", g.InitialTranslateY)
	return c, nil
}

func (c *Controller) Config() Config {
	return c.config
}

func (c *Controller) Engine() *Engine {
	return c.engine
}

func (c *Controller) Scale() float64 {
	return c.scale.Get()
}

func (c *Controller) Translate() Vector {
	return Vector{c.translateX.Get(), c.translateY.Get()}
}

// Snapshot never blocks and reflects the values as of the last engine step or
// gesture event.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Scale:      c.scale.Get(),
		TranslateX: c.translateX.Get(),
		TranslateY: c.translateY.Get(),
	}
}

func (c *Controller) Baseline() Baseline {
	return Baseline{Scale: c.pinchSavedScale, Translate: c.panSaved}
}

func (c *Controller) Arbiter() ArbiterState {
	return c.arbiter.State()
}

func (c *Controller) PinchPhase() State {
	switch {
	case c.pinching:
		return StateActive
	case c.scale.Animating():
		return StateSettling
	}
	return StateIdle
}

func (c *Controller) PanPhase() State {
	switch {
	case c.panning:
		return StateActive
	case c.translateX.Animating() || c.translateY.Animating():
		return StateSettling
	}
	return StateIdle
}

// AtRest is true when no gesture is active and nothing is animating.
func (c *Controller) AtRest() bool {
	return !c.pinching && !c.panning && c.engine.Idle()
}

// CheckInvariant verifies the resting bounds. It returns nil while the
// controller is not at rest.
func (c *Controller) CheckInvariant() error {
	if !c.AtRest() {
		return nil
	}
	s := c.scale.Get()
	if s < MinScale-invariantEpsilon || s > c.config.MaxScale+invariantEpsilon {
		return fmt.Errorf("%w: scale %g outside [1, %g]", ErrInvariant, s, c.config.MaxScale)
	}
	max := c.Geometry.MaxTranslate(s)
	t := c.Translate()
	if math.Abs(t.X) > max.X+invariantEpsilon || math.Abs(t.Y) > max.Y+invariantEpsilon {
		return fmt.Errorf("%w: translate %v exceeds %v at scale %g", ErrInvariant, t, max, s)
	}
	return nil
}

// Step advances animations by dt seconds.
func (c *Controller) Step(dt float64) {
	c.engine.Step(dt)
}

// Advance advances animations by elapsed wall time in fixed engine ticks.
func (c *Controller) Advance(elapsed time.Duration) {
	c.engine.Advance(elapsed)
}

// Handle applies a recognizer event, subject to the gesture race.
func (c *Controller) Handle(e Event) {
	if _, ok := e.(SequenceBegin); ok {
		c.arbiter.Begin()
		return
	}
	if !c.arbiter.Commit(e.Kind()) {
		c.log.Debug("gesture dropped", "kind", e.Kind(), "winner", c.arbiter.State())
		return
	}

	switch e := e.(type) {
	case PinchEvent:
		switch e.Phase {
		case GestureBegan:
			c.PinchBegin()
		case GestureChanged:
			c.PinchUpdate(e.Scale)
		case GestureEnded:
			c.PinchEnd()
		}
	case PanEvent:
		switch e.Phase {
		case GestureBegan:
			c.PanBegin()
		case GestureChanged:
			c.PanUpdate(e.Translation)
		case GestureEnded:
			c.PanEnd(e.Velocity)
		}
	case TapEvent:
		if e.Count == 2 {
			c.DoubleTap(e.Position)
		}
	}
}

// restingScale is where scale will settle: the spring target while one is
// running, otherwise the live value.
func (c *Controller) restingScale() float64 {
	if spring, ok := c.scale.Animation().(*Spring); ok {
		return spring.Target
	}
	return c.scale.Get()
}

func (c *Controller) springTranslate(to Vector) {
	c.engine.SpringTo(c.translateX, to.X, c.config.Spring)
	c.engine.SpringTo(c.translateY, to.Y, c.config.Spring)
}
