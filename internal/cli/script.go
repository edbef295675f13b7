package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jakecoffman/zoom"
	"github.com/jakecoffman/zoom/touch"
)

var errScript = errors.New("invalid gesture script")

// Script is a recorded touch sequence:
//
//	[[step]]
//	kind = "down"
//	id = 1
//	x = 200
//	y = 400
//
//	[[step]]
//	kind = "up"
//	id = 1
//	x = 200
//	y = 400
//	ms = 50
//
// Each step first waits ms milliseconds; a "wait" step does nothing else.
// Positions are in container coordinates.
type Script struct {
	Steps []Step `toml:"step"`
}

type Step struct {
	Kind string  `toml:"kind"`
	ID   int64   `toml:"id"`
	X    float64 `toml:"x"`
	Y    float64 `toml:"y"`
	MS   float64 `toml:"ms"`
}

func (s Step) Delay() time.Duration {
	return time.Duration(s.MS * float64(time.Millisecond))
}

func (s Step) Position() zoom.Vector {
	return zoom.Vector{X: s.X, Y: s.Y}
}

// Apply feeds the step to r as happening at.
func (s Step) Apply(r *touch.Recognizer, at time.Time) {
	switch s.Kind {
	case "down":
		r.Down(touch.ID(s.ID), s.Position(), at)
	case "move":
		r.Move(touch.ID(s.ID), s.Position(), at)
	case "up":
		r.Up(touch.ID(s.ID), s.Position(), at)
	}
}

// Duration is the total time the script spans.
func (sc Script) Duration() time.Duration {
	var d time.Duration
	for _, s := range sc.Steps {
		d += s.Delay()
	}
	return d
}

func ParseScript(data string) (Script, error) {
	var sc Script
	md, err := toml.Decode(data, &sc)
	if err != nil {
		return Script{}, fmt.Errorf("%w: %w", errScript, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Script{}, fmt.Errorf("%w: unknown key %s", errScript, undecoded[0])
	}
	if err := sc.validate(); err != nil {
		return Script{}, err
	}
	return sc, nil
}

func LoadScript(path string) (Script, error) {
	var sc Script
	md, err := toml.DecodeFile(path, &sc)
	if err != nil {
		return Script{}, fmt.Errorf("%w: %s: %w", errScript, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Script{}, fmt.Errorf("%w: %s: unknown key %s", errScript, path, undecoded[0])
	}
	if err := sc.validate(); err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func (sc Script) validate() error {
	for i, s := range sc.Steps {
		switch s.Kind {
		case "down", "move", "up", "wait":
		default:
			return fmt.Errorf("%w: step %d: unknown kind %q", errScript, i+1, s.Kind)
		}
		if s.MS < 0 {
			return fmt.Errorf("%w: step %d: negative ms", errScript, i+1)
		}
	}
	return nil
}
