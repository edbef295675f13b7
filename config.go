package zoom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

var ErrInvalidConfig = errors.New("zoom: invalid config")

// Config tunes gestures and animations. Zero fields take the defaults.
type Config struct {
	MaxScale         float64      `toml:"max_scale"`
	DoubleTapScale   float64      `toml:"double_tap_scale"`
	Spring           SpringConfig `toml:"spring"`
	DecelerationRate float64      `toml:"deceleration_rate"`

	// Logger receives gesture and settle events at debug level. Nil discards.
	Logger *log.Logger `toml:"-"`
}

func DefaultConfig() Config {
	return Config{
		MaxScale:       5,
		DoubleTapScale: 2.5,
		Spring: SpringConfig{
			Damping:   18,
			Stiffness: 230,
			Mass:      0.3,
		},
		DecelerationRate: 0.998,
	}
}

func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.MaxScale == 0 {
		c.MaxScale = def.MaxScale
	}
	if c.DoubleTapScale == 0 {
		c.DoubleTapScale = def.DoubleTapScale
	}
	if c.Spring.Damping == 0 {
		c.Spring.Damping = def.Spring.Damping
	}
	if c.Spring.Stiffness == 0 {
		c.Spring.Stiffness = def.Spring.Stiffness
	}
	if c.Spring.Mass == 0 {
		c.Spring.Mass = def.Spring.Mass
	}
	if c.DecelerationRate == 0 {
		c.DecelerationRate = def.DecelerationRate
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	return c
}

func (c Config) Validate() error {
	var problems []string
	if !(c.MaxScale >= MinScale) {
		problems = append(problems, fmt.Sprintf("max_scale %g < 1", c.MaxScale))
	}
	if !(c.DoubleTapScale >= MinScale && c.DoubleTapScale <= c.MaxScale) {
		problems = append(problems, fmt.Sprintf("double_tap_scale %g outside [1, %g]", c.DoubleTapScale, c.MaxScale))
	}
	if !(c.Spring.Damping > 0 && c.Spring.Stiffness > 0 && c.Spring.Mass > 0) {
		problems = append(problems, fmt.Sprintf("spring %+v must be positive", c.Spring))
	}
	if !(c.DecelerationRate > 0 && c.DecelerationRate < 1) {
		problems = append(problems, fmt.Sprintf("deceleration_rate %g outside (0, 1)", c.DecelerationRate))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// LoadConfig reads a TOML config file. Missing keys take the defaults and
// unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, fmt.Errorf("zoom: parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("zoom: %s: %w", path, err)
	}
	return c, nil
}
