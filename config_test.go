package zoom

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zoom.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
max_scale = 6
double_tap_scale = 3

[spring]
damping = 20
`)
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		MaxScale:         6,
		DoubleTapScale:   3,
		Spring:           SpringConfig{Damping: 20, Stiffness: 230, Mass: 0.3},
		DecelerationRate: 0.998,
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Config{}, "Logger")); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if got.Logger == nil {
		t.Error("Expected a discard logger")
	}
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	path := writeConfig(t, "max_zoom = 6\n")
	if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"max below one", func(c *Config) { c.MaxScale = 0.5 }},
		{"double tap above max", func(c *Config) { c.DoubleTapScale = 9 }},
		{"negative stiffness", func(c *Config) { c.Spring.Stiffness = -1 }},
		{"deceleration of one", func(c *Config) { c.DecelerationRate = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}
