package cli

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jakecoffman/zoom"
	"github.com/jakecoffman/zoom/viewer"
)

func readySim(t *testing.T) *simModel {
	t.Helper()
	v := viewer.New(zoom.Size{Width: 400, Height: 800}, zoom.Config{}, viewer.ResolverFunc(
		func(context.Context, string) (zoom.Size, error) {
			return zoom.Size{Width: 400, Height: 1200}, nil
		}))
	m := newSimModel(context.Background(), v, "tall.png", zoom.Size{})
	m.Init()

	now := time.Now()
	deadline := now.Add(5 * time.Second)
	for m.rec == nil {
		if time.Now().After(deadline) {
			t.Fatal("viewer never became ready")
		}
		time.Sleep(time.Millisecond)
		now = now.Add(frameInterval)
		m.Update(tickMsg(now))
	}
	return m
}

// settleSim runs frames until the controller stops moving.
func settleSim(t *testing.T, m *simModel) {
	t.Helper()
	now := m.last
	for i := 0; i < 60*30; i++ {
		now = now.Add(frameInterval)
		m.Update(tickMsg(now))
		if m.controller().AtRest() {
			return
		}
	}
	t.Fatalf("simulator did not come to rest: %+v", m.controller().Snapshot())
}

func TestSim_DoubleTap(t *testing.T) {
	m := readySim(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	if view := m.View(); !strings.Contains(view, "scale translateX translateY") {
		t.Errorf("view should list the running animations:\n%s", view)
	}
	settleSim(t, m)

	if got := m.controller().Scale(); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("Expected scale 2.5, got %v", got)
	}
	if view := m.View(); !strings.Contains(view, "2.500") {
		t.Errorf("view should show the new scale:\n%s", view)
	}
}

func TestSim_Pinch(t *testing.T) {
	m := readySim(t)
	m.key("+")
	settleSim(t, m)

	if got := m.controller().Scale(); math.Abs(got-pinchFactor) > 1e-9 {
		t.Errorf("Expected scale %v, got %v", pinchFactor, got)
	}
	if err := m.controller().CheckInvariant(); err != nil {
		t.Error(err)
	}
}

func TestSim_Drag(t *testing.T) {
	m := readySim(t)
	m.key("up")
	settleSim(t, m)

	if got := m.controller().Translate().Y; got >= 200 {
		t.Errorf("dragging up should move the image up from 200, got %v", got)
	}
	if err := m.controller().CheckInvariant(); err != nil {
		t.Error(err)
	}
}

func TestSim_Remount(t *testing.T) {
	m := readySim(t)
	first := m.viewer.MountID()
	m.key("r")
	if m.rec != nil || m.viewer.State() != viewer.StateLoading {
		t.Fatalf("Expected a fresh load, got %v", m.viewer.State())
	}
	if view := m.View(); !strings.Contains(view, "loading") {
		t.Errorf("view should show loading:\n%s", view)
	}

	if err := m.viewer.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.viewer.MountID() == first {
		t.Error("remount should produce a new mount ID")
	}
}

func TestSim_KnownSizeMountsImmediately(t *testing.T) {
	v := viewer.New(zoom.Size{Width: 400, Height: 800}, zoom.Config{}, viewer.ResolverFunc(
		func(context.Context, string) (zoom.Size, error) {
			t.Error("known size should not be resolved")
			return zoom.Size{}, nil
		}))
	m := newSimModel(context.Background(), v, "placeholder", zoom.Size{Width: 400, Height: 1200})
	m.Init()

	if m.viewer.State() != viewer.StateReady || m.rec == nil {
		t.Fatalf("Expected ready with a recognizer, got %v", m.viewer.State())
	}
	first := m.viewer.MountID()
	m.key("r")
	if m.rec == nil || m.viewer.MountID() == first {
		t.Error("remount with a known size should mount a new controller at once")
	}
}

func TestSim_Quit(t *testing.T) {
	m := readySim(t)
	cmd := m.key("q")
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

func TestMinimap(t *testing.T) {
	g, err := zoom.ResolveGeometry(zoom.Size{Width: 100, Height: 100}, zoom.Size{Width: 100, Height: 100})
	if err != nil {
		t.Fatal(err)
	}
	off := zoom.Vector{X: -1, Y: -1}

	full := minimap(g, zoom.Snapshot{Scale: 1}, off, 40)
	if got := strings.Count(full, "█"); got != 40*20 {
		t.Errorf("Expected every cell covered at scale 1, got %d", got)
	}

	shifted := minimap(g, zoom.Snapshot{Scale: 1, TranslateX: 50}, off, 40)
	if got := strings.Count(shifted, "█"); got != 20*20 {
		t.Errorf("Expected half the cells covered, got %d", got)
	}

	withCursor := minimap(g, zoom.Snapshot{Scale: 1}, zoom.Vector{X: 50, Y: 50}, 40)
	if strings.Count(withCursor, "+") != 1 {
		t.Errorf("Expected one cursor cell:\n%s", withCursor)
	}
}

func TestBoundsTable(t *testing.T) {
	g, err := zoom.ResolveGeometry(zoom.Size{Width: 400, Height: 1200}, zoom.Size{Width: 400, Height: 800})
	if err != nil {
		t.Fatal(err)
	}
	out := boundsTable(g, zoom.DefaultConfig())
	for _, want := range []string{"double tap", "200.00", "300.00", "1100.00", "2600.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in\n%s", want, out)
		}
	}
}
