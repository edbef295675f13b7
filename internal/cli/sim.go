package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jakecoffman/zoom"
	"github.com/jakecoffman/zoom/probe"
	"github.com/jakecoffman/zoom/touch"
	"github.com/jakecoffman/zoom/viewer"
)

const (
	frameInterval = time.Second / 60

	dragDistance = 60
	dragSteps    = 6
	pinchFactor  = 1.25
	cursorStep   = 20

	minimapColumns = 40
)

func simCommand() *cobra.Command {
	var image, imageSize, container, configPath string
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Interactive zoom simulator",
		Long: `Interactive zoom simulator.

  arrows  drag        +/-    pinch about the centre
  space   double tap  hjkl   move the tap cursor
  r       remount     q      quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			c, err := parseSize(container)
			if err != nil {
				return fmt.Errorf("--container: %w", err)
			}
			config, err := loadConfig(configPath, logger)
			if err != nil {
				return err
			}

			uri := image
			var size zoom.Size
			if uri == "" {
				size, err = parseSize(imageSize)
				if err != nil {
					return fmt.Errorf("--image-size: %w", err)
				}
				uri = "placeholder:" + size.String()
			}

			v := viewer.New(c, config, probe.New(logger.WithPrefix("probe")))
			m := newSimModel(ctx, v, uri, size)
			_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return ctx.Err()
			}
			return err
		},
	}
	cmd.Flags().StringVar(&image, "image", "", "image path or URI")
	cmd.Flags().StringVar(&imageSize, "image-size", "400x1200", "image size WxH, when there is no --image")
	cmd.Flags().StringVar(&container, "container", "400x800", "container size WxH")
	cmd.Flags().StringVar(&configPath, "config", "", "zoom config file (TOML)")
	return cmd
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// simModel turns key presses into synthetic pointer samples. Gestures are
// replayed on a virtual clock that runs ahead of the wall clock, so a whole
// drag lands within one key press.
type simModel struct {
	ctx    context.Context
	viewer *viewer.Viewer
	uri    string
	size   zoom.Size // known image size; zero means probe uri

	rec    *touch.Recognizer
	cursor zoom.Vector
	last   time.Time
	clock  time.Time
}

func newSimModel(ctx context.Context, v *viewer.Viewer, uri string, size zoom.Size) *simModel {
	return &simModel{ctx: ctx, viewer: v, uri: uri, size: size}
}

func (m *simModel) Init() tea.Cmd {
	m.mount()
	return tick()
}

func (m *simModel) mount() {
	m.viewer.Unmount()
	m.rec = nil
	if m.size == (zoom.Size{}) {
		m.viewer.Load(m.ctx, m.uri)
		return
	}
	if err := m.viewer.Mount(m.uri, m.size); err == nil {
		m.attach()
	}
}

// attach points a new recognizer at the mounted controller.
func (m *simModel) attach() {
	c := m.controller()
	if c == nil {
		return
	}
	m.rec = touch.New(c, touch.DefaultConfig())
	m.cursor = zoom.Vector{X: c.Geometry.Container.Width / 2, Y: c.Geometry.Container.Height / 2}
}

func (m *simModel) controller() *zoom.Controller {
	return m.viewer.Controller()
}

func (m *simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.frame(time.Time(msg))
		return m, tick()
	case tea.KeyMsg:
		return m, m.key(msg.String())
	}
	return m, nil
}

func (m *simModel) frame(now time.Time) {
	if m.viewer.Poll() {
		m.attach()
	}
	if c := m.controller(); c != nil && !m.last.IsZero() {
		c.Advance(now.Sub(m.last))
	}
	m.last = now
}

func (m *simModel) key(k string) tea.Cmd {
	switch k {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "r":
		m.mount()
		return nil
	}

	c := m.controller()
	if c == nil || m.rec == nil {
		return nil
	}
	switch k {
	case "up":
		m.drag(zoom.Vector{Y: -dragDistance})
	case "down":
		m.drag(zoom.Vector{Y: dragDistance})
	case "left":
		m.drag(zoom.Vector{X: -dragDistance})
	case "right":
		m.drag(zoom.Vector{X: dragDistance})
	case "+", "=":
		m.pinch(pinchFactor)
	case "-":
		m.pinch(1 / pinchFactor)
	case " ", "space":
		m.doubleTap()
	case "h":
		m.moveCursor(zoom.Vector{X: -cursorStep})
	case "l":
		m.moveCursor(zoom.Vector{X: cursorStep})
	case "k":
		m.moveCursor(zoom.Vector{Y: -cursorStep})
	case "j":
		m.moveCursor(zoom.Vector{Y: cursorStep})
	}
	return nil
}

// at advances the gesture clock by d. The clock never falls behind the last
// frame.
func (m *simModel) at(d time.Duration) time.Time {
	if m.clock.Before(m.last) {
		m.clock = m.last
	}
	m.clock = m.clock.Add(d)
	return m.clock
}

func (m *simModel) centre() zoom.Vector {
	c := m.controller().Geometry.Container
	return zoom.Vector{X: c.Width / 2, Y: c.Height / 2}
}

func (m *simModel) drag(by zoom.Vector) {
	p := m.centre()
	m.rec.Down(1, p, m.at(0))
	for i := 1; i <= dragSteps; i++ {
		m.rec.Move(1, p.Add(by.Mult(float64(i)/dragSteps)), m.at(8*time.Millisecond))
	}
	m.rec.Up(1, p.Add(by), m.at(8*time.Millisecond))
}

func (m *simModel) pinch(factor float64) {
	const span = 100
	p := m.centre()
	half := zoom.Vector{X: span / 2}

	// The fingers land one slop short of span, so the pinch is measured from
	// span once it activates.
	lead := zoom.Vector{X: touch.DefaultConfig().PinchSlop / 2}
	if factor < 1 {
		lead = lead.Mult(-1)
	}
	m.rec.Down(1, p.Sub(half).Add(lead), m.at(0))
	m.rec.Down(2, p.Add(half).Sub(lead), m.at(0))
	m.rec.Move(1, p.Sub(half), m.at(16*time.Millisecond))
	m.rec.Move(2, p.Add(half), m.at(0))
	for i := 1; i <= dragSteps; i++ {
		s := zoom.Lerp(1, factor, float64(i)/dragSteps)
		t := m.at(16 * time.Millisecond)
		m.rec.Move(1, p.Sub(half.Mult(s)), t)
		m.rec.Move(2, p.Add(half.Mult(s)), t)
	}
	t := m.at(16 * time.Millisecond)
	m.rec.Up(1, p.Sub(half.Mult(factor)), t)
	m.rec.Up(2, p.Add(half.Mult(factor)), t)
}

func (m *simModel) doubleTap() {
	m.rec.Down(1, m.cursor, m.at(0))
	m.rec.Up(1, m.cursor, m.at(50*time.Millisecond))
	m.rec.Down(1, m.cursor, m.at(100*time.Millisecond))
	m.rec.Up(1, m.cursor, m.at(50*time.Millisecond))
}

func (m *simModel) moveCursor(by zoom.Vector) {
	c := m.controller().Geometry.Container
	m.cursor = zoom.Vector{
		X: zoom.Clamp(m.cursor.X+by.X, 0, c.Width),
		Y: zoom.Clamp(m.cursor.Y+by.Y, 0, c.Height),
	}
}

func (m *simModel) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("zoomsim"))
	b.WriteString(" " + styleDim.Render(m.uri) + "\n\n")

	switch m.viewer.State() {
	case viewer.StateLoading, viewer.StateEmpty:
		b.WriteString(styleLoading.Render("loading...") + "\n")
		return b.String()
	case viewer.StateFailed:
		b.WriteString(styleFailed.Render(m.viewer.Err().Error()) + "\n\n")
		b.WriteString(styleDim.Render("r retry  q quit") + "\n")
		return b.String()
	}

	c := m.controller()
	snap := c.Snapshot()
	bound := c.Geometry.MaxTranslate(snap.Scale)
	status := []string{
		keyValue("mount", m.viewer.MountID().String()),
		keyValue("scale", fmt.Sprintf("%.3f", snap.Scale)),
		keyValue("translate", fmt.Sprintf("%.1f, %.1f", snap.TranslateX, snap.TranslateY)),
		keyValue("bounds", fmt.Sprintf("±%.1f, ±%.1f", bound.X, bound.Y)),
		keyValue("pinch", c.PinchPhase().String()),
		keyValue("pan", c.PanPhase().String()),
		keyValue("arbiter", c.Arbiter().String()),
		keyValue("animating", animating(c.Engine())),
		keyValue("cursor", fmt.Sprintf("%.0f, %.0f", m.cursor.X, m.cursor.Y)),
	}
	if c.AtRest() {
		status = append(status, styleReady.Render("at rest"))
	}

	mini := styleMinimap.Render(minimap(c.Geometry, snap, m.cursor, minimapColumns))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, mini, "  ", strings.Join(status, "\n")))
	b.WriteString("\n\n")
	b.WriteString(styleDim.Render("arrows drag  +/- pinch  space double tap  hjkl cursor  r remount  q quit"))
	b.WriteString("\n")
	return b.String()
}

// animating names the values with an animation running, or "-".
func animating(e *zoom.Engine) string {
	var names []string
	for _, v := range e.Values() {
		if v.Animating() {
			names = append(names, v.Name())
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, " ")
}

// minimap draws the container as a grid of character cells, marking the
// cells the image covers and the cell under the tap cursor. Terminal cells
// are about twice as tall as wide, so rows are halved.
func minimap(g zoom.Geometry, snap zoom.Snapshot, cursor zoom.Vector, columns int) string {
	cellW := g.Container.Width / float64(columns)
	cellH := cellW * 2
	rows := max(int(g.Container.Height/cellH), 1)

	toImage := snap.Transform(g).Inverse()
	var b strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < columns; col++ {
			centre := zoom.Vector{X: (float64(col) + 0.5) * cellW, Y: (float64(row) + 0.5) * cellH}
			cursorCell := int(cursor.X/cellW) == col && int(cursor.Y/cellH) == row
			p := toImage.Point(centre)
			covered := p.X >= 0 && p.Y >= 0 && p.X < g.Image.Width && p.Y < g.Image.Height
			switch {
			case cursorCell:
				b.WriteString(styleCursorCell.Render("+"))
			case covered:
				b.WriteString(styleImageCell.Render("█"))
			default:
				b.WriteString(styleDim.Render("·"))
			}
		}
	}
	return b.String()
}
