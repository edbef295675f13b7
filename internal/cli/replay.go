package cli

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakecoffman/zoom"
	"github.com/jakecoffman/zoom/probe"
	"github.com/jakecoffman/zoom/render"
	"github.com/jakecoffman/zoom/touch"
	"github.com/jakecoffman/zoom/viewer"
)

// maxSettle bounds how long a replay runs after its last step waiting for
// the controller to come to rest.
const maxSettle = 30 * time.Second

type replayOptions struct {
	config    string
	image     string
	imageSize string
	container string
	fps       int
	out       string
	format    string
	every     int
}

func replayCommand() *cobra.Command {
	opts := replayOptions{
		container: "400x800",
		fps:       60,
		format:    "png",
		every:     1,
	}
	cmd := &cobra.Command{
		Use:   "replay <script.toml>",
		Short: "Replay a gesture script and print the transform every frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.config, "config", "", "zoom config file (TOML)")
	cmd.Flags().StringVar(&opts.image, "image", "", "image path or URI")
	cmd.Flags().StringVar(&opts.imageSize, "image-size", "", "image size WxH; --image is then not probed")
	cmd.Flags().StringVar(&opts.container, "container", opts.container, "container size WxH")
	cmd.Flags().IntVar(&opts.fps, "fps", opts.fps, "frames per second")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "directory to render frames into")
	cmd.Flags().StringVar(&opts.format, "format", opts.format, "frame format: png or webp")
	cmd.Flags().IntVar(&opts.every, "every", opts.every, "render every Nth frame")
	return cmd
}

func runReplay(ctx context.Context, w io.Writer, path string, opts replayOptions) error {
	logger := loggerFromContext(ctx)

	if opts.fps <= 0 {
		return fmt.Errorf("--fps must be positive")
	}
	if opts.every <= 0 {
		opts.every = 1
	}
	script, err := LoadScript(path)
	if err != nil {
		return err
	}
	container, err := parseSize(opts.container)
	if err != nil {
		return fmt.Errorf("--container: %w", err)
	}
	config, err := loadConfig(opts.config, logger)
	if err != nil {
		return err
	}

	prober := probe.New(logger.WithPrefix("probe"))
	v := viewer.New(container, config, prober)
	uri := opts.image
	switch {
	case opts.imageSize != "":
		size, err := parseSize(opts.imageSize)
		if err != nil {
			return fmt.Errorf("--image-size: %w", err)
		}
		if uri == "" {
			uri = "placeholder:" + size.String()
		}
		if err := v.Mount(uri, size); err != nil {
			return err
		}
	case uri != "":
		if err := v.Show(ctx, uri); err != nil {
			return err
		}
	default:
		return errors.New("one of --image or --image-size is required")
	}
	c := v.Controller()

	onFrame := func(f Frame) error {
		fmt.Fprintln(w, f)
		return nil
	}
	if opts.out != "" {
		var src image.Image
		if opts.image != "" {
			if src, err = prober.Image(ctx, opts.image); err != nil {
				return err
			}
		} else {
			src = placeholder(v.ImageSize())
		}
		if err := os.MkdirAll(opts.out, 0o755); err != nil {
			return err
		}
		r := render.New(c.Geometry)
		printFrame := onFrame
		onFrame = func(f Frame) error {
			if err := printFrame(f); err != nil {
				return err
			}
			if f.Index%opts.every != 0 {
				return nil
			}
			return writeFrame(filepath.Join(opts.out, fmt.Sprintf("frame-%05d.%s", f.Index, opts.format)), r.Frame(src, f.Snapshot), opts.format)
		}
	}

	start := time.Now()
	frames, err := replay(ctx, c, script, opts.fps, onFrame)
	if err != nil {
		return err
	}
	logger.Info("replayed", "steps", len(script.Steps), "frames", frames,
		"final", c.Snapshot(), "elapsed", time.Since(start).Round(time.Millisecond))
	if !c.AtRest() {
		logger.Warn("controller still moving after the script", "pinch", c.PinchPhase(), "pan", c.PanPhase())
	}
	return nil
}

// Frame is the controller state at one rendered frame.
type Frame struct {
	Index    int
	At       time.Duration
	Snapshot zoom.Snapshot
	Pinch    zoom.State
	Pan      zoom.State
	Arbiter  zoom.ArbiterState
}

func (f Frame) String() string {
	return fmt.Sprintf("%5d %8.3fs scale=%.4f tx=%.2f ty=%.2f pinch=%s pan=%s arbiter=%s",
		f.Index, f.At.Seconds(), f.Snapshot.Scale, f.Snapshot.TranslateX, f.Snapshot.TranslateY,
		f.Pinch, f.Pan, f.Arbiter)
}

// replay feeds the script through a recognizer into c on a virtual clock,
// calling frame at every frame boundary. It keeps producing frames after the
// last step until c is at rest. It returns the number of frames produced.
func replay(ctx context.Context, c *zoom.Controller, script Script, fps int, frame func(Frame) error) (int, error) {
	rec := touch.New(c, touch.DefaultConfig())
	epoch := time.Unix(0, 0)
	dt := time.Second / time.Duration(fps)

	var next time.Duration
	index := 0
	step := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if index > 0 {
			c.Advance(dt)
		}
		f := Frame{
			Index:    index,
			At:       next,
			Snapshot: c.Snapshot(),
			Pinch:    c.PinchPhase(),
			Pan:      c.PanPhase(),
			Arbiter:  c.Arbiter(),
		}
		index++
		next += dt
		return frame(f)
	}

	var now time.Duration
	for _, s := range script.Steps {
		now += s.Delay()
		for next <= now {
			if err := step(); err != nil {
				return index, err
			}
		}
		s.Apply(rec, epoch.Add(now))
	}

	for next <= now+maxSettle {
		if err := step(); err != nil {
			return index, err
		}
		if c.AtRest() {
			break
		}
	}
	return index, nil
}

func writeFrame(path string, img image.Image, format string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return render.Encode(f, img, format)
}

// placeholder is a checkerboard standing in for an image that was only given
// by size.
func placeholder(size zoom.Size) image.Image {
	w, h := int(size.Width), int(size.Height)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	cell := max(max(w, h)/8, 1)
	light := color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
	dark := color.RGBA{0x44, 0x88, 0xaa, 0xff}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, light)
			} else {
				img.SetRGBA(x, y, dark)
			}
		}
	}
	return img
}
