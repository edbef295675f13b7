// Package render rasterizes a zoom.Snapshot: the source image drawn through
// the snapshot's transform onto a canvas the size of the container.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"github.com/jakecoffman/zoom"
)

var ErrFormat = errors.New("render: unknown output format")

type Renderer struct {
	Geometry   zoom.Geometry
	Background color.Color

	// Interpolator resamples the source. Nil means draw.ApproxBiLinear.
	Interpolator draw.Transformer
}

func New(g zoom.Geometry) *Renderer {
	return &Renderer{
		Geometry:     g,
		Background:   color.Black,
		Interpolator: draw.ApproxBiLinear,
	}
}

// Frame draws src as it appears at snap. src may have any pixel size; it is
// stretched to the image size the geometry was resolved for.
func (r *Renderer) Frame(src image.Image, snap zoom.Snapshot) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0,
		int(math.Ceil(r.Geometry.Container.Width)),
		int(math.Ceil(r.Geometry.Container.Height))))
	r.Draw(dst, src, snap)
	return dst
}

// Draw is Frame onto an existing canvas whose origin is the container's
// top-left corner.
func (r *Renderer) Draw(dst draw.Image, src image.Image, snap zoom.Snapshot) {
	bg := r.Background
	if bg == nil {
		bg = color.Transparent
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	sb := src.Bounds()
	if sb.Empty() {
		return
	}
	g := r.Geometry
	toImage := zoom.NewTransformScale(g.Image.Width/float64(sb.Dx()), g.Image.Height/float64(sb.Dy())).
		Mult(zoom.NewTransformTranslate(zoom.Vector{X: -float64(sb.Min.X), Y: -float64(sb.Min.Y)}))
	m := snap.Transform(g).Mult(toImage)

	interp := r.Interpolator
	if interp == nil {
		interp = draw.ApproxBiLinear
	}
	interp.Transform(dst, m.Aff3(), src, sb, draw.Over, nil)
}

// Encode writes img as "png" or "webp".
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "webp":
		return nativewebp.Encode(w, img, nil)
	}
	return fmt.Errorf("%w: %q", ErrFormat, format)
}
