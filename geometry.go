package zoom

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateGeometry is returned for zero, negative or non-finite image or
// container dimensions.
var ErrDegenerateGeometry = errors.New("zoom: degenerate geometry")

type Size struct {
	Width, Height float64
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

func (s Size) valid() bool {
	return isFinite(s.Width) && isFinite(s.Height) && s.Width > 0 && s.Height > 0
}

// Geometry is the laid-out image inside its container at scale 1. The image
// is fit to the container width and centred, so a tall image is shifted down
// by InitialTranslateY to put its top edge at the container top.
type Geometry struct {
	Image     Size
	Container Size

	DisplayWidth, DisplayHeight float64
	InitialTranslateY           float64
}

func ResolveGeometry(image, container Size) (Geometry, error) {
	if !image.valid() {
		return Geometry{}, fmt.Errorf("%w: image %v", ErrDegenerateGeometry, image)
	}
	if !container.valid() {
		return Geometry{}, fmt.Errorf("%w: container %v", ErrDegenerateGeometry, container)
	}

	ratio := image.Width / image.Height
	g := Geometry{
		Image:         image,
		Container:     container,
		DisplayWidth:  container.Width,
		DisplayHeight: container.Width / ratio,
	}
	g.InitialTranslateY = math.Max(0, (g.DisplayHeight-container.Height)/2)
	return g, nil
}

// InitialTranslate is the resting translate at scale 1.
func (g Geometry) InitialTranslate() Vector {
	return Vector{0, g.InitialTranslateY}
}

// MaxTranslate is the largest legal |translate| per axis at scale s.
func (g Geometry) MaxTranslate(s float64) Vector {
	return Vector{
		X: math.Max(0, (g.DisplayWidth*s-g.Container.Width)/2),
		Y: math.Max(0, (g.DisplayHeight*s-g.Container.Height)/2),
	}
}

// Bounds is the legal translate box at scale s.
func (g Geometry) Bounds(s float64) BB {
	max := g.MaxTranslate(s)
	return NewBBForExtents(Vector{}, max.X, max.Y)
}

// ImageToContainer maps image pixel coordinates to container coordinates for
// the given transform. The image is centred in the container and scaled about
// its own centre before translation.
func (g Geometry) ImageToContainer(scale float64, translate Vector) Transform {
	fit := NewTransformScale(g.DisplayWidth/g.Image.Width, g.DisplayHeight/g.Image.Height)
	toCentre := NewTransformTranslate(Vector{-g.DisplayWidth / 2, -g.DisplayHeight / 2})
	zoom := NewTransformScale(scale, scale)
	place := NewTransformTranslate(Vector{g.Container.Width/2 + translate.X, g.Container.Height/2 + translate.Y})
	return place.Mult(zoom).Mult(toCentre).Mult(fit)
}

// FocusOffset converts a container position into an offset from the
// container centre.
func (g Geometry) FocusOffset(p Vector) Vector {
	return p.Sub(Vector{g.Container.Width / 2, g.Container.Height / 2})
}
