package probe

import (
	"bufio"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/jakecoffman/zoom"
)

type format struct {
	name         string
	magic        string
	decode       func(io.Reader) (image.Image, error)
	decodeConfig func(io.Reader) (image.Config, error)
}

// formats are matched in order against the leading bytes, '?' matching any
// byte. TGA has no magic number and is tried last on anything unmatched.
// Dispatch is explicit rather than through image.RegisterFormat because the
// registry order depends on package initialization.
var formats = []format{
	{"png", "\x89PNG\r\n\x1a\n", png.Decode, png.DecodeConfig},
	{"jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig},
	{"gif", "GIF8?a", gif.Decode, gif.DecodeConfig},
	{"bmp", "BM????\x00\x00\x00\x00", bmp.Decode, bmp.DecodeConfig},
	{"tiff", "II*\x00", tiff.Decode, tiff.DecodeConfig},
	{"tiff", "MM\x00*", tiff.Decode, tiff.DecodeConfig},
	{"webp", "RIFF????WEBPVP8", webp.Decode, webp.DecodeConfig},
	{"tga", "", tga.Decode, tga.DecodeConfig},
}

func match(magic string, b []byte) bool {
	if len(magic) != len(b) {
		return false
	}
	for i, c := range b {
		if magic[i] != c && magic[i] != '?' {
			return false
		}
	}
	return true
}

func sniff(r *bufio.Reader) format {
	for _, f := range formats {
		b, err := r.Peek(len(f.magic))
		if err == nil && match(f.magic, b) {
			return f
		}
	}
	return formats[len(formats)-1]
}

func decodeErr(f format, err error) error {
	if f.magic == "" {
		return fmt.Errorf("%w: %w", ErrUnknownFormat, err)
	}
	return fmt.Errorf("probe: decode %s: %w", f.name, err)
}

// Decode reads only as much of r as it takes to learn the image dimensions.
func Decode(r io.Reader) (zoom.Size, error) {
	size, _, err := DecodeFormat(r)
	return size, err
}

// DecodeFormat is Decode that also names the format, such as "png".
func DecodeFormat(r io.Reader) (zoom.Size, string, error) {
	br := bufio.NewReader(r)
	f := sniff(br)
	c, err := f.decodeConfig(br)
	if err != nil {
		return zoom.Size{}, "", decodeErr(f, err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return zoom.Size{}, "", fmt.Errorf("probe: decode %s: empty %dx%d image", f.name, c.Width, c.Height)
	}
	return zoom.Size{Width: float64(c.Width), Height: float64(c.Height)}, f.name, nil
}

// DecodeImage decodes the whole image.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	br := bufio.NewReader(r)
	f := sniff(br)
	img, err := f.decode(br)
	if err != nil {
		return nil, "", decodeErr(f, err)
	}
	return img, f.name, nil
}
